package entity

// LinkEntity сокращенная ссылка пользователя в том виде, в каком ее отдает бэкенд.
// Клиент ссылки не изменяет, только запрашивает создание/удаление и перечитывает список.
type LinkEntity struct {
	ID          int64     `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   Timestamp `json:"created_at"`
}

// ShortLink возвращает полный адрес короткой ссылки - {origin}/r/{short_url}
func (e LinkEntity) ShortLink(origin string) string {
	return origin + "/r/" + e.ShortURL
}
