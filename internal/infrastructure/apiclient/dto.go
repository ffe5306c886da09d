package apiclient

import (
	"encoding/json"
	"strings"
)

// TokenResponse ответ POST /token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest тело POST /register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateLinkRequest тело POST /links
type CreateLinkRequest struct {
	OriginalURL string `json:"original_url"`
}

// CreatedLink ответ POST /links.
// ShortCode бэкендом не документирован, но старый клиент его читал.
type CreatedLink struct {
	ID          int64  `json:"id"`
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
	ShortCode   string `json:"short_code,omitempty"`
}

// errorResponse тело ошибки бэкенда. detail - строка или список ошибок валидации.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// parseDetail достает из тела ошибки сообщение для пользователя.
// Если тело не json с detail, возвращается сам текст тела.
func parseDetail(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && len(resp.Detail) > 0 {
		var text string
		if err = json.Unmarshal(resp.Detail, &text); err == nil {
			return text
		}
		var items []validationItem
		if err = json.Unmarshal(resp.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
		return strings.TrimSpace(string(resp.Detail))
	}
	return strings.TrimSpace(string(body))
}
