package tokenstore

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/zaz600/go-musthave-shortener-client/internal/app/config"
)

// TokenStore интерфейс для работы с хранилищем bearer-токена.
// Хранилище ограничено одним origin: на один origin хранится не больше одного токена.
type TokenStore interface {
	// Get возвращает сохраненный токен. Если токена нет, возвращает пустую строку без ошибки.
	Get(ctx context.Context) (string, error)

	// Set сохраняет токен, заменяя предыдущий
	Set(ctx context.Context, token string) error

	// Clear удаляет токен
	Clear(ctx context.Context) error

	// Close закрывает, все, что надо закрыть
	Close(ctx context.Context) error
}

// NewTokenStore создает хранилище токена для origin по настройкам клиента
func NewTokenStore(ctx context.Context, cfg *config.ClientConfig) (TokenStore, error) {
	origin := cfg.Origin()
	switch cfg.GetTokenStoreType() {
	case config.FileStore:
		log.Debug().Str("path", cfg.TokenFilePath).Msg("FileTokenStore")
		return NewFileTokenStore(cfg.TokenFilePath, origin)
	case config.DatabaseStore:
		log.Debug().Msg("PgTokenStore")
		return NewPgTokenStore(ctx, cfg.DatabaseDSN, origin)
	default:
		log.Debug().Msg("MemoryTokenStore")
		return NewMemoryTokenStore(origin, nil), nil
	}
}
