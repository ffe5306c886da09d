package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zaz600/go-musthave-shortener-client/internal/infrastructure/tokenstore"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/hx"
)

const authorizationHeader = "Authorization"

// Session текущая сессия пользователя: bearer-токен и общий заголовок Authorization.
// Токен лениво читается из хранилища при первом обращении.
// Писать в сессию должен один владелец (контроллер), мьютекс защищает от гонок чтения.
type Session struct {
	store   tokenstore.TokenStore
	headers *hx.Config

	mu     sync.RWMutex
	loaded bool
	token  string
}

func New(store tokenstore.TokenStore, headers *hx.Config) *Session {
	if headers == nil {
		headers = hx.NewConfig()
	}
	return &Session{
		store:   store,
		headers: headers,
	}
}

// Token возвращает текущий токен или пустую строку, если пользователь не вошел
func (s *Session) Token(ctx context.Context) string {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.token
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return s.token
}

// Authenticated единственный признак того, какой раздел интерфейса показывать
func (s *Session) Authenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// SetToken сохраняет токен в хранилище и выставляет общий заголовок Authorization.
// Ошибка хранилища возвращается, но токен в памяти все равно обновляется.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.token = token
	s.headers.SetHeader(authorizationHeader, BearerHeader(token))

	if err := s.store.Set(ctx, token); err != nil {
		log.Error().Err(err).Msg("failed to persist token")
		return err
	}
	return nil
}

// Clear удаляет токен из хранилища и общий заголовок Authorization
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.token = ""
	s.headers.DeleteHeader(authorizationHeader)

	if err := s.store.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("failed to clear token")
		return err
	}
	return nil
}

func (s *Session) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	token, err := s.store.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load token, continue as anonymous")
		return
	}
	s.token = token
	if token == "" {
		log.Debug().Msg("authorization header is not set, token is missing")
		return
	}
	s.headers.SetHeader(authorizationHeader, BearerHeader(token))
}

// BearerHeader формирует значение заголовка Authorization. Для пустого токена - пустая строка.
func BearerHeader(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}
