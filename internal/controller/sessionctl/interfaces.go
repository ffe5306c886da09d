package sessionctl

import (
	"context"
	"io"

	"github.com/zaz600/go-musthave-shortener-client/internal/controller/view"
	"github.com/zaz600/go-musthave-shortener-client/internal/entity"
	"github.com/zaz600/go-musthave-shortener-client/internal/infrastructure/apiclient"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/hx"
)

// Session хранилище текущего токена
type Session interface {
	Token(ctx context.Context) string
	Authenticated(ctx context.Context) bool
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// API бэкенд сокращателя ссылок
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, email, password string) error
	ListLinks(ctx context.Context, token string) ([]entity.LinkEntity, error)
	CreateLink(ctx context.Context, token, originalURL string) (apiclient.CreatedLink, error)
	DeleteLink(ctx context.Context, token string, id int64) error
}

// View экран, которым управляет контроллер
type View interface {
	Has(section view.Section) bool
	Visible(section view.Section) bool
	Show(section view.Section) error
	Hide(section view.Section) error
	SetMessage(region view.Region, msg view.Message) error
	ClearMessage(region view.Region) error
	RenderLinks(blocks []view.LinkBlock) error
	RenderLinksPlaceholder(text string) error
	Alert(text string)
}

// Requester клиент "декларативных" запросов с общими заголовками
type Requester interface {
	Do(ctx context.Context, method, path string, body io.Reader) (*hx.Response, error)
}
