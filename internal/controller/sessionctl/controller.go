package sessionctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zaz600/go-musthave-shortener-client/internal/app/config"
	"github.com/zaz600/go-musthave-shortener-client/internal/controller/view"
	"github.com/zaz600/go-musthave-shortener-client/internal/infrastructure/apiclient"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/hx"
)

// ErrUnsupported операция недоступна в минимальном варианте клиента
var ErrUnsupported = errors.New("operation is not supported by this client variant")

// Options параметры контроллера
type Options struct {
	// Origin адрес, от которого строятся короткие ссылки {origin}/r/{short_url}
	Origin              string
	Variant             config.Variant
	DateLayout          string
	RegisterToggleDelay time.Duration
	// OnChange вызывается после изменений экрана, сделанных вне вызова операции (по таймеру)
	OnChange func()
}

// Controller обработчики действий пользователя: вход, регистрация, ссылки, выход.
// Управляет видимостью разделов экрана по единственному признаку - наличию токена.
type Controller struct {
	session   Session
	api       API
	view      View
	requester Requester
	opts      Options

	// loadGen поколение загрузки списка ссылок: устаревшие ответы отбрасываются
	loadGen uint64

	timersMu       sync.Mutex
	// timers ожидающие срабатывания таймеры; сработавший или отмененный таймер удаляется
	timers         map[*time.Timer]struct{}
	cancelRegister func()
}

func New(session Session, api API, v View, requester Requester, opts Options) *Controller {
	if opts.Variant == "" {
		opts.Variant = config.VariantExtended
	}
	return &Controller{
		session:   session,
		api:       api,
		view:      v,
		requester: requester,
		opts:      opts,
		timers:    make(map[*time.Timer]struct{}),
	}
}

// Extended доступны ли регистрация, удаление и копирование ссылок
func (c *Controller) Extended() bool {
	return c.opts.Variant == config.VariantExtended
}

// requiredSections разделы, без которых переключать видимость нельзя
func (c *Controller) requiredSections() []view.Section {
	if c.Extended() {
		return []view.Section{view.SectionLogin, view.SectionRegister, view.SectionApp}
	}
	return []view.Section{view.SectionLogin, view.SectionApp}
}

// RefreshView показывает раздел приложения или входа в зависимости от наличия токена.
// При входе в приложение загружает список ссылок.
// Если на экране нет нужных разделов, пишет ошибку в лог и ничего не меняет.
func (c *Controller) RefreshView(ctx context.Context) {
	c.stopRegisterToggle()
	for _, section := range c.requiredSections() {
		if !c.view.Has(section) {
			log.Error().Str("section", section.String()).Msg("view sections not found")
			return
		}
	}

	if c.session.Authenticated(ctx) {
		c.hide(view.SectionLogin)
		c.hideRegister()
		c.show(view.SectionApp)
		log.Info().Msg("authorized")
		c.LoadLinks(ctx)
		return
	}
	c.show(view.SectionLogin)
	c.hideRegister()
	c.hide(view.SectionApp)
	log.Info().Msg("not authorized, log in to access links")
}

// LoadLinks загружает ссылки пользователя и выводит их в список.
// 401 - выход без отрисовки, прочие ошибки - заглушка с ошибкой в списке.
// Если пока шел запрос началась новая загрузка, результат отбрасывается.
func (c *Controller) LoadLinks(ctx context.Context) {
	gen := atomic.AddUint64(&c.loadGen, 1)
	links, err := c.api.ListLinks(ctx, c.session.Token(ctx))
	if current := atomic.LoadUint64(&c.loadGen); gen != current {
		log.Debug().Uint64("gen", gen).Uint64("current", current).Msg("stale links response discarded")
		return
	}
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			log.Info().Msg("token rejected while loading links")
			c.Logout(ctx)
			return
		}
		log.Warn().Err(err).Msg("failed to load links")
		if err = c.view.RenderLinksPlaceholder(view.LoadErrorPlaceholder); err != nil {
			log.Error().Err(err).Msg("render links placeholder")
		}
		return
	}

	blocks := view.BuildLinkBlocks(c.opts.Origin, links, view.BlockOptions{
		DateLayout: c.opts.DateLayout,
		CanDelete:  c.Extended(),
		CanCopy:    c.Extended(),
	})
	if err = c.view.RenderLinks(blocks); err != nil {
		log.Error().Err(err).Msg("render links")
	}
}

// Login вход по логину и паролю. При успехе токен сохраняется и экран переключается на приложение.
// При ошибке сохраненный токен не меняется.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	token, err := c.api.Login(ctx, username, password)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("login failed")
		c.setMessage(view.RegionAuthResult, errorMessage(err, msgLoginFailed))
		return err
	}
	if err = c.session.SetToken(ctx, token); err != nil {
		log.Warn().Err(err).Msg("token is kept for this run only")
	}
	c.setMessage(view.RegionAuthResult, view.Message{Level: view.LevelSuccess, Text: msgLoginSuccess})
	c.RefreshView(ctx)
	return nil
}

// Register регистрация. При успехе через RegisterToggleDelay экран возвращается к форме входа.
func (c *Controller) Register(ctx context.Context, email, password string) error {
	if !c.Extended() {
		return ErrUnsupported
	}
	if err := c.api.Register(ctx, email, password); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("registration failed")
		c.setMessage(view.RegionRegisterResult, errorMessage(err, msgRegisterFailed))
		return err
	}
	c.setMessage(view.RegionRegisterResult, view.Message{Level: view.LevelSuccess, Text: msgRegisterSuccess})
	c.scheduleRegisterToggle()
	return nil
}

// scheduleRegisterToggle через RegisterToggleDelay возвращает к форме входа.
// Отменяется переключением форм и сменой состояния сессии.
func (c *Controller) scheduleRegisterToggle() {
	c.stopRegisterToggle()
	cancel := c.after(c.opts.RegisterToggleDelay, func() {
		if err := c.view.ClearMessage(view.RegionRegisterResult); err != nil {
			log.Error().Err(err).Msg("clear register result")
		}
		if !c.view.Visible(view.SectionRegister) || c.session.Authenticated(context.Background()) {
			return
		}
		c.showLoginForm()
	})
	c.timersMu.Lock()
	c.cancelRegister = cancel
	c.timersMu.Unlock()
}

func (c *Controller) stopRegisterToggle() {
	c.timersMu.Lock()
	cancel := c.cancelRegister
	c.cancelRegister = nil
	c.timersMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// CreateLink сокращает ссылку и перезагружает список
func (c *Controller) CreateLink(ctx context.Context, originalURL string) error {
	link, err := c.api.CreateLink(ctx, c.session.Token(ctx), originalURL)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			c.Logout(ctx)
			return err
		}
		log.Warn().Err(err).Str("url", originalURL).Msg("create link failed")
		c.setMessage(view.RegionLinkResult, errorMessage(err, msgCreateFailed))
		return err
	}
	c.setMessage(view.RegionLinkResult, view.Message{
		Level: view.LevelSuccess,
		Text:  msgLinkCreated,
		Link:  c.opts.Origin + "/r/" + link.ShortURL,
	})
	c.LoadLinks(ctx)
	return nil
}

// DeleteLink удаляет ссылку и перезагружает список
func (c *Controller) DeleteLink(ctx context.Context, id int64) error {
	if !c.Extended() {
		return ErrUnsupported
	}
	err := c.api.DeleteLink(ctx, c.session.Token(ctx), id)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			c.Logout(ctx)
			return err
		}
		log.Warn().Err(err).Int64("id", id).Msg("delete link failed")
		c.view.Alert(msgDeleteFailed)
		return err
	}
	c.LoadLinks(ctx)
	return nil
}

// Logout удаляет токен и общий заголовок Authorization, показывает форму входа
func (c *Controller) Logout(ctx context.Context) {
	if err := c.session.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("token storage was not cleared")
	}
	c.RefreshView(ctx)
}

// ToggleRegister переключает форму регистрации и форму входа. Раздел приложения остается скрытым.
func (c *Controller) ToggleRegister() error {
	if !c.Extended() {
		return ErrUnsupported
	}
	c.stopRegisterToggle()
	if !c.view.Has(view.SectionRegister) || !c.view.Has(view.SectionLogin) {
		log.Error().Msg("register or login section not found")
		return nil
	}
	if c.view.Visible(view.SectionRegister) {
		c.showLoginForm()
		return nil
	}
	c.show(view.SectionRegister)
	c.hide(view.SectionLogin)
	c.hide(view.SectionApp)
	return nil
}

// HandleResponseError подписчик на ошибки "декларативных" запросов: 401 - выход и предупреждение
func (c *Controller) HandleResponseError(event hx.ResponseErrorEvent) {
	if event.Status != http.StatusUnauthorized {
		return
	}
	log.Info().Str("method", event.Method).Str("path", event.Path).Msg("session expired")
	c.Logout(context.Background())
	c.view.Alert(msgSessionExpired)
}

// Ping GET / через клиент с общими заголовками
func (c *Controller) Ping(ctx context.Context) (string, error) {
	resp, err := c.requester.Do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("unexpected status %d", resp.Status)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err = json.Unmarshal(resp.Body, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

// Request произвольный запрос через клиент с общими заголовками
func (c *Controller) Request(ctx context.Context, method, path string, body io.Reader) (*hx.Response, error) {
	return c.requester.Do(ctx, method, path, body)
}

// Close останавливает отложенные действия
func (c *Controller) Close() {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	for t := range c.timers {
		t.Stop()
		delete(c.timers, t)
	}
	c.cancelRegister = nil
}

// after выполняет fn через d и вызывает OnChange. Возвращает функцию отмены.
func (c *Controller) after(d time.Duration, fn func()) (cancel func()) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		if !c.takeTimer(t) {
			return
		}
		fn()
		if c.opts.OnChange != nil {
			c.opts.OnChange()
		}
	})
	c.timers[t] = struct{}{}
	return func() {
		if c.takeTimer(t) {
			t.Stop()
		}
	}
}

// takeTimer удаляет таймер из ожидающих. false - таймер уже сработал или отменен.
func (c *Controller) takeTimer(t *time.Timer) bool {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	if _, ok := c.timers[t]; !ok {
		return false
	}
	delete(c.timers, t)
	return true
}

func (c *Controller) showLoginForm() {
	c.hideRegister()
	c.show(view.SectionLogin)
}

func (c *Controller) hideRegister() {
	if c.view.Has(view.SectionRegister) {
		c.hide(view.SectionRegister)
	}
}

func (c *Controller) show(section view.Section) {
	if err := c.view.Show(section); err != nil {
		log.Error().Err(err).Msg("show section")
	}
}

func (c *Controller) hide(section view.Section) {
	if err := c.view.Hide(section); err != nil {
		log.Error().Err(err).Msg("hide section")
	}
}

func (c *Controller) setMessage(region view.Region, msg view.Message) {
	if err := c.view.SetMessage(region, msg); err != nil {
		log.Error().Err(err).Msg("set message")
	}
}

// errorMessage сообщение об ошибке: сетевая ошибка, текст бэкенда или fallback
func errorMessage(err error, fallback string) view.Message {
	text := fallback
	switch {
	case apiclient.KindOf(err) == apiclient.KindNetwork:
		text = msgNetworkError
	case apiclient.DetailOf(err) != "":
		text = apiclient.DetailOf(err)
	}
	return view.Message{Level: view.LevelError, Text: text}
}
