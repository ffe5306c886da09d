package hx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// maxErrorBody сколько байт тела ответа с ошибкой попадает в событие
const maxErrorBody = 4096

// ResponseErrorEvent событие об ответе со статусом >= 400
type ResponseErrorEvent struct {
	Method string
	Path   string
	Status int
	Body   string
}

// ResponseErrorListener подписчик на ошибки ответов
type ResponseErrorListener func(ResponseErrorEvent)

// Response прочитанный ответ
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK статус 2xx
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Client struct {
	cfg        *Config
	baseURL    *url.URL
	httpClient *http.Client

	mu        sync.RWMutex
	listeners []ResponseErrorListener
}

func NewClient(baseURL string, cfg *Config, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		cfg:        cfg,
		baseURL:    parsed,
		httpClient: httpClient,
	}, nil
}

// Config общий набор заголовков клиента
func (c *Client) Config() *Config {
	return c.cfg
}

// OnResponseError подписывает fn на ответы со статусом >= 400
func (c *Client) OnResponseError(fn ResponseErrorListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Do выполняет запрос с заголовками по умолчанию и читает ответ целиком.
// Ошибка возвращается только если запрос не удалось выполнить;
// ответы с ошибочным статусом возвращаются как есть и рассылаются подписчикам.
// path отсчитывается от пути базового адреса, ведущий слеш не важен.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) (*Response, error) {
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	full := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), full.String(), body)
	if err != nil {
		return nil, err
	}
	c.cfg.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	result := &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}
	if resp.StatusCode >= http.StatusBadRequest {
		event := ResponseErrorEvent{
			Method: req.Method,
			Path:   full.Path,
			Status: resp.StatusCode,
			Body:   truncate(string(data), maxErrorBody),
		}
		log.Debug().Str("method", event.Method).Str("path", event.Path).Int("status", event.Status).Msg("response error")
		c.dispatch(event)
	}
	return result, nil
}

func (c *Client) dispatch(event ResponseErrorEvent) {
	c.mu.RLock()
	listeners := make([]ResponseErrorListener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
