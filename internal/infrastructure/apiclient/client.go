package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zaz600/go-musthave-shortener-client/internal/entity"
)

// Client инкапсулирует HTTP-взаимодействие с бэкендом сокращателя ссылок
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New создает клиент бэкенда. httpClient может быть nil, тогда используется клиент без таймаута.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// Login POST /token с username/password в x-www-form-urlencoded. Возвращает access_token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	const op = "Login"
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.do(ctx, http.MethodPost, "token", "", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", wrapError(op, KindNetwork, err)
	}
	defer resp.Body.Close()
	if err = checkStatus(op, resp); err != nil {
		return "", err
	}
	var body TokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", wrapError(op, KindDecode, err)
	}
	if strings.TrimSpace(body.AccessToken) == "" {
		return "", &Error{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: errors.New("empty access token")}
	}
	return body.AccessToken, nil
}

// Register POST /register с {email, password}
func (c *Client) Register(ctx context.Context, email, password string) error {
	const op = "Register"
	resp, err := c.doJSON(ctx, http.MethodPost, "register", "", RegisterRequest{Email: email, Password: password})
	if err != nil {
		return wrapError(op, KindNetwork, err)
	}
	defer resp.Body.Close()
	if err = checkStatus(op, resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ListLinks GET /links - ссылки текущего пользователя
func (c *Client) ListLinks(ctx context.Context, token string) ([]entity.LinkEntity, error) {
	const op = "ListLinks"
	resp, err := c.do(ctx, http.MethodGet, "links", token, "", nil)
	if err != nil {
		return nil, wrapError(op, KindNetwork, err)
	}
	defer resp.Body.Close()
	if err = checkStatus(op, resp); err != nil {
		return nil, err
	}
	var links []entity.LinkEntity
	if err = json.NewDecoder(resp.Body).Decode(&links); err != nil {
		return nil, wrapError(op, KindDecode, err)
	}
	if links == nil {
		links = []entity.LinkEntity{}
	}
	return links, nil
}

// CreateLink POST /links с {original_url}
func (c *Client) CreateLink(ctx context.Context, token, originalURL string) (CreatedLink, error) {
	const op = "CreateLink"
	resp, err := c.doJSON(ctx, http.MethodPost, "links", token, CreateLinkRequest{OriginalURL: originalURL})
	if err != nil {
		return CreatedLink{}, wrapError(op, KindNetwork, err)
	}
	defer resp.Body.Close()
	if err = checkStatus(op, resp); err != nil {
		return CreatedLink{}, err
	}
	var link CreatedLink
	if err = json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return CreatedLink{}, wrapError(op, KindDecode, err)
	}
	return link, nil
}

// DeleteLink DELETE /links/{id}
func (c *Client) DeleteLink(ctx context.Context, token string, id int64) error {
	const op = "DeleteLink"
	resp, err := c.do(ctx, http.MethodDelete, "links/"+strconv.FormatInt(id, 10), token, "", nil)
	if err != nil {
		return wrapError(op, KindNetwork, err)
	}
	defer resp.Body.Close()
	if err = checkStatus(op, resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader) (*http.Response, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	full := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, full.String(), body)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	log.Debug().Str("method", method).Str("url", full.String()).Str("request_id", requestID).Msg("api request")
	return c.httpClient.Do(req)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload interface{}) (*http.Response, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, token, "application/json", buf)
}

// checkStatus превращает не 2xx ответ в *Error с сообщением бэкенда
func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	kind := KindRejected
	if resp.StatusCode == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	return &Error{
		Op:     op,
		Kind:   kind,
		Status: resp.StatusCode,
		Detail: parseDetail(body),
		Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
	}
}

func wrapError(op string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
