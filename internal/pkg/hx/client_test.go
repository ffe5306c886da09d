package hx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Headers(t *testing.T) {
	cfg := NewConfig()
	cfg.SetHeader("authorization", "Bearer abc")

	value, ok := cfg.Header("Authorization")
	assert.True(t, ok)
	assert.Equal(t, "Bearer abc", value)
	assert.Equal(t, map[string]string{"Authorization": "Bearer abc"}, cfg.Headers())

	cfg.DeleteHeader("Authorization")
	_, ok = cfg.Header("Authorization")
	assert.False(t, ok)
	assert.Empty(t, cfg.Headers())
}

func TestClient_Do(t *testing.T) {
	var gotAuth, gotCustom string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCustom = r.Header.Get("X-Custom")
		switch r.URL.Path {
		case "/links":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"invalid token"}`))
		default:
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		}
	}))
	defer ts.Close()

	cfg := NewConfig()
	cfg.SetHeader("Authorization", "Bearer abc")
	cfg.SetHeader("X-Custom", "1")
	client, err := NewClient(ts.URL, cfg, nil)
	require.NoError(t, err)

	var events []ResponseErrorEvent
	client.OnResponseError(func(e ResponseErrorEvent) {
		events = append(events, e)
	})

	resp, err := client.Do(context.Background(), "get", "/", nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `{"message":"ok"}`, string(resp.Body))
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "1", gotCustom)
	assert.Empty(t, events, "успешный ответ не рассылается подписчикам")

	cfg.DeleteHeader("Authorization")
	resp, err = client.Do(context.Background(), http.MethodGet, "/links", nil)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Empty(t, gotAuth, "удаленный заголовок больше не отправляется")
	require.Len(t, events, 1)
	assert.Equal(t, ResponseErrorEvent{
		Method: http.MethodGet,
		Path:   "/links",
		Status: http.StatusUnauthorized,
		Body:   `{"detail":"invalid token"}`,
	}, events[0])
}

func TestClient_Do_BasePath(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	for _, base := range []string{ts.URL + "/api", ts.URL + "/api/"} {
		paths = nil
		client, err := NewClient(base, nil, nil)
		require.NoError(t, err)

		for _, path := range []string{"/", "/links", "links/7"} {
			_, err = client.Do(context.Background(), http.MethodGet, path, nil)
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"/api/", "/api/links", "/api/links/7"}, paths, base)
	}
}

func TestClient_Do_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	client, err := NewClient(ts.URL, nil, nil)
	require.NoError(t, err)

	called := false
	client.OnResponseError(func(ResponseErrorEvent) { called = true })
	_, err = client.Do(context.Background(), http.MethodGet, "/", nil)
	assert.Error(t, err)
	assert.False(t, called, "сетевая ошибка не является ошибкой ответа")
}

func Test_truncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}
