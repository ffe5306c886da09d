package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/fakeapi"
)

const (
	email    = "user@example.com"
	password = "secret"
)

func newTestClient(t *testing.T) (*Client, *fakeapi.Server) {
	t.Helper()
	backend := fakeapi.New()
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	client, err := New(ts.URL, nil)
	require.NoError(t, err)
	return client, backend
}

func TestClient_Login(t *testing.T) {
	client, backend := newTestClient(t)
	backend.AddUser(email, password)

	token, err := client.Login(context.Background(), email, password)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	calls := backend.Calls(http.MethodPost, "/token")
	require.Len(t, calls, 1)
	assert.Equal(t, "application/x-www-form-urlencoded", calls[0].ContentType)
	assert.Empty(t, calls[0].Authorization)
	_, err = uuid.Parse(calls[0].RequestID)
	assert.NoError(t, err, "X-Request-ID: %q", calls[0].RequestID)

	_, err = client.Login(context.Background(), email, "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Incorrect username or password", DetailOf(err))
}

func TestClient_Login_EmptyToken(t *testing.T) {
	client, backend := newTestClient(t)
	backend.FailNext(http.MethodPost, "/token", http.StatusOK, `{"token_type":"bearer"}`)

	_, err := client.Login(context.Background(), email, password)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestClient_Register(t *testing.T) {
	client, backend := newTestClient(t)

	require.NoError(t, client.Register(context.Background(), email, password))
	token, err := client.Login(context.Background(), email, password)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	err = client.Register(context.Background(), email, password)
	assert.Equal(t, KindRejected, KindOf(err))
	assert.Equal(t, "User with this email already exists", DetailOf(err))

	err = client.Register(context.Background(), "not-an-email", password)
	assert.Equal(t, KindRejected, KindOf(err))
	assert.Equal(t, "value is not a valid email address", DetailOf(err))
	assert.Len(t, backend.Calls(http.MethodPost, "/register"), 3)
}

func TestClient_Links(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()
	token := backend.IssueToken(email)

	links, err := client.ListLinks(ctx, token)
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)

	created, err := client.CreateLink(ctx, token, "http://x")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ShortURL)
	assert.Equal(t, "http://x", created.OriginalURL)

	links, err = client.ListLinks(ctx, token)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, created.ID, links[0].ID)
	assert.Equal(t, created.ShortURL, links[0].ShortURL)
	assert.False(t, links[0].CreatedAt.IsZero())

	require.NoError(t, client.DeleteLink(ctx, token, created.ID))
	links, err = client.ListLinks(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, links)

	err = client.DeleteLink(ctx, token, created.ID)
	assert.Equal(t, KindRejected, KindOf(err))

	for _, call := range backend.Calls("", "/links") {
		assert.Equal(t, "Bearer "+token, call.Authorization)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.ListLinks(ctx, "expired")
	assert.True(t, IsUnauthorized(err))

	_, err = client.CreateLink(ctx, "expired", "http://x")
	assert.True(t, IsUnauthorized(err))

	err = client.DeleteLink(ctx, "expired", 7)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	client, err := New(ts.URL, nil)
	require.NoError(t, err)

	_, err = client.ListLinks(context.Background(), "T")
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestClient_BaseURLWithPath(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client, err := New(ts.URL+"/api", nil)
	require.NoError(t, err)
	_, err = client.ListLinks(context.Background(), "T")
	require.NoError(t, err)
	assert.Equal(t, "/api/links", gotPath)
}

func Test_parseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string detail", body: `{"detail":"Invalid token"}`, want: "Invalid token"},
		{name: "validation list", body: `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, want: "field required; bad email"},
		{name: "plain text", body: "Internal Server Error\n", want: "Internal Server Error"},
		{name: "empty", body: "", want: ""},
		{name: "object detail", body: `{"detail":{"code":1}}`, want: `{"code":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}

func TestError_Error(t *testing.T) {
	err := &Error{Op: "ListLinks", Kind: KindUnauthorized, Status: 401, Detail: "Invalid token"}
	assert.Equal(t, "ListLinks: unauthorized: 401 Invalid token", err.Error())
	assert.Equal(t, ErrorKind(0), KindOf(assert.AnError))
}
