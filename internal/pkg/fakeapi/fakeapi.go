// Package fakeapi фейковый бэкенд сокращателя ссылок для тестов клиента.
// Повторяет контракт эндпоинтов /token, /register, /links, /links/{id}, /r/{short_url}.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/zaz600/go-musthave-shortener-client/internal/entity"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/random"
	"golang.org/x/crypto/bcrypt"
)

// Call запрос, который получил бэкенд
type Call struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	RequestID     string
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*chi.Mux

	mu       sync.Mutex
	users    map[string]string
	tokens   map[string]string
	links    map[int64]entity.LinkEntity
	owners   map[int64]string
	seq      int64
	calls    []Call
	failures map[string][]failure
	stall    map[string]chan struct{}
	now      func() time.Time
}

func New() *Server {
	s := &Server{
		Mux:      chi.NewRouter(),
		users:    make(map[string]string),
		tokens:   make(map[string]string),
		links:    make(map[int64]entity.LinkEntity),
		owners:   make(map[int64]string),
		failures: make(map[string][]failure),
		stall:    make(map[string]chan struct{}),
		now:      time.Now,
	}
	s.setupHandlers()
	return s
}

// setupHandlers настройка роутинга и middleware
func (s *Server) setupHandlers() {
	s.Use(middleware.RequestID)
	s.Use(middleware.Recoverer)
	s.Use(middleware.Compress(5))
	s.Use(s.record)
	s.Use(s.injectFailures)

	s.Get("/", s.Root())
	s.Post("/register", s.Register())
	s.Post("/token", s.Token())
	s.Get("/r/{shortURL}", s.Redirect())
	s.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/links", s.ListLinks())
		r.Post("/links", s.CreateLink())
		r.Delete("/links/{linkID}", s.DeleteLink())
	})
}

// AddUser заводит пользователя. Паникует, если пароль нельзя захешировать.
func (s *Server) AddUser(email, password string) {
	hash, err := hashPassword(password)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = hash
}

// IssueToken выдает токен пользователю в обход /token
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := random.Token()
	s.tokens[token] = email
	return token
}

// AddToken регистрирует заранее известный токен пользователя
func (s *Server) AddToken(email, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = email
}

// RevokeToken отзывает токен: дальнейшие запросы с ним получат 401
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// AddLink добавляет пользователю ссылку
func (s *Server) AddLink(email, originalURL string) entity.LinkEntity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLinkLocked(email, originalURL)
}

// DeleteLinks удаляет все ссылки пользователя в обход API
func (s *Server) DeleteLinks(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, owner := range s.owners {
		if owner == email {
			delete(s.links, id)
			delete(s.owners, id)
		}
	}
}

// Links ссылки пользователя
func (s *Server) Links(email string) []entity.LinkEntity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userLinksLocked(email)
}

// Calls запросы с указанным методом и путем. Пустой method - любой метод.
func (s *Server) Calls(method, path string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []Call
	for _, c := range s.calls {
		if (method == "" || c.Method == method) && c.Path == path {
			result = append(result, c)
		}
	}
	return result
}

// FailNext следующий запрос method+path получит status и body вместо обычного ответа
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// Stall следующий запрос method+path будет ждать, пока не вызовут возвращенную функцию
func (s *Server) Stall(method, path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.stall[method+" "+path] = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		ch, stalled := s.stall[key]
		delete(s.stall, key)
		var f *failure
		if queue := s.failures[key]; len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if stalled {
			select {
			case <-ch:
			case <-r.Context().Done():
				return
			}
		}
		if f != nil {
			writeAnswer(w, "application/json", f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		email, ok := s.tokens[token]
		s.mu.Unlock()
		if token == "" || !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withEmail(r.Context(), email)))
	})
}

// Root GET /
func (s *Server) Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "URL Shortener is running!"})
	}
}

// Register POST /register
func (s *Server) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		if !strings.Contains(req.Email, "@") {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"detail": []map[string]string{{"msg": "value is not a valid email address"}},
			})
			return
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.mu.Lock()
		_, exists := s.users[req.Email]
		if !exists {
			s.users[req.Email] = hash
		}
		id := len(s.users)
		s.mu.Unlock()
		if exists {
			writeDetail(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id, "email": req.Email})
	}
}

// Token POST /token
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid form")
			return
		}
		username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
		s.mu.Lock()
		hash, ok := s.users[username]
		s.mu.Unlock()
		if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"access_token": s.IssueToken(username),
			"token_type":   "bearer",
		})
	}
}

// ListLinks GET /links
func (s *Server) ListLinks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Links(emailFrom(r.Context())))
	}
}

// CreateLink POST /links
func (s *Server) CreateLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OriginalURL string `json:"original_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OriginalURL == "" {
			writeDetail(w, http.StatusUnprocessableEntity, "original_url is required")
			return
		}
		writeJSON(w, http.StatusOK, s.AddLink(emailFrom(r.Context()), req.OriginalURL))
	}
}

// DeleteLink DELETE /links/{linkID}
func (s *Server) DeleteLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "linkID"), 10, 64)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid link id")
			return
		}
		email := emailFrom(r.Context())
		s.mu.Lock()
		owner, ok := s.owners[id]
		if ok && owner == email {
			delete(s.links, id)
			delete(s.owners, id)
		}
		s.mu.Unlock()
		if !ok || owner != email {
			writeDetail(w, http.StatusNotFound, "Link not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Redirect GET /r/{shortURL}
func (s *Server) Redirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shortURL := chi.URLParam(r, "shortURL")
		s.mu.Lock()
		var target string
		for id, link := range s.links {
			if link.ShortURL == shortURL {
				link.Clicks++
				s.links[id] = link
				target = link.OriginalURL
				break
			}
		}
		s.mu.Unlock()
		if target == "" {
			writeDetail(w, http.StatusNotFound, "Link not found")
			return
		}
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
}

func (s *Server) addLinkLocked(email, originalURL string) entity.LinkEntity {
	s.seq++
	link := entity.LinkEntity{
		ID:          s.seq,
		OriginalURL: originalURL,
		ShortURL:    random.String(6),
		CreatedAt:   entity.Timestamp{Time: s.now().UTC()},
	}
	s.links[link.ID] = link
	s.owners[link.ID] = email
	return link
}

func (s *Server) userLinksLocked(email string) []entity.LinkEntity {
	result := make([]entity.LinkEntity, 0)
	for id := int64(1); id <= s.seq; id++ {
		if link, ok := s.links[id]; ok && s.owners[id] == email {
			result = append(result, link)
		}
	}
	return result
}

// hashPassword хеш пароля с минимальной стоимостью: сервер только для тестов
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash), err
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeAnswer(w, "application/json", status, string(data))
}

// writeAnswer обертка для упрощения записи ответа на запросы
func writeAnswer(w http.ResponseWriter, contentType string, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	_, _ = fmt.Fprint(w, data)
}
