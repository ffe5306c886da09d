// Package hx клиент "декларативных" запросов: все запросы через него получают
// общий набор заголовков по умолчанию, а ошибки ответов рассылаются подписчикам.
package hx

import (
	"net/http"
	"sync"
)

// Config общий набор заголовков по умолчанию
type Config struct {
	mu      sync.RWMutex
	headers map[string]string
}

func NewConfig() *Config {
	return &Config{headers: make(map[string]string)}
}

// SetHeader устанавливает заголовок по умолчанию
func (c *Config) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[http.CanonicalHeaderKey(key)] = value
}

// DeleteHeader удаляет заголовок по умолчанию
func (c *Config) DeleteHeader(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.headers, http.CanonicalHeaderKey(key))
}

// Header возвращает значение заголовка по умолчанию
func (c *Config) Header(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.headers[http.CanonicalHeaderKey(key)]
	return value, ok
}

// Headers копия всех заголовков по умолчанию
func (c *Config) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		result[k] = v
	}
	return result
}

// apply дописывает в запрос заголовки по умолчанию, не трогая уже заданные
func (c *Config) apply(req *http.Request) {
	for k, v := range c.Headers() {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
}
