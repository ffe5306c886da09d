package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileTokenStore хранит токены в json-файле вида {"origin": "token"}.
// Файл переписывается целиком при каждом изменении, токены других origin сохраняются.
type FileTokenStore struct {
	path   string
	origin string
	mu     sync.Mutex
}

func NewFileTokenStore(path string, origin string) (*FileTokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}
	store := &FileTokenStore{
		path:   path,
		origin: origin,
	}
	tokens, err := store.load()
	if err != nil {
		return nil, err
	}
	log.Debug().Int("origins", len(tokens)).Msg("token storage loaded")
	return store, nil
}

func (f *FileTokenStore) Get(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tokens, err := f.load()
	if err != nil {
		return "", err
	}
	return tokens[f.origin], nil
}

func (f *FileTokenStore) Set(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tokens, err := f.load()
	if err != nil {
		return err
	}
	tokens[f.origin] = token
	return f.dump(tokens)
}

func (f *FileTokenStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tokens, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := tokens[f.origin]; !ok {
		return nil
	}
	delete(tokens, f.origin)
	return f.dump(tokens)
}

func (f *FileTokenStore) Close(_ context.Context) error {
	return nil
}

// load читает токены из файла. Отсутствующий, пустой или поврежденный файл - пустое хранилище.
func (f *FileTokenStore) load() (map[string]string, error) {
	tokens := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tokens, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return tokens, nil
	}
	if err = json.Unmarshal(data, &tokens); err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("corrupted token file is ignored, it will be overwritten")
		return make(map[string]string), nil
	}
	return tokens, nil
}

// dump атомарно записывает токены: во временный файл и rename поверх основного
func (f *FileTokenStore) dump(tokens map[string]string) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
