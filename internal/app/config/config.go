package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL             = "http://localhost:8000"
	defaultLogLevel            = "info"
	defaultDateLayout          = "02.01.2006"
	defaultRegisterToggleDelay = 2 * time.Second
)

// Variant вариант клиента.
// Минимальный вариант не умеет регистрацию, удаление ссылок и копирование.
type Variant string

const (
	VariantExtended Variant = "extended"
	VariantMinimal  Variant = "minimal"
)

// ErrUnknownVariant неизвестное значение варианта клиента
var ErrUnknownVariant = errors.New("unknown client variant")

// ClientConfig настройки клиента
type ClientConfig struct {
	// BaseURL адрес бэкенда сокращателя ссылок. Его origin - область видимости токена.
	BaseURL string `json:"base_url" yaml:"base_url"`
	// TokenFilePath путь к файлу, в котором хранится токен. Опциональный параметр.
	TokenFilePath string `json:"token_file_path" yaml:"token_file_path"`
	// DatabaseDSN строка подключения к БД для хранения токена. Поддерживается PG. Параметр опциональный
	DatabaseDSN string `json:"database_dsn" yaml:"database_dsn"`
	// Variant extended или minimal
	Variant Variant `json:"variant" yaml:"variant"`
	// LogLevel уровень логирования zerolog
	LogLevel string `json:"log_level" yaml:"log_level"`
	// RequestTimeout таймаут http-запросов. 0 - без таймаута
	RequestTimeout time.Duration `json:"-" yaml:"-"`
	// DateLayout формат даты создания ссылки в списке
	DateLayout string `json:"date_layout" yaml:"date_layout"`
	// RegisterToggleDelay через сколько после успешной регистрации вернуться к форме входа
	RegisterToggleDelay time.Duration `json:"-" yaml:"-"`
}

// TokenStoreType тип хранилища токена
type TokenStoreType int

const (
	// MemoryStore хранить токен в памяти. Токен теряется при выходе из приложения.
	MemoryStore TokenStoreType = iota
	// FileStore хранить токен в файле
	FileStore
	// DatabaseStore хранить токен в БД
	DatabaseStore
)

// GetTokenStoreType возвращает тип хранилища токена TokenStoreType,
// который вычисляется по переданным через флаги/env параметрам.
// Если путь к файлу и строка подключения к БД не заданы, то вернется MemoryStore
func (c ClientConfig) GetTokenStoreType() TokenStoreType {
	if c.TokenFilePath != "" {
		return FileStore
	}
	if c.DatabaseDSN != "" {
		return DatabaseStore
	}
	return MemoryStore
}

// Origin возвращает scheme://host базового адреса без завершающего слеша
func (c ClientConfig) Origin() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return u.Scheme + "://" + u.Host
}

// Validate проверяет значения, которые нельзя поправить умолчаниями
func (c ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base url is empty")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base url %q", c.BaseURL)
	}
	switch c.Variant {
	case VariantExtended, VariantMinimal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, c.Variant)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	return nil
}

func getConfigFileName(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return getEnvOrDefault("CONFIG", "")
}

// GetConfig возвращает конфигурацию клиента, вычитывая в таком порядке
// файл конфигурации -> env (в том числе из .env) -> аргументы командной строки.
// args - аргументы без имени программы. Возвращает аргументы, оставшиеся после флагов (команду).
func GetConfig(args []string) (*ClientConfig, []string, error) {
	loadDotEnv(dotEnvFile)

	cfg, err := getParamsFromFile(getConfigFileName(args))
	if err != nil {
		return nil, nil, err
	}
	applyDefaults(&cfg)

	fs := flag.NewFlagSet("shortener-client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_ = fs.String("c", "", "config file (json or yaml). env: CONFIG")
	fs.StringVar(&cfg.BaseURL, "b", getEnvOrDefault("BASE_URL", cfg.BaseURL), "backend base url. env: BASE_URL")
	fs.StringVar(&cfg.TokenFilePath, "f", getEnvOrDefault("TOKEN_FILE_PATH", cfg.TokenFilePath), "token file path. env: TOKEN_FILE_PATH")
	fs.StringVar(&cfg.DatabaseDSN, "d", getEnvOrDefault("DATABASE_DSN", cfg.DatabaseDSN), "PG dsn for token storage. env: DATABASE_DSN")
	variant := fs.String("variant", getEnvOrDefault("CLIENT_VARIANT", string(cfg.Variant)), "client variant: extended or minimal. env: CLIENT_VARIANT")
	fs.StringVar(&cfg.LogLevel, "l", getEnvOrDefault("LOG_LEVEL", cfg.LogLevel), "log level. env: LOG_LEVEL")
	fs.DurationVar(&cfg.RequestTimeout, "t", getDurationEnvOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout), "http request timeout, 0 - none. env: REQUEST_TIMEOUT")
	fs.StringVar(&cfg.DateLayout, "date-layout", getEnvOrDefault("DATE_LAYOUT", cfg.DateLayout), "link creation date layout. env: DATE_LAYOUT")
	fs.DurationVar(&cfg.RegisterToggleDelay, "register-delay", getDurationEnvOrDefault("REGISTER_TOGGLE_DELAY", cfg.RegisterToggleDelay), "delay before returning to login after registration. env: REGISTER_TOGGLE_DELAY")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg.Variant = Variant(strings.ToLower(*variant))
	if cfg.TokenFilePath == "" && cfg.DatabaseDSN == "" && !tokenFileExplicit(fs) {
		cfg.TokenFilePath = defaultTokenFilePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, fs.Args(), nil
}

func applyDefaults(cfg *ClientConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Variant == "" {
		cfg.Variant = VariantExtended
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = defaultDateLayout
	}
	if cfg.RegisterToggleDelay == 0 {
		cfg.RegisterToggleDelay = defaultRegisterToggleDelay
	}
}

// tokenFileExplicit задан ли путь к файлу токена флагом или env.
// Явно пустой путь означает хранение токена в памяти.
func tokenFileExplicit(fs *flag.FlagSet) bool {
	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "f" {
			explicit = true
		}
	})
	if _, ok := os.LookupEnv("TOKEN_FILE_PATH"); ok {
		explicit = true
	}
	return explicit
}

// defaultTokenFilePath путь к файлу с токеном в пользовательском каталоге настроек.
// Если каталог определить не удалось, токен будет храниться в памяти.
func defaultTokenFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.Warn().Err(err).Msg("user config dir is unknown, token will be kept in memory")
		return ""
	}
	return filepath.Join(dir, "shortener-client", "session.json")
}

// fileConfig промежуточное представление файла конфигурации:
// длительности в файле задаются строками вида "2s"
type fileConfig struct {
	ClientConfig        `yaml:",inline"`
	RequestTimeout      string `json:"request_timeout" yaml:"request_timeout"`
	RegisterToggleDelay string `json:"register_toggle_delay" yaml:"register_toggle_delay"`
}

func getParamsFromFile(configFile string) (ClientConfig, error) {
	if configFile == "" {
		return ClientConfig{}, nil
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return ClientConfig{}, fmt.Errorf("error parsing config file %s: %w", configFile, err)
	}

	cfg := fc.ClientConfig
	if cfg.RequestTimeout, err = parseDuration(fc.RequestTimeout); err != nil {
		return ClientConfig{}, fmt.Errorf("request_timeout: %w", err)
	}
	if cfg.RegisterToggleDelay, err = parseDuration(fc.RegisterToggleDelay); err != nil {
		return ClientConfig{}, fmt.Errorf("register_toggle_delay: %w", err)
	}
	return cfg, nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	return time.ParseDuration(value)
}
