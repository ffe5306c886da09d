package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const dotEnvFile = ".env"

// loadDotEnv дописывает в окружение переменные из .env-файла.
// Уже заданные переменные не перезаписываются, отсутствие файла не ошибка.
func loadDotEnv(filename string) {
	if err := godotenv.Load(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("file", filename).Msg("env file is ignored")
	}
}

// getEnvOrDefault возвращает значение из переменной среды окружения,
// если такая задана или значение по умолчанию.
func getEnvOrDefault(key string, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if ok {
		return value
	}
	return defaultValue
}

// getDurationEnvOrDefault то же, что getEnvOrDefault, но для длительностей.
// Некорректное значение логируется и заменяется значением по умолчанию.
func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Err(err).Str("env", key).Msg("invalid duration, default is used")
		return defaultValue
	}
	return d
}
