// Command fakeapi локальный бэкенд сокращателя ссылок для ручной проверки клиента.
//
//	go run ./cmd/fakeapi -a localhost:8000 -u user@example.com:secret
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/fakeapi"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/httpserver"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMicro
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	os.Exit(CLI(os.Args))
}

func CLI(args []string) int {
	if err := runApp(args[1:]); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		return 1
	}
	return 0
}

func runApp(args []string) error {
	fs := flag.NewFlagSet("fakeapi", flag.ContinueOnError)
	address := fs.String("a", getEnvOrDefault("SERVER_ADDRESS", "localhost:8000"), "listen address. env: SERVER_ADDRESS")
	users := fs.String("u", getEnvOrDefault("FAKEAPI_USERS", ""), "comma separated email:password pairs. env: FAKEAPI_USERS")
	if err := fs.Parse(args); err != nil {
		return err
	}

	backend := fakeapi.New()
	if err := addUsers(backend, *users); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return httpserver.ListenAndServe(ctx, *address, backend)
}

// addUsers заводит пользователей из списка вида "a@b.c:pass,d@e.f:pass"
func addUsers(backend *fakeapi.Server, users string) error {
	for _, pair := range strings.Split(users, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		email, password, ok := strings.Cut(pair, ":")
		if !ok || email == "" {
			return errors.New("invalid user " + pair + ", expected email:password")
		}
		backend.AddUser(email, password)
		log.Info().Str("email", email).Msg("user added")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
