package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zaz600/go-musthave-shortener-client/internal/app/config"
	"github.com/zaz600/go-musthave-shortener-client/internal/controller/sessionctl"
	"github.com/zaz600/go-musthave-shortener-client/internal/controller/view"
	"github.com/zaz600/go-musthave-shortener-client/internal/infrastructure/apiclient"
	"github.com/zaz600/go-musthave-shortener-client/internal/infrastructure/tokenstore"
	"github.com/zaz600/go-musthave-shortener-client/internal/pkg/hx"
	"github.com/zaz600/go-musthave-shortener-client/internal/service/session"
)

var (
	BuildVersion = "n/a"
	BuildTime    = "n/a"
	BuildCommit  = "n/a"
)

// Run инициализация и запуск клиента.
// args - аргументы без имени программы: флаги и, опционально, одна команда.
// Без команды запускается интерактивный режим, команды читаются из in.
func Run(args []string, in io.Reader, out io.Writer) (err error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, command, err := config.GetConfig(args)
	if err != nil {
		return err
	}
	if err = setupLogger(cfg.LogLevel); err != nil {
		return err
	}
	log.Debug().Msgf("app cfg: %+v", cfg)

	store, err := tokenstore.NewTokenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close token store")
		}
	}()

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	headers := hx.NewConfig()
	requester, err := hx.NewClient(cfg.BaseURL, headers, httpClient)
	if err != nil {
		return err
	}
	api, err := apiclient.New(cfg.BaseURL, httpClient)
	if err != nil {
		return err
	}

	sh := newShell(out)
	sh.screen = view.NewScreen(sections(cfg.Variant)...)
	sh.ctl = sessionctl.New(session.New(store, headers), api, sh.screen, requester, sessionctl.Options{
		Origin:              cfg.Origin(),
		Variant:             cfg.Variant,
		DateLayout:          cfg.DateLayout,
		RegisterToggleDelay: cfg.RegisterToggleDelay,
		OnChange:            sh.redraw,
	})
	defer sh.ctl.Close()
	requester.OnResponseError(sh.ctl.HandleResponseError)

	// проверка авторизации при старте
	sh.ctl.RefreshView(ctx)

	if len(command) > 0 {
		return sh.runOnce(ctx, command)
	}
	printBuildInfo(out)
	return sh.loop(ctx, in)
}

// sections разделы экрана: в минимальном варианте нет регистрации
func sections(variant config.Variant) []view.Section {
	if variant == config.VariantMinimal {
		return []view.Section{view.SectionLogin, view.SectionApp}
	}
	return []view.Section{view.SectionLogin, view.SectionRegister, view.SectionApp}
}

func setupLogger(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

func printBuildInfo(out io.Writer) {
	fmt.Fprintln(out, "Build version:", BuildVersion)
	fmt.Fprintln(out, "Build date:", BuildTime)
	fmt.Fprintln(out, "Build commit:", BuildCommit)
}
