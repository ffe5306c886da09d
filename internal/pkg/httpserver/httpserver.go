// Package httpserver запуск http-сервера с корректной остановкой по отмене контекста.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	keepAlivePeriod = 3 * time.Minute
	shutdownTimeout = 5 * time.Second
)

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	_ = tc.SetKeepAlive(true)
	_ = tc.SetKeepAlivePeriod(keepAlivePeriod)
	return tc, nil
}

// ListenAndServe слушает address и обслуживает запросы handler, пока не отменят ctx
func ListenAndServe(ctx context.Context, address string, handler http.Handler) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	if tcp, ok := ln.(*net.TCPListener); ok {
		ln = tcpKeepAliveListener{tcp}
	}
	return Serve(ctx, ln, handler)
}

// Serve обслуживает запросы на ln. После отмены ctx сервер останавливается,
// давая активным запросам shutdownTimeout на завершение.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	server := &http.Server{Handler: handler}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info().Msg("Shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("error during shutdown server")
		}
	}()

	log.Info().Str("address", ln.Addr().String()).Msg("listening")
	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
