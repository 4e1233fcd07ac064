package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/djjoel12/talksellr/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

type Options struct {
	Logger    *zap.Logger
	Validator echo.Validator
	Sessions  middleware.SessionStore
	Session   middleware.SessionConfig
}

// echoを組み立ててルートを登録する
func New(opts Options, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = opts.Validator

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(middleware.Session(opts.Sessions, opts.Session))

	RegisterRoutes(e, h)
	return e
}

// ctxが終わるまで待ち受けて、終わったらShutdownする
func Start(ctx context.Context, e *echo.Echo, addr string, l *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	l.Info("server exited")
	return nil
}
