package devserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

type App struct {
	config *Config
	log    logging.Logger
	server *http.Server
}

func NewApp(cfg *Config, log logging.Logger) *App {
	return &App{
		config: cfg,
		log:    log,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewHandler(cfg, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// PrintDevToken writes a freshly signed token for the configured user so it
// can be pasted into the client.
func (a *App) PrintDevToken(w io.Writer) error {
	token, err := GenerateToken(a.config.UserID, []byte(a.config.SecretKey), a.config.TokenValidity)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "dev token for %q:\n%s\n", a.config.UserID, token)
	return err
}

// Run serves until ctx is done, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "dev server listening", "addr", a.config.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.log.Info(ctx, "dev server shutting down")
	return a.server.Shutdown(shutdownCtx)
}
