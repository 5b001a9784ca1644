package backendsrv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okulikov/handtext/internal/backend"
	"github.com/okulikov/handtext/internal/backendsrv/config"
	"github.com/okulikov/handtext/internal/common"
	"github.com/okulikov/handtext/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// App owns the persistent store and the HTTP server.
type App struct {
	log    logging.Logger
	store  io.Closer
	server *http.Server
}

// NewApp opens the store selected by cfg.Store and wires the service on
// top of it.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	secret := []byte(cfg.SecretKey)

	var (
		store  backend.Backend
		closer io.Closer
	)
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := backend.OpenSQLite(ctx, cfg.DatabaseDSN, secret)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		store, closer = s, s
	case config.StorePostgres:
		s, err := backend.OpenPostgres(ctx, cfg.DatabaseDSN, secret)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		store, closer = s, s
	default:
		return nil, fmt.Errorf("%w: unknown store kind %q", common.ErrValidation, cfg.Store)
	}

	svc := NewService(log, store, secret)
	return &App{
		log:    log,
		store:  closer,
		server: &http.Server{Addr: cfg.Addr, Handler: svc.Router()},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or an OS signal arrives, then shuts
// down gracefully and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)
	defer app.store.Close()

	errCh := make(chan error, 1)
	go func() {
		app.log.Info(ctx, "backend server listening", "addr", app.server.Addr)
		errCh <- app.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.server.Shutdown(shutdownCtx)
}
