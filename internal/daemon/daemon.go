package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/readquest/readquest/internal/api"
	"github.com/readquest/readquest/internal/app/room"
	"github.com/readquest/readquest/internal/app/roster"
	"github.com/readquest/readquest/internal/app/sessions"
	"github.com/readquest/readquest/internal/health"
	"github.com/readquest/readquest/internal/infra/sqlite"
)

// Daemon is the core ReadQuest runtime. It wires together all services.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Roster   *roster.Service
	Sessions *sessions.Service
	Room     *room.Service
	Server   *api.Server
	Health   *health.Checker
	cancel   context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = readquestHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &Daemon{
		Config:   cfg,
		DB:       db,
		Roster:   roster.NewService(db),
		Sessions: sessions.NewService(db),
		Room:     room.NewService(db),
		Health:   health.NewChecker(db, dataDir),
	}

	srv := api.NewServer(db, d.Roster, d.Sessions, d.Room)
	srv.SetHealth(d.Health)
	if cfg.Admin.Key != "" {
		srv.SetAdminKey(cfg.Admin.Key)
	} else {
		log.Printf("[daemon] WARNING: no admin key configured, teacher endpoints disabled")
	}
	if cfg.Metrics.Prometheus {
		srv.EnableMetrics()
	}
	d.Server = srv

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.Server.Host, d.Config.Server.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("ReadQuest serving on http://%s\n", addr)
	if d.Config.Metrics.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
