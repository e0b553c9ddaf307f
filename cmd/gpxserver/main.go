package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planbiir/gpxedit/internal/api"
	"github.com/planbiir/gpxedit/internal/config"
	"github.com/planbiir/gpxedit/internal/editor"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig func() config.Config
	notify     func(chan<- os.Signal, ...os.Signal)
	run        func(context.Context, config.Config, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig: config.Load,
		notify:     signal.Notify,
		run:        Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, signals, nil); err != nil {
		log.Printf("server exited with error: %v", err)
	}
}

type ListenFunc func(srv *http.Server) error

var defaultListen ListenFunc = func(srv *http.Server) error {
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, signals <-chan os.Signal, listen ListenFunc) error {
	gin.SetMode(cfg.GinMode)

	ed := editor.New(editor.Config{
		Creator:           cfg.Creator,
		MaxResamplePoints: cfg.MaxResamplePoints,
	})
	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           api.SetupRouter(cfg, ed),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if listen == nil {
		listen = defaultListen
	}

	log.Printf("Server starting on port %s", cfg.ServerPort)
	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
