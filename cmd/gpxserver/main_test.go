package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/planbiir/gpxedit/internal/config"
)

var errListen = errors.New("listen failed")

func testConfig() config.Config {
	return config.Config{ServerPort: ":0", GinMode: "test", MaxUploadBytes: 1 << 20, DownloadName: "updated.gpx"}
}

func TestRunHandlesSignal(t *testing.T) {
	signals := make(chan os.Signal, 1)

	listenCalled := make(chan struct{})
	listen := func(_ *http.Server) error {
		close(listenCalled)
		return nil
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		signals <- syscall.SIGINT
	}()

	if err := Run(context.Background(), testConfig(), signals, listen); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	select {
	case <-listenCalled:
	case <-time.After(time.Second):
		t.Fatalf("expected listen to be called")
	}
}

func TestRunContextCancel(t *testing.T) {
	signals := make(chan os.Signal, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	defer close(block)
	if err := Run(ctx, testConfig(), signals, func(_ *http.Server) error { <-block; return nil }); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestRunListenError(t *testing.T) {
	signals := make(chan os.Signal, 1)

	err := Run(context.Background(), testConfig(), signals, func(_ *http.Server) error {
		return errListen
	})
	if !errors.Is(err, errListen) {
		t.Fatalf("expected listen error, got %v", err)
	}
}

func TestRunServesRouter(t *testing.T) {
	signals := make(chan os.Signal, 1)

	var handler http.Handler
	listen := func(srv *http.Server) error {
		handler = srv.Handler
		signals <- syscall.SIGTERM
		return nil
	}

	if err := Run(context.Background(), testConfig(), signals, listen); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if handler == nil {
		t.Fatalf("expected the router to be installed")
	}
}

func TestRealMainHandlesErrors(t *testing.T) {
	calledNotify := false
	calledRun := false
	deps := mainDeps{
		loadConfig: testConfig,
		notify: func(ch chan<- os.Signal, _ ...os.Signal) {
			calledNotify = true
		},
		run: func(context.Context, config.Config, <-chan os.Signal, ListenFunc) error {
			calledRun = true
			return errListen
		},
	}

	realMain(deps)
	if !calledNotify {
		t.Fatalf("expected notify to be called")
	}
	if !calledRun {
		t.Fatalf("expected run to be called")
	}
}
