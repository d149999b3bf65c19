package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fulfillsync/internal/config"
	testhelpers "github.com/polkiloo/fulfillsync/internal/test"
	"github.com/polkiloo/fulfillsync/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestSweeper(purger *testhelpers.PurgerStub) *worker.ChallengeSweeper {
	return worker.NewChallengeSweeper(purger, 5*time.Millisecond, discardLogger())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
	if server.ReadHeaderTimeout != readHeaderTimeout {
		t.Fatalf("expected read header timeout, got %v", server.ReadHeaderTimeout)
	}
}

func TestNewChallengeSweeperUsesConfig(t *testing.T) {
	sweeper := newChallengeSweeper(sweeperParams{
		Facade: &Facade{},
		Config: &config.Config{ChallengeSweepInterval: time.Minute},
		Logger: discardLogger(),
	})
	if sweeper == nil {
		t.Fatal("expected challenge sweeper instance")
	}
}

func TestRegisterLifecycleServesAndStops(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	purger := &testhelpers.PurgerStub{}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	// reserve a free port, then hand it to the server
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := probe.Addr().String()
	_ = probe.Close()

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: addr, Handler: mux},
		Sweeper:    newTestSweeper(purger),
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})

	if len(recorder.Hooks) != 2 {
		t.Fatalf("expected sweeper and server hooks, got %d", len(recorder.Hooks))
	}

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("server not reachable: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	deadline := time.After(time.Second)
	for purger.Calls() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected sweeper to run after start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	done := make(chan error, 1)
	go func() { done <- recorder.Stop(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("stop failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected stop to finish")
	}
	if shutdowner.Count() != 0 {
		t.Fatal("graceful stop must not request shutdown")
	}
}

func TestRegisterLifecycleFailsOnBadAddress(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Sweeper:    newTestSweeper(&testhelpers.PurgerStub{}),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	if err := recorder.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail for an invalid address")
	}
	if err := recorder.Stop(context.Background()); err != nil {
		t.Fatalf("stop after failed start returned error: %v", err)
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
	if shutdowner.Count() != 1 {
		t.Fatalf("expected one shutdown, got %d", shutdowner.Count())
	}
}
