package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"
)

// Fake backing inference server honoring the supervisor's process contract:
// accepts --model and --port, serves GET /health. Behavior is selected via
// FAKE_BACKING_MODE: "" (healthy), "unhealthy" (always 503, probe count
// written next to the model file), "die" (exit 1 immediately).
func main() {
	var model string
	var port int
	flag.StringVar(&model, "model", "", "weights path")
	flag.IntVar(&port, "port", 0, "port")
	flag.Parse()

	mode := os.Getenv("FAKE_BACKING_MODE")
	if mode == "die" {
		fmt.Fprintln(os.Stderr, "fatal: could not load model")
		os.Exit(1)
	}

	// Leave a per-process marker so tests can account for every spawn.
	_ = os.WriteFile(fmt.Sprintf("%s.pid.%d", model, os.Getpid()), nil, 0o644)

	var probes int64
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&probes, 1)
		if mode == "unhealthy" {
			_ = os.WriteFile(model+".hits", []byte(strconv.FormatInt(n, 10)), 0o644)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{Addr: fmt.Sprintf("127.0.0.1:%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
