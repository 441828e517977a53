package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelhost/internal/events"
	"modelhost/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Models() []types.Model
	Resolve(id string) (types.Model, error)
	Install(ctx context.Context, id string, sink events.Sink) error
	Launch(ctx context.Context, id string) (int, error)
	Load(id string) error
	Generate(ctx context.Context, prompt string, sink events.Sink) error
	Status() types.StatusResponse
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ModelsResponse{Models: svc.Models()})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Post("/install", func(w http.ResponseWriter, r *http.Request) {
		var req types.InstallRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Model) == "" {
			writeJSONError(w, http.StatusBadRequest, "model is required")
			return
		}
		// Resolve before streaming so catalog misses still get a JSON 404.
		if _, err := svc.Resolve(req.Model); err != nil {
			writeJSONError(w, statusForError(err), err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		sink := newLineStream(w, streamWriter(w, r))
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		err := svc.Install(joined, req.Model, sink)
		observeInstall(err)
		logRequestEnd(r, "install", req.Model, start, err)
	})

	r.Post("/launch", func(w http.ResponseWriter, r *http.Request) {
		var req types.LaunchRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Model) == "" {
			writeJSONError(w, http.StatusBadRequest, "model is required")
			return
		}
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		start := time.Now()
		port, err := svc.Launch(joined, req.Model)
		observeLaunch(err)
		logRequestEnd(r, "launch", req.Model, start, err)
		if err != nil {
			writeJSONError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, types.LaunchResponse{Port: port})
	})

	r.Post("/load", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoadRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Model) == "" {
			writeJSONError(w, http.StatusBadRequest, "model is required")
			return
		}
		start := time.Now()
		err := svc.Load(req.Model)
		logRequestEnd(r, "load", req.Model, start, err)
		if err != nil {
			writeJSONError(w, statusForError(err), err.Error())
			return
		}
		writeJSON(w, types.LoadResponse{Model: req.Model})
	})

	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		var req types.GenerateRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}

		// Headers stay mutable until the first body write, so an error that
		// precedes any streamed event can still replace this with JSON.
		w.Header().Set("Content-Type", "application/x-ndjson")
		sink := newLineStream(w, streamWriter(w, r))
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if generateTimeout > 0 {
			var tcancel context.CancelFunc
			joined, tcancel = context.WithTimeout(joined, time.Duration(generateTimeout)*time.Second)
			defer tcancel()
		}
		start := time.Now()
		err := svc.Generate(joined, req.Prompt, sink)
		logRequestEnd(r, "generate", "", start, err)
		if err != nil && !sink.wrote {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			writeJSONError(w, statusForError(err), err.Error())
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no model"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSONBody enforces content type and size limits, then decodes into
// dst. Writes the error response itself and reports success.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// streamWriter optionally tees the NDJSON stream into the debug logger.
func streamWriter(w http.ResponseWriter, r *http.Request) io.Writer {
	if requestLogLevel(r) >= LevelDebug {
		return io.MultiWriter(w, &loggingLineWriter{})
	}
	return w
}
