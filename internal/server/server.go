// Package server exposes the outreach executor over HTTP. The execution
// endpoint streams the invocation's events as SSE so hosts can relay progress
// to the end user as it happens.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"linkreach/internal/domain"
	"linkreach/internal/executor"
	"linkreach/internal/metrics"
)

const maxBodySize = 1 << 20 // 1MB

// Runner executes outreach invocations. Satisfied by *executor.Executor.
type Runner interface {
	Execute(ctx context.Context, req executor.Request) <-chan domain.Event
}

type Config struct {
	Host           string
	Port           int
	APIKey         string
	MetricsEnabled bool
	MetricsPath    string
	Logger         *slog.Logger
	Version        string
}

// Server hosts the execution endpoint, health check and metrics exposition.
type Server struct {
	host        string
	port        int
	apiKey      string
	metricsOn   bool
	metricsPath string
	runner      Runner
	logger      *slog.Logger
	server      *http.Server
	version     string
}

func New(cfg Config, runner Runner) *Server {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Server{
		host:        cfg.Host,
		port:        cfg.Port,
		apiKey:      cfg.APIKey,
		metricsOn:   cfg.MetricsEnabled,
		metricsPath: cfg.MetricsPath,
		runner:      runner,
		logger:      cfg.Logger,
		version:     cfg.Version,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/agents/linkedin/execute", s.requireAPIKey(s.handleExecute))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metricsOn {
		mux.HandleFunc("GET "+s.metricsPath, metrics.Collector.Handler())
	}
	return mux
}

// Start runs the server until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: SSE responses stay open for the whole invocation.
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("server listening", "addr", addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	if s.apiKey == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.apiKey)) != 1 {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid API key"})
			return
		}
		next(w, r)
	}
}

// executeRequest is the wire shape of an invocation. Keys travels in the body
// for host-to-host calls; the X-User-LLM-Key header overrides LLM_API_KEY so
// browsers never put user secrets in a JSON body that middleware might log.
type executeRequest struct {
	Prompt   string            `json:"prompt"`
	Language string            `json:"language,omitempty"`
	Options  executor.Options  `json:"options"`
	Keys     map[string]string `json:"keys,omitempty"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body"})
		return
	}
	if req.Prompt == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "prompt is required"})
		return
	}

	if req.Keys == nil {
		req.Keys = make(map[string]string)
	}
	if userKey := r.Header.Get("X-User-LLM-Key"); userKey != "" {
		req.Keys[domain.KeyLLMAPIKey] = userKey
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := s.runner.Execute(r.Context(), executor.Request{
		Prompt:   req.Prompt,
		Language: req.Language,
		Options:  req.Options,
		Keys:     req.Keys,
	})

	for ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			s.logger.Error("marshal event", "error", err)
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
		flusher.Flush()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().Format(time.RFC3339),
	})
}
