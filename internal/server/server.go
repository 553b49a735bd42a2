// Package server assembles the HTTP server: the example route behind the
// validation pipe, health, metrics and API documentation.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	v "github.com/Gobd/reqvalidation"
	"github.com/Gobd/reqvalidation/env"
	"github.com/Gobd/reqvalidation/internal/example"
	"github.com/Gobd/reqvalidation/internal/logging"
	"github.com/Gobd/reqvalidation/internal/metrics"
	"github.com/Gobd/reqvalidation/openapi"
)

// ShutdownTimeout bounds the graceful shutdown of Serve.
const ShutdownTimeout = 30 * time.Second

// Health is the body of GET /health.
type Health struct {
	Status string `json:"status"`
}

// Document returns the OpenAPI document of every route.
func Document(version string) (*openapi3.T, error) {
	doc := openapi.DocBase("reqvalidation", "Request validation example service", version)
	if err := openapi.AddEndpoint(doc, example.Path, http.MethodPost, "example", example.Endpoint()); err != nil {
		return nil, err
	}
	if err := openapi.AddEndpoint(doc, "/health", http.MethodGet, "health", openapi.Endpoint{
		Summary:  "Liveness probe",
		Tags:     []string{"Ops"},
		Response: Health{},
	}); err != nil {
		return nil, err
	}
	return doc, nil
}

// Server serves the application routes. Build it with New.
type Server struct {
	cfg     *env.Env
	log     zerolog.Logger
	metrics *metrics.Collector
	handler http.Handler
}

// New builds the router for cfg. The documentation is generated here, so a
// schema that cannot be documented fails startup.
func New(cfg *env.Env, log zerolog.Logger, version string) (*Server, error) {
	doc, err := Document(version)
	if err != nil {
		return nil, err
	}
	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	swagger, err := openapi.SwaggerHandler("/swagger/", doc)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
	}

	logReject := logging.Rejections(log)
	countReject := s.metrics.RejectHook()
	pipe := v.New(example.Schemas(), v.WithRejectHook(func(r *http.Request, err *v.BadRequestError) {
		logReject(r, err)
		countReject(r, err)
	}))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logging.AccessLog(log))
	r.Use(s.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, Health{Status: "ok"})
	})
	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docJSON)
	})
	r.Handle("/swagger/*", swagger)
	r.With(pipe.Middleware(URLParams)).Post(example.Path, example.Handle)

	s.handler = r
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("mode", string(s.cfg.NodeEnv)).
		Msg("listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// URLParams returns the chi URL parameters of r.
func URLParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	ps := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		ps[k] = rctx.URLParams.Values[i]
	}
	return ps
}
