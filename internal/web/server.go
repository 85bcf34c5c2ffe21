// Package web serves the dashboard and asset pages as server-rendered
// HTML, with JSON mirrors of the same view state under /api.
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"crypto_dash/internal/view"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/rs/cors"
	"github.com/urfave/negroni"
)

// Server renders the views over HTTP.
type Server struct {
	logger       *slog.Logger
	src          view.MarketSource
	dashboard    *view.Dashboard
	ticker       *view.Ticker
	pages        map[string]*template.Template
	queryDecoder *schema.Decoder
	corsOrigins  []string
	defaultTheme string
	now          func() time.Time
}

// Options tune the presentation.
type Options struct {
	DefaultTheme string   // "dark" unless "light"
	CORSOrigins  []string // origins allowed on /api; empty allows none
}

// NewServer wires the handlers. The dashboard and ticker are owned by the
// caller, which starts and stops them; asset pages are loaded per request
// from src.
func NewServer(logger *slog.Logger, src view.MarketSource, dashboard *view.Dashboard, ticker *view.Ticker, opts Options) (*Server, error) {
	pages, err := parsePages("dashboard", "detail")
	if err != nil {
		return nil, err
	}

	theme := opts.DefaultTheme
	if theme != themeLight {
		theme = themeDark
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Server{
		logger:       logger,
		src:          src,
		dashboard:    dashboard,
		ticker:       ticker,
		pages:        pages,
		queryDecoder: decoder,
		corsOrigins:  opts.CORSOrigins,
		defaultTheme: theme,
		now:          time.Now,
	}, nil
}

// Handler returns the routed handler wrapped in recovery and request
// logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.addRoutes(r)

	n := negroni.New(negroni.NewRecovery(), negroni.HandlerFunc(s.logRequest))
	n.UseHandler(r)
	return n
}

// ListenAndServe runs the server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🌐 Web server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) addRoutes(r *mux.Router) {
	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/retry", s.handleRetry).Methods(http.MethodPost)
	r.HandleFunc("/asset/{id}", s.handleAsset).Methods(http.MethodGet)
	r.HandleFunc("/theme", s.handleTheme).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler)
	api.HandleFunc("/dashboard", s.apiDashboard).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/ticker", s.apiTicker).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/asset/{id}", s.apiAsset).Methods(http.MethodGet, http.MethodOptions)
}

func (s *Server) logRequest(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(w, r)

	status := http.StatusOK
	if rw, ok := w.(negroni.ResponseWriter); ok {
		status = rw.Status()
	}
	s.logger.Debug("HTTP request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Duration("elapsed", time.Since(start)))
}
