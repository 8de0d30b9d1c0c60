// Package api exposes the timing scanner over HTTP.
package api

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Runner executes one month scan.
type Runner interface {
	Run(ctx context.Context, req model.ScanRequest) (*model.ScanReport, error)
}

// Server serves scan requests and history.
type Server struct {
	runner    Runner
	store     service.Storage
	criteria  rules.CriteriaTable
	router    *mux.Router
	accessLog io.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithStorage enables saving and browsing scans.
func WithStorage(store service.Storage) Option {
	return func(s *Server) { s.store = store }
}

// WithAccessLog sets the access log destination. Nil disables it.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) { s.accessLog = w }
}

// WithCriteria overrides the criteria table reported by /priorities.
func WithCriteria(criteria rules.CriteriaTable) Option {
	return func(s *Server) { s.criteria = criteria }
}

// NewServer creates a server around a scan runner.
func NewServer(runner Runner, opts ...Option) *Server {
	s := &Server{
		runner:    runner,
		criteria:  rules.DefaultCriteria(),
		accessLog: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/priorities", s.priorities).Methods(http.MethodGet)
	r.HandleFunc("/scans", s.createScan).Methods(http.MethodPost)
	r.HandleFunc("/scans", s.listScans).Methods(http.MethodGet)
	r.HandleFunc("/scans/{id}", s.getScan).Methods(http.MethodGet)
	r.HandleFunc("/scans/{id}", s.deleteScan).Methods(http.MethodDelete)
	r.HandleFunc("/events", s.eventsByRange).Methods(http.MethodGet)

	return r
}

// Handler returns the router wrapped with recovery, CORS and access logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
	if s.accessLog != nil {
		h = handlers.LoggingHandler(s.accessLog, h)
	}
	return h
}
