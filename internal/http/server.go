package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/airboeing1212/expense-tracker-api/internal/auth"
	"github.com/airboeing1212/expense-tracker-api/internal/config"
	"github.com/airboeing1212/expense-tracker-api/internal/log"
	"github.com/airboeing1212/expense-tracker-api/internal/services"
	"github.com/airboeing1212/expense-tracker-api/internal/storage"
)

const (
	apiName    = "Expense Tracker API"
	apiVersion = "1.0.0"
)

// Server wires routing, middleware and handlers around the domain services.
type Server struct {
	http.Server

	repo     *storage.SQLiteRepository
	expenses *services.ExpenseService
	tokens   *auth.TokenService
	logger   *log.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, repo *storage.SQLiteRepository, expenses *services.ExpenseService, tokens *auth.TokenService, logger *log.Logger) *Server {
	s := &Server{
		repo:     repo,
		expenses: expenses,
		tokens:   tokens,
		logger:   logger.WithComponent(log.ComponentHTTP),
	}

	router := mux.NewRouter()
	router.Use(
		s.withRecovery,
		log.Middleware(logger),
		s.withRequestLogging,
		s.withSecurityHeaders,
	)

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := api.PathPrefix("/expenses").Subrouter()
	protected.Use(s.requireAuth)
	protected.HandleFunc("", s.handleListExpenses).Methods(http.MethodGet)
	protected.HandleFunc("/", s.handleListExpenses).Methods(http.MethodGet)
	protected.HandleFunc("", s.handleCreateExpense).Methods(http.MethodPost)
	protected.HandleFunc("/", s.handleCreateExpense).Methods(http.MethodPost)
	protected.HandleFunc("/{id:[0-9]+}", s.handleGetExpense).Methods(http.MethodGet)
	protected.HandleFunc("/{id:[0-9]+}", s.handleUpdateExpense).Methods(http.MethodPut)
	protected.HandleFunc("/{id:[0-9]+}", s.handleDeleteExpense).Methods(http.MethodDelete)

	s.Server = http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	return s
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    apiName,
		"version": apiVersion,
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		s.logger.ErrorContext(r.Context(), "Readiness check failed", log.FieldError, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
