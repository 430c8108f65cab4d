// Package server wires stores, services, handlers and middleware into one
// HTTP server and runs it until its context is cancelled.
//
// Route table:
//
//	GET    /check-user?user_id=     resolve or provision a user
//	GET    /tasks?user_id=          list a user's tasks
//	POST   /tasks                   create a task
//	PUT    /tasks/{task_id}         set a task's status
//	PUT    /tasks/edit/{task_id}    edit title and/or description
//	DELETE /tasks/{task_id}         delete a task
//	GET    /healthz                 ping both stores
//	GET    /metrics                 Prometheus exposition
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/taskboard/internal/config"
	"github.com/sakif/taskboard/internal/handler"
	"github.com/sakif/taskboard/internal/middleware"
	"github.com/sakif/taskboard/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Server owns the router and the stores. Stores are closed when Run returns.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	stores *Stores
}

// New builds the router over stores.
func New(cfg config.Config, logger *slog.Logger, stores *Stores) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		stores: stores,
	}
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	// Each server gets its own registry so tests can build several.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(metrics.Handler)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	userService := service.NewUserService(s.stores.Identities, s.stores.Users, s.stores.Tasks, s.logger)
	taskService := service.NewTaskService(s.stores.Tasks, s.logger)

	users := handler.NewUserHandler(userService)
	tasks := handler.NewTaskHandler(taskService, s.logger)
	health := handler.NewHealthHandler(s.stores.IdentityPing, s.stores.AppPing, s.logger)

	s.router.Get("/check-user", users.HandleCheckUser)

	s.router.Get("/tasks", tasks.HandleList)
	s.router.Post("/tasks", tasks.HandleCreate)
	s.router.Put("/tasks/{task_id}", tasks.HandleUpdateStatus)
	s.router.Delete("/tasks/{task_id}", tasks.HandleDelete)
	s.router.Put("/tasks/edit/{task_id}", tasks.HandleEdit)

	s.router.Get("/healthz", health.HandleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to 30 seconds and closes the stores.
func (s *Server) Run(ctx context.Context) error {
	defer s.stores.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("driver", s.config.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
