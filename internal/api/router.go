package api

import (
	"net/http"

	"github.com/brightlend/naming-service/internal/api/handlers"
	"github.com/brightlend/naming-service/internal/api/middleware"
	"github.com/brightlend/naming-service/internal/config"
	"github.com/brightlend/naming-service/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	namingHandler := handlers.NewNamingHandler(services.Naming)
	userHandler := handlers.NewUserHandler(services.User, cfg.ParentDomain)
	loanHandler := handlers.NewLoanHandler(services.Loan)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Name registration routes
		r.Route("/ens", func(r chi.Router) {
			r.Post("/register", namingHandler.Register)
			r.Get("/availability", namingHandler.CheckAvailability)
			r.Get("/resolve", namingHandler.Resolve)
		})

		// User sync (identity established upstream by the wallet provider)
		r.Post("/users/sync", userHandler.Sync)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.User))

			r.Get("/users/me", userHandler.Me)

			r.Route("/loans", func(r chi.Router) {
				r.Post("/", loanHandler.Create)
				r.Get("/", loanHandler.List)
			})
		})
	})

	return r
}
