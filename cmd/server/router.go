package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fylgde141/bookswap-api/internal/api"
	apimiddleware "github.com/fylgde141/bookswap-api/internal/api/middleware"
	"github.com/fylgde141/bookswap-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier, app.logger)
	bookHandler := api.NewBookHandler(app.bookStore, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewStore, app.bookStore, app.logger)
	dealHandler := api.NewDealHandler(app.dealService, app.logger)
	adminHandler := api.NewAdminHandler(app.adminService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/books", bookHandler.List)
		r.Get("/books/{id}", bookHandler.Get)
		r.Get("/books/{id}/reviews", reviewHandler.ListBookReviews)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/books", bookHandler.Create)
			r.Put("/books/{id}", bookHandler.Update)
			r.Delete("/books/{id}", bookHandler.Delete)

			r.Post("/reviews", reviewHandler.Create)

			r.Post("/deals", dealHandler.Propose)
			r.Get("/deals", dealHandler.ListDeals)
			r.Put("/deals/{id}/accept", dealHandler.Accept)
			r.Put("/deals/{id}/complete", dealHandler.Complete)
			r.Delete("/deals/{id}", dealHandler.Cancel)

			r.Get("/admin/stats", adminHandler.Stats)
			r.Put("/admin/promote/{user_id}", adminHandler.Promote)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
