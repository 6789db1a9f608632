package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/fylgde141/bookswap-api/internal/config"
	"github.com/fylgde141/bookswap-api/internal/platform/postgres"
	"github.com/fylgde141/bookswap-api/internal/service"
	"github.com/fylgde141/bookswap-api/internal/service/auth"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// application holds the shared dependencies of the server: configuration,
// logging, the database handle, stores, and services.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore   store.UserStore
	bookStore   store.BookStore
	reviewStore store.ReviewStore
	dealStore   store.DealStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	dealService      service.DealService
	adminService     service.AdminService
}

// newApplication wires stores and services into an application instance.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}

	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	bookStore := postgres.NewPostgresBookStore(db, logger)
	reviewStore := postgres.NewPostgresReviewStore(db, logger)
	dealStore := postgres.NewPostgresDealStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	dealService, err := service.NewDealService(db, dealStore, bookStore, userStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deal service: %w", err)
	}

	adminService, err := service.NewAdminService(userStore, bookStore, dealStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin service: %w", err)
	}

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		bookStore:        bookStore,
		reviewStore:      reviewStore,
		dealStore:        dealStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		dealService:      dealService,
		adminService:     adminService,
	}, nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
