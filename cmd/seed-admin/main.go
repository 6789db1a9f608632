// Command seed-admin grants admin rights to an existing user. It exists so
// the first administrator can be created without going through the promote
// endpoint, which itself requires an admin caller.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/fylgde141/bookswap-api/internal/config"
	"github.com/fylgde141/bookswap-api/internal/platform/logger"
	"github.com/fylgde141/bookswap-api/internal/platform/postgres"
	"github.com/fylgde141/bookswap-api/internal/store"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "username of the user to promote")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: seed-admin -username <name>")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	userStore := postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, appLogger)

	user, err := userStore.GetByUsername(ctx, *username)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Fatalf("User %q not found", *username)
		}
		log.Fatalf("Failed to look up user: %v", err)
	}

	if user.IsAdmin {
		fmt.Printf("User %q is already an admin\n", user.Username)
		return
	}

	if err := userStore.SetAdmin(ctx, user.ID, true); err != nil {
		log.Fatalf("Failed to grant admin rights: %v", err)
	}

	fmt.Printf("User %q (id %d) is now an admin\n", user.Username, user.ID)
}
