package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"registra.org/internal/auth"
	"registra.org/internal/config"
	"registra.org/internal/migrate"
)

func main() {
	log.SetFlags(0)
	var (
		migrationsPath = flag.String("migrations", "ops/migrations/sql", "Path to SQL migrations")
		seedsPath      = flag.String("seeds", "ops/migrations/seeds", "Path to SQL seeds")
	)
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|seed|superuser|status]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	mgr := migrate.NewManager(db, *migrationsPath, *seedsPath)

	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		err = mgr.Seed(ctx)
	case "superuser":
		if cfg.SuperuserPassword == "" {
			log.Fatal("REGISTRA_SUPERUSER_PASSWORD is required for the superuser command")
		}
		var hash string
		hash, err = auth.HashPassword(cfg.SuperuserPassword)
		if err == nil {
			err = mgr.SeedSuperuser(ctx,
				cfg.SuperuserUsername, cfg.SuperuserEmail, hash, cfg.SuperuserRole)
		}
	case "status":
		var history []string
		history, err = mgr.Status(ctx)
		if err == nil {
			for _, item := range history {
				fmt.Println(item)
			}
		}
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}
