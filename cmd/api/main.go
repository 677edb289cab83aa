package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"registra.org/internal/account"
	"registra.org/internal/auth"
	"registra.org/internal/config"
	"registra.org/internal/httpapi"
	"registra.org/internal/obs"
	"registra.org/internal/organization"
	"registra.org/internal/role"
	"registra.org/internal/subject"
)

var version = "0.3.0"

func main() {
	obs.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	api := httpapi.New(
		httpapi.ReadyProbe{DB: db},
		version,
		auth.NewService(auth.NewPGStore(db), tokens),
		organization.NewService(db),
		role.NewService(db),
		account.NewService(db),
		subject.NewService(db),
	)
	api.SetLimits(cfg.RateLimitBurst, cfg.RateLimitPerSecond, cfg.MaxBodyBytes)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting registra-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Println("Stopped")
}
