package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/stockpeek/stockpeek/auth"
	"github.com/stockpeek/stockpeek/config"
	"github.com/stockpeek/stockpeek/quotes"
	"github.com/stockpeek/stockpeek/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if err := auth.CreateSchema(ctx, db); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL, cfg.JWTIssuer, nil)

	auther := auth.NewAuthenticator(repo, tokens).
		WithBcryptCost(cfg.BcryptCost)

	srv := server.New(server.Config{
		Production: cfg.Production,
		RateLimit:  cfg.RateLimit,
		TokenTTL:   cfg.TokenTTL,
	}, repo, auther, quotes.NewStaticProvider())

	go func() {
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
