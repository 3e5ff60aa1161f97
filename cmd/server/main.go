package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moviej/moviej-backend/internal/auth"
	"github.com/moviej/moviej-backend/internal/catalog"
	"github.com/moviej/moviej-backend/internal/config"
	httpserver "github.com/moviej/moviej-backend/internal/http"
	"github.com/moviej/moviej-backend/internal/recommend"
	"github.com/moviej/moviej-backend/internal/repository"
	"github.com/moviej/moviej-backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[moviej-api] ", log.LstdFlags|log.Lshortfile)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnIdleTime: time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime: time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnectTimeout:  time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCache:  cfg.DBStatementCache,
		Logger:          logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	catalogClient, err := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogAPIKey, cfg.CatalogLanguage, time.Duration(cfg.CatalogTimeoutSecs)*time.Second)
	if err != nil {
		log.Fatalf("init catalog client: %v", err)
	}

	tokens, err := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryMins)*time.Minute)
	if err != nil {
		log.Fatalf("init token manager: %v", err)
	}

	repo := repository.New(st)
	rec := recommend.NewService(catalogClient, catalog.NewCache(nil), repo, logger)
	server := httpserver.New(cfg, st, repo, rec, tokens, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}
