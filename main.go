package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/junaidrashid-git/webshop/config"
	"github.com/junaidrashid-git/webshop/database"
	"github.com/junaidrashid-git/webshop/logger"
	"github.com/junaidrashid-git/webshop/routes"
	"github.com/junaidrashid-git/webshop/session"
	"github.com/junaidrashid-git/webshop/storage"
	"github.com/junaidrashid-git/webshop/storefront"
	"github.com/junaidrashid-git/webshop/view"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "webshop: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("starting webshop", zap.Int("port", cfg.Port), zap.String("driver", cfg.DatabaseDriver))

	db, err := database.Open(cfg.DatabaseDriver, cfg.CleanDSN())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return err
	}

	durable := storage.NewGormBackend(db.DB)
	users := session.NewGormDirectory(db.DB)
	hub := view.NewHub(log)
	factory := storefront.NewFactory(durable, storage.NewMemoryBackend(), users, hub, log,
		session.WithHashCost(cfg.BcryptCost))

	r := routes.NewEngine(routes.Deps{
		Config:      cfg,
		DB:          db,
		Durable:     durable,
		Users:       users,
		Storefronts: factory,
		Hub:         hub,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		// Websocket connections are hijacked and not drained by Shutdown.
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
