package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/parlorgames/parlor-backend/internal/config"
	"github.com/parlorgames/parlor-backend/internal/httpapi"
	"github.com/parlorgames/parlor-backend/internal/hub"
	"github.com/parlorgames/parlor-backend/internal/session"
	"github.com/parlorgames/parlor-backend/internal/store"
)

func main() {
	cfg := config.Load()

	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The store is optional; gameplay runs fine without persistence.
	var st *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		st, err = store.Open(cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal("store open failed", zap.Error(err))
		}
		if _, err := st.SeedWords(ctx); err != nil {
			log.Warn("word seeding failed", zap.Error(err))
		}
	} else {
		log.Warn("DATABASE_URL not set, results will not be recorded")
	}

	var rec session.Recorder
	var words session.WordSource
	if st != nil {
		rec, words = st, st
	}

	h := hub.NewHub(ctx, hub.Deps{Recorder: rec, Words: words, Logger: log})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpapi.SetupRoutes(h, st, log),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
