package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cipherlab/internal/auth"
	"cipherlab/internal/catalogue"
	"cipherlab/internal/config"
	"cipherlab/internal/demo"
	"cipherlab/internal/httpserver"
	"cipherlab/internal/logger"
	"cipherlab/internal/metrics"
	"cipherlab/internal/native"
	"cipherlab/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Sugar().Fatalw("config", "error", err)
	}
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalogue.Default()
	if cfg.CataloguePath != "" {
		n, err := cat.LoadFile(cfg.CataloguePath)
		if err != nil {
			lg.Fatalw("catalogue load failed", "path", cfg.CataloguePath, "error", err)
		}
		lg.Infow("catalogue extended", "path", cfg.CataloguePath, "added", n)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	st := store.New(db)
	if err := st.Migrate(); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	if err := st.UpsertCatalogue(ctx, cat.All()); err != nil {
		lg.Fatalw("catalogue upsert failed", "error", err)
	}

	clk := clock.New()
	reg := demo.NewRegistry(clk, cfg.SessionTTL)
	m := metrics.New(reg.Len)

	opts := []demo.Option{
		demo.WithClock(clk),
		demo.WithLogger(lg),
		demo.WithDelayScale(cfg.DelayScale),
		demo.WithObserver(store.NewAuditor(st, lg, clk.Now)),
		demo.WithObserver(m),
	}
	if cfg.CipherEngine == config.EngineNative {
		if _, err := native.SelfTest(native.KnownAnswers); err != nil {
			lg.Fatalw("cipher self-test failed", "error", err)
		}
		for id, e := range native.Engines(nil, native.DefaultKDF) {
			opts = append(opts, demo.WithEngine(id, e))
		}
	}
	lg.Infow("cipher engines ready", "engine", cfg.CipherEngine, "algorithms", len(cat.All()))

	go reg.Run(ctx, time.Minute, func(n int) { lg.Infow("expired sessions swept", "count", n) })

	router := httpserver.NewRouter(httpserver.Deps{
		Catalogue:  cat,
		Registry:   reg,
		Controller: demo.NewController(opts...),
		Signer:     auth.NewSigner(cfg.SessionSecret, cfg.SessionTTL, clk),
		Logs:       st,
		Metrics:    m.Handler(),
		Log:        lg,
	})
	srv := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatalw("server failed", "error", err)
	}
}
