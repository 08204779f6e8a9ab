package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"storefront/internal/carousel"
	"storefront/internal/catalog"
	"storefront/internal/clock"
	"storefront/internal/config"
	"storefront/internal/eventloop"
	"storefront/internal/httpserver"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/session"
	"storefront/internal/store"
)

func main() {
	configPath := flag.String("config", "", "config file or directory holding config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding}).Named("storefront")
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	backend, err := store.Open(ctx, cfg, log.Named("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	adapter := store.NewAdapter(backend, cfg.Store.Origin)
	defer func() {
		if err := adapter.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()

	cat, err := loadCatalog(afero.NewOsFs(), cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded", zap.Int("products", cat.Len()), zap.String("path", cfg.Catalog.Path))

	m := metrics.New("storefront")
	loop := eventloop.New(64, log.Named("loop"))
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	var sess *session.Session
	var sessErr error
	if err := loop.Do(ctx, func() {
		sess, sessErr = session.New(ctx, session.Options{
			Catalog:   cat,
			Store:     adapter,
			Scheduler: clock.OnLoop(clock.Real{}, func(fn func()) { loop.Post(fn) }),
			Logger:    log,
			Metrics:   m,
			Carousels: cfg.Carousel.Names,
			Carousel: carousel.Options{
				Step:        cfg.Carousel.Step,
				TickPeriod:  cfg.Carousel.TickPeriod,
				SettleDelay: cfg.Carousel.SettleDelay,
				DragFactor:  cfg.Carousel.DragFactor,
			},
			ToastVisible: cfg.Notify.Visible,
			ToastFade:    cfg.Notify.Fade,
		})
	}); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if sessErr != nil {
		return fmt.Errorf("start session: %w", sessErr)
	}

	srv, err := httpserver.New(cfg.HTTP, httpserver.Deps{
		Loop:    loop,
		Session: sess,
		Metrics: m,
		Logger:  log.Named("http"),
		Ready:   adapter.Ping,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("server stopped")
	}

	if err := loop.Do(shutdownCtx, sess.Close); err != nil {
		log.Warn("close session", zap.Error(err))
	}
	stop()
	<-loopDone
	return nil
}

func loadCatalog(fs afero.Fs, path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.LoadCSV(f)
}
