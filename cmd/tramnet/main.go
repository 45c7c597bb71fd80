package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MalithGihan/tramnet-panel/internal/backend"
	"github.com/MalithGihan/tramnet-panel/internal/config"
	"github.com/MalithGihan/tramnet-panel/internal/logging"
	"github.com/MalithGihan/tramnet-panel/internal/metrics"
	"github.com/MalithGihan/tramnet-panel/internal/panel"
	"github.com/MalithGihan/tramnet-panel/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	m := metrics.NewCollector()
	client := backend.New(cfg.BackendURL, cfg.RequestTimeout, logger.Named("backend"), m)

	var cache panel.SnapshotCache
	if cfg.SnapshotCache {
		st, err := store.New(cfg.DataRoot)
		if err != nil {
			logger.Fatal("cannot open data root", zap.String("root", cfg.DataRoot), zap.Error(err))
		}
		cache = st
	}

	ctrl := panel.New(client, cache, logger.Named("panel"), m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the panel stays up with an empty or cached network if the backend is down
	if err := ctrl.Start(ctx); err != nil {
		logger.Warn("initial network load failed", zap.String("message", panel.UserMessage(err)), zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           panel.NewRouter(ctrl, m.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("tramnet panel listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
