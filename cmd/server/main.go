package main

// #region imports
import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/faqforge/internal/audit"
	"github.com/danielpatrickdp/faqforge/internal/config"
	"github.com/danielpatrickdp/faqforge/internal/genclient"
	"github.com/danielpatrickdp/faqforge/internal/logging"
	"github.com/danielpatrickdp/faqforge/internal/orchestrator"
	"github.com/danielpatrickdp/faqforge/internal/params"
	"github.com/danielpatrickdp/faqforge/internal/server"
)

// #endregion

// #region main

func main() {
	configPath := flag.String("config", "", "path to TOML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := params.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("open parameter store", zap.Error(err))
	}
	defer store.Close()

	recorder, err := audit.NewRecorder(store.DB(), log)
	if err != nil {
		log.Fatal("open audit log", zap.Error(err))
	}

	client := genclient.New(genclient.Config{
		BaseURL:           cfg.Generation.BaseURL,
		APIKey:            cfg.Generation.APIKey,
		Model:             cfg.Generation.Model,
		RequestsPerMinute: cfg.Generation.RequestsPerMinute,
		Timeout:           cfg.Generation.GenTimeout(),
	}, log)

	orch := orchestrator.New(client, store, recorder, log,
		orchestrator.WithMaxAttempts(cfg.Learning.MaxAttempts),
		orchestrator.WithRequestTimeout(cfg.Learning.RequestTimeout()),
	)

	srv := server.New(orch, cfg.Generation.Model, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatal("server error", zap.Error(err))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// #endregion
