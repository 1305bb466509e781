// Package main is the entry point for the polling messaging client.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/api"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/auth"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/config"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/messenger"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/refresh"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting messaging client")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "talent-hub-messenger", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	ident, err := auth.ParseToken(cfg.BearerToken)
	if err != nil {
		log.Error("invalid bearer token", zap.Error(err))
		os.Exit(1)
	}
	if ident.Expired(time.Now()) {
		log.Error("bearer token is expired, log in again")
		os.Exit(1)
	}

	client := api.New(cfg.APIBaseURL, cfg.BearerToken, cfg.HTTPTimeout, log)
	session := messenger.NewSession(ident.User, client, log, func(err error) {
		log.Warn("recoverable failure", zap.Error(err))
	})

	if err := session.RefreshRoster(ctx); err != nil {
		log.Warn("initial roster load failed, identities degrade to fallbacks")
	}
	if err := session.LoadConversations(ctx); err != nil {
		log.Warn("initial conversation load failed, will retry on next poll")
	}
	for _, view := range session.Conversations() {
		log.Info("conversation",
			zap.String("id", view.Conversation.ID),
			zap.String("with", view.Counterpart.DisplayName),
			zap.Time("updated_at", view.Conversation.UpdatedAt),
		)
	}

	scheduler := refresh.NewScheduler(cfg.PollInterval, session.Refresh, log)
	if err := scheduler.Start(ctx); err != nil {
		log.Error("failed to start refresh scheduler", zap.Error(err))
		os.Exit(1)
	}
	defer scheduler.Stop()

	if cfg.MetricsPort != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info("metrics listening", zap.String("port", cfg.MetricsPort))
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
}
