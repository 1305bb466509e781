// Package main runs the development stub of the marketplace messaging API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/config"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/stubapi"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	stub := stubapi.New(cfg.StubJWTSecret, log)
	seedDemoData(stub, cfg.StubJWTSecret, log)

	server := &http.Server{
		Addr:         ":" + cfg.StubPort,
		Handler:      stub.Router(cfg.RateLimitRequests, cfg.RateLimitWindow),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("stub backend listening", zap.String("port", cfg.StubPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down stub backend")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
}

// seedDemoData loads a small cast of accounts and prints ready-to-use
// bearer tokens so a messenger client can connect immediately.
func seedDemoData(stub *stubapi.Server, secret string, log *logger.Logger) {
	users := []model.User{
		{ID: "u-amara", Email: "amara@student.example", Role: model.RoleStudent},
		{ID: "u-bekele", Email: "bekele@student.example", Role: model.RoleStudent},
		{ID: "u-acme", Email: "recruiting@acme.example", Role: model.RoleBusiness},
	}
	students := []model.StudentProfile{
		{UserID: "u-amara", FirstName: "Amara", LastName: "Phiri", AvatarURL: "https://cdn.example/a.png"},
		{UserID: "u-bekele", FirstName: "Bekele", LastName: "Tadesse"},
	}

	for _, u := range users {
		stub.SeedUser(u)
		token, err := stubapi.SignToken(secret, u, 24*time.Hour)
		if err != nil {
			log.Warn("failed to sign demo token", zap.String("user", u.ID), zap.Error(err))
			continue
		}
		log.Info("demo account", zap.String("user", u.ID), zap.String("token", token))
	}
	for _, p := range students {
		stub.SeedStudent(p)
	}
}
