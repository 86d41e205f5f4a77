// cmd/mockapi/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexuscatalog/storefront-go/internal/config"
	"github.com/nexuscatalog/storefront-go/internal/mockapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := mockapi.NewStore()
	store.Seed(50)
	server := mockapi.New(cfg.MockAPI, store)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.MockAPI.Port),
		Handler:      server.Handler(),
		ReadTimeout:  time.Duration(cfg.MockAPI.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.MockAPI.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.MockAPI.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.MockAPI.Port).Info("Starting mock API")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Forced to shutdown")
	}
	logrus.Info("Server exited")
}
