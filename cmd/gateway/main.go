package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lm-gateway/internal/infrastructure/config"
	"lm-gateway/internal/infrastructure/container"
	"lm-gateway/internal/infrastructure/metrics"
	"lm-gateway/internal/transport/rest"

	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr != "" {
		logLevel, err := logrus.ParseLevel(logLevelStr)
		if err != nil {
			logger.WithError(err).Warnf("Unknown LOG_LEVEL value: %s. Using default Info level.", logLevelStr)
			logger.SetLevel(logrus.InfoLevel)
		} else {
			logger.SetLevel(logLevel)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	configLoader := config.NewEnvironmentConfigLoader()
	cfg, err := configLoader.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	appContainer, err := container.NewContainer(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create dependency injection container")
	}

	hostname, _ := os.Hostname()
	metrics.SetGatewayInfo(version, hostname)

	server := rest.NewServer(cfg.Server, appContainer.GetHandler(), appContainer.GetHealthService(), logger)

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Gateway started (with /metrics)")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Gateway server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shutdown gateway server")
	}
	logger.Info("Gateway stopped")
}
