package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arpagon/eightzeros/internal/audio"
	"github.com/arpagon/eightzeros/internal/config"
	"github.com/arpagon/eightzeros/internal/notify"
	"github.com/arpagon/eightzeros/internal/riffusion"
	"github.com/arpagon/eightzeros/internal/server"
	"github.com/arpagon/eightzeros/internal/studio"
	"github.com/arpagon/eightzeros/internal/web"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := os.MkdirAll(cfg.GenerateDir, 0o755); err != nil {
		logger.Fatal("create generate dir", zap.String("dir", cfg.GenerateDir), zap.Error(err))
	}

	// Riffusion on Replicate
	model := riffusion.Model{Name: cfg.RiffusionModel, Version: cfg.RiffusionVersion}
	remote := riffusion.NewClient(riffusion.ClientConfig{
		APIURL:       cfg.ReplicateAPIURL,
		Token:        cfg.ReplicateAPIToken,
		Model:        model,
		PollInterval: cfg.PollInterval,
	}, logger.Named("riffusion"))
	if cfg.ReplicateAPIToken == "" {
		logger.Warn("REPLICATE_API_TOKEN not set, remote generation will be rejected by the API")
	}

	// Artifact events (optional)
	var notifier notify.Notifier = notify.Nop{}
	if cfg.MQTTBroker != "" {
		m, err := notify.NewMQTT(notify.MQTTConfig{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
			Topic:    cfg.MQTTTopic,
		}, logger.Named("mqtt"))
		if err != nil {
			logger.Warn("mqtt not available, artifact events disabled", zap.Error(err))
		} else {
			defer m.Close()
			notifier = m
		}
	}

	st := studio.New(studio.Config{
		GenerateDir: cfg.GenerateDir,
		Naming:      audio.ParseNamingScheme(cfg.NamingScheme),
		Encoding:    audio.ParseEncoding(cfg.WAVEncoding),
		RemoteParams: riffusion.Params{
			Denoising:         cfg.Denoising,
			Alpha:             cfg.Alpha,
			NumInferenceSteps: cfg.InferenceSteps,
			SeedImageID:       cfg.SeedImageID,
		},
	}, remote, notifier, logger.Named("studio"))

	srv := server.New(st, web.Page{
		Title:    "8zer0s",
		EmbedURL: cfg.EmbedURL,
		Model:    model.Name,
	}, cfg.AllowedOrigins, logger.Named("http"))

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal("listen", zap.String("addr", addr), zap.Error(err))
	}

	logger.Info("eightzeros live",
		zap.String("addr", addr),
		zap.String("generate_dir", cfg.GenerateDir),
		zap.String("model", model.Name),
		zap.String("naming", cfg.NamingScheme),
	)
	if err := serve(ctx, httpServer, ln, logger); err != nil {
		logger.Error("http server error", zap.Error(err))
	}
}

// serve runs srv on ln until ctx is done, then waits for in-flight requests
// (and the files they are writing) before returning.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
