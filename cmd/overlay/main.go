package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Snehit70/voice-cli/internal/api"
	"github.com/Snehit70/voice-cli/internal/config"
	"github.com/Snehit70/voice-cli/internal/ipc"
	"github.com/Snehit70/voice-cli/internal/pipeline"
	"github.com/Snehit70/voice-cli/internal/surface"
	"github.com/Snehit70/voice-cli/internal/waveform"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "voice-overlay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("voice-overlay starting",
		zap.String("socket", cfg.SocketPath),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("fps", cfg.FPS),
		zap.String("shm", cfg.ShmPath),
	)

	sink, closeSink, err := openSink(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue := ipc.NewQueue(cfg.QueueCapacity)
	store := waveform.NewStore(cfg.HistorySize)
	coord := pipeline.New(queue, store, sink, cfg.FPS, logger.Named("pipeline"))

	client := ipc.NewClient(logger.Named("ipc"), ipc.Options{Backoff: cfg.ReconnectBackoff})
	clientDone := make(chan struct{})
	go func() {
		defer close(clientDone)
		if err := client.Listen(ctx, cfg.SocketPath, queue); err != nil {
			logger.Error("ipc client stopped", zap.Error(err))
		}
	}()

	var srv *http.Server
	if cfg.DebugAddr != "" {
		h := api.NewHandlers(store, client, queue, coord, logger.Named("api"))
		srv = &http.Server{
			Addr:         cfg.DebugAddr,
			Handler:      h.Router(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 20 * time.Second,
		}
		go func() {
			logger.Info("debug API listening", zap.String("addr", cfg.DebugAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("debug API failed", zap.Error(err))
			}
		}()
	}

	driver := surface.NewDriver(coord, surface.DefaultPollInterval, logger.Named("surface"))
	driver.Resize(cfg.Width, cfg.Height)
	runErr := driver.Run(ctx)

	logger.Info("shutting down")
	stop()
	coord.Close()
	<-clientDone

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}

	if runErr != nil {
		logger.Error("surface error", zap.Error(runErr))
		return fmt.Errorf("surface: %w", runErr)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// openSink maps the shared-memory frame file, or keeps frames in memory
// when no path is configured.
func openSink(cfg *config.Config, logger *zap.Logger) (pipeline.FrameSink, func(), error) {
	if cfg.ShmPath == "" {
		logger.Info("no shm path configured, frames kept in memory")
		return &surface.MemorySink{}, func() {}, nil
	}
	sink, err := surface.OpenMmapSink(cfg.ShmPath, surface.PixelFormat(cfg.PixelFormat), logger.Named("shm"))
	if err != nil {
		return nil, nil, fmt.Errorf("open frame sink: %w", err)
	}
	return sink, func() {
		if err := sink.Close(); err != nil {
			logger.Warn("close frame sink", zap.Error(err))
		}
	}, nil
}
