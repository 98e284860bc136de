package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockApp/internal/catalog"
	"StockApp/internal/config"
	"StockApp/internal/feed"
	"StockApp/internal/logger"
	"StockApp/internal/recorder"
	"StockApp/internal/render"

	"go.uber.org/zap"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level)
	log.Info("StockApp starting", zap.String("config", cfgPath))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// run owns every deferred Close; Fatal only fires after it has returned.
	if err := run(cfg, log, os.Stdout, sigCh); err != nil {
		log.Sync()
		log.Fatal("StockApp failed", zap.Error(err))
	}
	log.Sync()
}

func run(cfg *config.Config, log *zap.Logger, out io.Writer, stop <-chan os.Signal) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Init feed
	src, err := feed.NewUniformSource(cfg.Feed.PriceMin, cfg.Feed.PriceMax, feed.NewRand(cfg.Feed.Seed))
	if err != nil {
		return fmt.Errorf("init price source: %w", err)
	}
	f, err := feed.New(feed.Options{Capacity: cfg.Feed.Capacity}, src, feed.RealClock{}, log.Named("feed"))
	if err != nil {
		return fmt.Errorf("init feed: %w", err)
	}
	defer f.Close()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log.Named("recorder"))
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	renderer := render.NewRenderer(out, catalog.Default(), render.Options{
		Width:       cfg.Render.Width,
		Height:      cfg.Render.Height,
		ClearScreen: cfg.Render.ClearScreen,
	}, log.Named("render"))
	archiver := recorder.NewArchiver(rec, log.Named("archiver"))

	f.Subscribe(renderer.Observe)
	f.Subscribe(archiver.Observe)

	f.Initialize(time.Now())
	if err := f.StartPeriodicUpdates(cfg.Feed.Interval); err != nil {
		return fmt.Errorf("start periodic updates: %w", err)
	}
	log.Info("StockApp is running. Press Ctrl+C to stop.", zap.Duration("interval", cfg.Feed.Interval))

	<-stop

	log.Info("shutdown signal received, stopping...")
	f.Stop()
	log.Info("StockApp stopped",
		zap.Int("frames", renderer.Frames()),
		zap.Int("archived", archiver.Recorded()))
	return nil
}
