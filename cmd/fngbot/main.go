package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/fngbot/internal/chart"
	"github.com/fngbot/internal/cnn"
	"github.com/fngbot/internal/config"
	"github.com/fngbot/internal/logger"
	"github.com/fngbot/internal/report"
	"github.com/fngbot/internal/telegram"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Local .env is optional; the config layer picks the variables up.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	cnnClient := cnn.NewClient(cfg.CNN.APIURL, cfg.CNN.UserAgent, cfg.CNN.Timeout)
	renderer := chart.NewRenderer(cfg.Chart.Dir)
	reports := report.NewService(cnnClient, renderer, cfg.CNN.WindowDays)

	telegramClient, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, reports)
	if err != nil {
		logger.Fatal("Failed to initialize Telegram client: %v", err)
	}
	logger.Info("Telegram client initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	telegramClient.ListenForCommands(ctx)

	location, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone %q: %v", cfg.Schedule.Timezone, err)
	}

	scheduler := cron.New(cron.WithLocation(location))
	if _, err := scheduler.AddFunc(cfg.Schedule.IndexSpec, func() {
		logger.Info("Running scheduled index report")
		if err := telegramClient.DeliverIndex(ctx); err != nil {
			logger.Error("Scheduled index report failed: %v", err)
		}
	}); err != nil {
		logger.Fatal("Failed to schedule index report: %v", err)
	}
	if _, err := scheduler.AddFunc(cfg.Schedule.ComponentsSpec, func() {
		logger.Info("Running scheduled components report")
		if err := telegramClient.DeliverComponents(ctx); err != nil {
			logger.Error("Scheduled components report failed: %v", err)
		}
	}); err != nil {
		logger.Fatal("Failed to schedule components report: %v", err)
	}
	scheduler.Start()

	logger.Info("Bot started (timezone: %s, index job: %q, components job: %q)",
		cfg.Schedule.Timezone,
		cfg.Schedule.IndexSpec,
		cfg.Schedule.ComponentsSpec,
	)

	<-ctx.Done()

	// Let an in-flight scheduled job finish before exiting.
	<-scheduler.Stop().Done()
	logger.Info("Service stopped")
}
