package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diegoclair/pr-police/internal/config"
	"github.com/diegoclair/pr-police/internal/database"
	"github.com/diegoclair/pr-police/internal/domain/service"
	"github.com/diegoclair/pr-police/internal/github"
	"github.com/diegoclair/pr-police/internal/handlers"
	"github.com/diegoclair/pr-police/internal/logger"
	"github.com/diegoclair/pr-police/internal/notifier"
	"github.com/diegoclair/pr-police/migrator/sqlite"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		appLog.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	appLog.Info("Running migrations...")
	if err := sqlite.Migrate(db.DB()); err != nil {
		appLog.Fatalf("Failed to run migrations: %v", err)
	}
	appLog.Info("Migrations completed successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slackOpts := []slack.Option{}
	if cfg.SlackAppToken != "" {
		slackOpts = append(slackOpts, slack.OptionAppLevelToken(cfg.SlackAppToken))
	}
	slackClient := slack.New(cfg.SlackToken, slackOpts...)
	slackNotifier := notifier.NewSlack(slackClient, cfg.BotName, cfg.BotIcon)

	services, err := service.NewInstance(ctx, database.NewInstance(db), github.New(cfg.GitHubAPIURL, cfg.GitHubToken), slackNotifier, service.Options{
		Schedule:      cfg.Schedule(),
		ExtraHolidays: cfg.ExtraHolidays,
		Report: service.ReportConfig{
			Repos:         cfg.Repos,
			Labels:        cfg.Labels,
			ExcludeLabels: cfg.ExcludeLabelSet(),
			NotifyIfNone:  cfg.NotifyWhenNoneFound,
		},
		Targets: cfg.Targets(),
		Dispatch: service.DispatcherOptions{
			Stagger:    cfg.DispatchStagger,
			RatePerSec: cfg.SlackRatePerSec,
		},
		APIURL:   cfg.GitHubAPIURL,
		Location: cfg.Location,
	}, appLog)
	if err != nil {
		appLog.Fatalf("Failed to initialize services: %v", err)
	}

	appLog.WithField("days", cfg.RunDayNames()).WithField("times", cfg.RunTimes).Info("Schedule configured")
	if err := services.Scheduler.Start(); err != nil {
		appLog.Fatalf("Failed to start scheduler: %v", err)
	}
	defer services.Scheduler.Stop()

	handler := handlers.New(services.Commander, slackNotifier, cfg.SlackSigningSecret, appLog)

	var listener *handlers.EventListener
	if cfg.SlackAppToken != "" {
		auth, err := slackClient.AuthTestContext(ctx)
		if err != nil {
			appLog.Fatalf("Failed to authenticate with Slack: %v", err)
		}

		listener = handlers.NewEventListener(socketmode.New(slackClient), services.Commander, handler, auth.UserID, appLog)
		go func() {
			if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				appLog.WithError(err).Error("Socket Mode listener stopped")
			}
		}()
	} else {
		appLog.Warn("SLACK_APP_TOKEN not set, direct messages and mentions are ignored")
		if cfg.SlackSigningSecret == "" {
			appLog.Warn("SLACK_SIGNING_SECRET not set, slash commands are ignored")
		}
	}

	mux := http.NewServeMux()
	if cfg.SlackSigningSecret != "" {
		mux.HandleFunc("/slack/commands", handler.HandleSlashCommand)
	}
	mux.HandleFunc("/health", handler.HandleHealth)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		appLog.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Failed to shut down server")
	}

	handler.Wait()
	if listener != nil {
		listener.Wait()
	}
	appLog.Info("Shut down gracefully")
}
