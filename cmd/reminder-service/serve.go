package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"approval-reminders/internal/api"
	"approval-reminders/internal/common/camunda"
	"approval-reminders/internal/common/config"
	"approval-reminders/internal/scheduler"
	approvalexpiry "approval-reminders/internal/workers/reminders/approval-expiry"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP trigger, the daily schedule and the optional Zeebe worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if addr, _ := cmd.Flags().GetString("address"); addr != "" {
			cfg.Server.Address = addr
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("address", "", "HTTP listen address, overrides server.address")
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	log := a.log

	checks := a.readinessChecks()

	// --- Zeebe worker ---
	var handler *approvalexpiry.Handler
	if cfg.Camunda.Enabled {
		var zeebe *camunda.Client
		err := retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(ctx, cfg.Camunda.BrokerAddress)
			return err
		}, 10, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			return err
		}
		defer zeebe.Close()

		handler, err = approvalexpiry.NewHandler(approvalexpiry.HandlerOptions{
			AppConfig:    cfg,
			Camunda:      zeebe,
			CustomConfig: a.workerCfg,
			Runner:       a.service,
			Logger:       log,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s handler: %w", approvalexpiry.TaskType, err)
		}
		if err := handler.Register(); err != nil {
			return err
		}
		defer handler.Close()
		checks = append(checks, api.ReadinessCheck{Name: "zeebe", Check: handler.HealthCheck})
	}

	// --- Schedule ---
	var sched *scheduler.Scheduler
	if cfg.Schedule.Enabled {
		sched, err = scheduler.New(scheduler.Config{
			Cron:    cfg.Schedule.Cron,
			Payload: cfg.Schedule.Payload,
		}, a.service, log)
		if err != nil {
			return err
		}
		sched.Start()
	}

	// --- HTTP ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(api.RouterOptions{
		ServiceName: cfg.App.Name,
		Runner:      a.service,
		LastRun:     a.lastRunLoader(),
		Checks:      checks,
		Logger:      log,
	})
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", map[string]interface{}{"signal": sig.String()})
	case runErr = <-serverErr:
		log.Error("HTTP server failed", map[string]interface{}{"error": runErr.Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", map[string]interface{}{"error": err.Error()})
	}
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Error("Scheduled run did not finish before shutdown", map[string]interface{}{"error": err.Error()})
		}
	}
	a.Close(shutdownCtx)

	log.Info("Reminder service stopped", nil)
	return runErr
}
