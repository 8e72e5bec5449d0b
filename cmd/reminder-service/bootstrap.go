package main

import (
	"context"
	"fmt"
	"time"

	"approval-reminders/internal/api"
	awsclient "approval-reminders/internal/common/aws"
	"approval-reminders/internal/common/config"
	"approval-reminders/internal/common/database"
	"approval-reminders/internal/common/logger"
	"approval-reminders/internal/common/observability"
	approvalexpiry "approval-reminders/internal/workers/reminders/approval-expiry"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// app holds every long-lived dependency of a reminder run.
type app struct {
	cfg       *config.Config
	workerCfg *approvalexpiry.Config
	zapLog    *zap.Logger
	log       logger.Logger
	obs       *observability.Observability
	dynamo    *database.DynamoDBClient
	redis     *database.RedisClient
	kafka     *kafka.Writer
	lastRun   *approvalexpiry.LastRunStore
	service   *approvalexpiry.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).
		With(zap.String("service", cfg.App.Name), zap.String("version", cfg.App.Version))
	log := logger.NewZapAdapter(zapLog)

	workerCfg := approvalexpiry.ConfigFromAppConfig(cfg)
	if err := workerCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reminder config: %w", err)
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("OpenTelemetry meter unavailable, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(cfg.App.Name, cfg.Tracing.JaegerEndpoint, cfg.Tracing.SampleRatio); err != nil {
			log.Warn("Tracing unavailable, continuing without it", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	awsCfg, err := awsclient.LoadConfig(ctx, cfg.AWS.Region, cfg.AWS.Endpoint)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		workerCfg: workerCfg,
		zapLog:    zapLog,
		log:       log,
		obs:       obs,
		dynamo:    database.NewDynamoDB(awsCfg),
	}

	store := approvalexpiry.NewRecordStore(a.dynamo, workerCfg, log)
	var accounts approvalexpiry.AccountResolver = approvalexpiry.StoreResolver{Lookup: store}
	var sinks []approvalexpiry.SummarySink

	if cfg.Database.Redis.Address != "" {
		a.redis = database.NewRedis(cfg.Database.Redis)
		err := retryWithBackoff(func() error {
			return a.redis.Ping(ctx)
		}, 5, time.Second, log, "Redis connection")
		if err != nil {
			// Redis only backs the cache and the last-run record; runs work without it.
			log.Warn("Redis unavailable, account cache and last-run disabled", map[string]interface{}{
				"error": err.Error(),
			})
			_ = a.redis.Close()
			a.redis = nil
		}
	}
	if a.redis != nil {
		accounts = approvalexpiry.NewCachedResolver(store, a.redis, workerCfg.AccountTTL, workerCfg.KeyPrefix, log)
		a.lastRun = approvalexpiry.NewLastRunStore(a.redis, workerCfg.KeyPrefix)
		sinks = append(sinks, a.lastRun)
	}

	if workerCfg.SummaryTopicARN != "" {
		sinks = append(sinks, approvalexpiry.NewSNSSummaryPublisher(awsclient.NewSNSClient(awsCfg), workerCfg.SummaryTopicARN))
	}

	if kc := cfg.Messaging.Kafka; kc.SummaryTopic != "" {
		a.kafka = approvalexpiry.NewKafkaWriter(kc.Brokers, kc.SummaryTopic)
		sinks = append(sinks, approvalexpiry.NewKafkaSummaryPublisher(a.kafka, kc.SummaryTopic))
	}

	a.service = approvalexpiry.NewService(approvalexpiry.ServiceDependencies{
		Logger:        log,
		Approvals:     store,
		Accounts:      accounts,
		Sender:        approvalexpiry.NewSESDispatcher(awsclient.NewSESClient(awsCfg), workerCfg.ConfigurationSet, nil),
		Sinks:         sinks,
		Observability: obs,
	}, workerCfg)

	log.Info("Reminder service initialized", map[string]interface{}{
		"region":        cfg.AWS.Region,
		"approvals":     workerCfg.Approvals.Table,
		"accounts":      workerCfg.Accounts.Table,
		"thresholdDays": workerCfg.ThresholdDays,
		"facilities":    len(workerCfg.Templates.Facilities),
		"redis":         a.redis != nil,
		"snsSummary":    workerCfg.SummaryTopicARN != "",
		"kafkaSummary":  a.kafka != nil,
	})
	return a, nil
}

// readinessChecks covers the store tables and, when configured, Redis.
func (a *app) readinessChecks() []api.ReadinessCheck {
	checks := []api.ReadinessCheck{{
		Name: "dynamodb",
		Check: func(ctx context.Context) error {
			return a.dynamo.Ping(ctx, a.workerCfg.Approvals.Table, a.workerCfg.Accounts.Table)
		},
	}}
	if a.redis != nil {
		checks = append(checks, api.ReadinessCheck{Name: "redis", Check: a.redis.Ping})
	}
	return checks
}

// lastRunLoader returns nil when Redis is not configured so the route answers 404.
func (a *app) lastRunLoader() api.LastRunLoader {
	if a.lastRun == nil {
		return nil
	}
	return a.lastRun
}

func (a *app) Close(ctx context.Context) {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.log.Error("Error closing Kafka writer", map[string]interface{}{"error": err.Error()})
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("Error closing Redis client", map[string]interface{}{"error": err.Error()})
		}
	}
	if err := a.obs.Shutdown(ctx); err != nil {
		a.log.Error("Error shutting down meter provider", map[string]interface{}{"error": err.Error()})
	}
	_ = a.zapLog.Sync()
}

// retryWithBackoff retries operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
