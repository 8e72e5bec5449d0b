package api

import (
	"fmt"
	"net/http"

	"approval-reminders/internal/common/logger"
	approvalexpiry "approval-reminders/internal/workers/reminders/approval-expiry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterOptions struct {
	ServiceName string
	Runner      approvalexpiry.Runner
	LastRun     LastRunLoader
	Checks      []ReadinessCheck
	Logger      logger.Logger
}

// NewRouter wires the trigger, health and metrics routes.
func NewRouter(opts RouterOptions) (*gin.Engine, error) {
	if opts.Runner == nil {
		return nil, fmt.Errorf("api router requires a runner")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	validator, err := approvalexpiry.NewInputValidator()
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "approval-reminders"
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), RequestLogMiddleware(log))

	health := NewHealthController(opts.Checks)
	router.GET("/health", health.Live)
	router.GET("/ready", health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reminders := NewReminderController(opts.Runner, validator, opts.LastRun, log)
	group := router.Group("/reminders")
	{
		group.POST("/run", reminders.Run)
		group.GET("/last-run", reminders.LastRun)
	}

	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "ROUTE_NOT_FOUND", "route not found", c.Request.URL.Path)
	})

	return router, nil
}
