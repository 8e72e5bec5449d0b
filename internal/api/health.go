package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 5 * time.Second

// ReadinessCheck probes one dependency. Check returning nil means healthy.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthController struct {
	checks []ReadinessCheck
	now    func() time.Time
}

func NewHealthController(checks []ReadinessCheck) *HealthController {
	return &HealthController{checks: checks, now: time.Now}
}

// Live reports process liveness and never touches dependencies.
func (h *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

// Ready runs every check and answers 503 if any of them fails.
func (h *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := "ready"
	checks := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			status = "not_ready"
			checks[check.Name] = "unhealthy: " + err.Error()
			continue
		}
		checks[check.Name] = "healthy"
	}

	httpStatus := http.StatusOK
	if status != "ready" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status": status,
		"time":   h.now().UTC().Format(time.RFC3339),
		"checks": checks,
	})
}
