package handlers

import (
	"net/http"

	"hausly/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

// Health reports the last background probe of Mongo and Redis.
func (h *HealthHandler) Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	healthy := status.Mongo
	for _, ok := range status.Redis {
		healthy = healthy && ok
	}
	code := http.StatusOK
	state := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "checks": status})
}
