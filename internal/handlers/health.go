package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers the site's public liveness probe. Unlike /healthz
// this endpoint never degrades; the frontend uses it as a reachability ping.
func HealthHandler(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"service":   serviceName,
			"timestamp": time.Now().UnixMilli(),
		})
	}
}
