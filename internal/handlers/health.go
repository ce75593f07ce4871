package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/config"
	"github.com/iloilo-msme/produkta/internal/observability"
	"github.com/iloilo-msme/produkta/internal/services"
	"github.com/iloilo-msme/produkta/internal/utils"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	backend := config.StorageMemory
	if config.AppConfig != nil {
		backend = config.AppConfig.StorageBackend
	}

	_, span := utils.TraceExternalService(ctx, backend, "ping")
	if services.StoreInstance == nil {
		health.Status = "unhealthy"
		health.Services["store"] = "unavailable"
	} else if err := services.StoreInstance.Ping(ctx); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		observability.Logger().Error("store health check failed", zap.Error(err))
		health.Status = "unhealthy"
		health.Services["store"] = "unhealthy"
	} else {
		health.Services["store"] = "healthy"
	}
	span.End()
	health.Services["backend"] = backend

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
