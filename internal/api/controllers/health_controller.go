package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"lucidly/internal/services"
	"lucidly/pkg/utils"
)

type HealthController struct {
	healthService services.HealthServiceInterface
	log           *zap.Logger
}

func NewHealthController(healthService services.HealthServiceInterface, log *zap.Logger) *HealthController {
	return &HealthController{healthService: healthService, log: log}
}

func (h *HealthController) Health(c *gin.Context) {
	if err := h.healthService.Check(c.Request.Context()); err != nil {
		h.log.Error("health check failed", zap.Error(err))
		utils.RespondErrorKind(c, http.StatusServiceUnavailable, utils.KindStorageUnavailable,
			"Storage unavailable", gin.H{"status": "degraded", "storage": "down"})
		return
	}
	utils.RespondSuccess(c, gin.H{"status": "ok", "storage": "up"}, "OK")
}
