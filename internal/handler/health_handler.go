package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"route-optimizer-go/internal/health"
	"route-optimizer-go/pkg/models"
)

// Version версия сервиса
const Version = "1.0.0"

// HealthHandler обработчик проверки состояния сервиса
type HealthHandler struct {
	check  health.Checker
	logger *logrus.Logger
}

// NewHealthHandler создает новый обработчик
func NewHealthHandler(check health.Checker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		check:  check,
		logger: logger,
	}
}

// RegisterRoutes регистрирует маршрут проверки состояния
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/health", h.HealthCheck)
}

// HealthCheck проверяет состояние сервиса и базы данных
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.check(); err != nil {
		h.logger.Errorf("База данных недоступна: %v", err)
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
			Status:  "unhealthy",
			Version: Version,
		})
		return
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Version: Version,
	})
}
