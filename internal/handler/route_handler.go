package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"route-optimizer-go/internal/service"
	"route-optimizer-go/pkg/models"
)

// RouteHandler обрабатывает HTTP запросы для работы с маршрутом
type RouteHandler struct {
	routeService *service.RouteService
	logger       *logrus.Logger
}

// NewRouteHandler создает новый экземпляр RouteHandler
func NewRouteHandler(routeService *service.RouteService, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
		logger:       logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *RouteHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/coordinates/", h.GetCoordinates)
		api.POST("/coordinates/", h.AddCoordinate)
		api.POST("/coordinates/batch/", h.ReplaceCoordinates)
		api.DELETE("/coordinates/", h.ClearCoordinates)
		api.POST("/route/optimize/", h.OptimizeRoute)
		api.GET("/route/summary/", h.GetSummary)
		api.POST("/data/save/", h.SaveData)
		api.POST("/data/load/", h.LoadData)
	}
}

// GetCoordinates возвращает сохраненный маршрут
func (h *RouteHandler) GetCoordinates(c *gin.Context) {
	wps, err := h.routeService.GetRoute(c.Request.Context())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Error fetching coordinates.", err)
		return
	}

	c.JSON(http.StatusOK, wps)
}

// AddCoordinate добавляет одну точку в конец маршрута
func (h *RouteHandler) AddCoordinate(c *gin.Context) {
	var input models.WaypointInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid coordinate payload.", err)
		return
	}

	wp, err := input.ToWaypoint()
	if err != nil {
		h.fail(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	id, err := h.routeService.AddPoint(c.Request.Context(), wp)
	if err != nil {
		h.fail(c, statusFor(err), "Error adding coordinate.", err)
		return
	}

	c.JSON(http.StatusOK, models.AddPointResponse{
		Message: "Coordinate added successfully.",
		ID:      id,
	})
}

// ReplaceCoordinates целиком перезаписывает маршрут
func (h *RouteHandler) ReplaceCoordinates(c *gin.Context) {
	var inputs []models.WaypointInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid coordinates payload.", err)
		return
	}

	wps := make([]models.Waypoint, 0, len(inputs))
	for i, in := range inputs {
		wp, err := in.ToWaypoint()
		if err != nil {
			h.fail(c, http.StatusBadRequest, fmt.Sprintf("point %d: %v", i+1, err), err)
			return
		}
		wps = append(wps, wp)
	}

	if err := h.routeService.ReplaceRoute(c.Request.Context(), wps); err != nil {
		h.fail(c, statusFor(err), "Error updating coordinates.", err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("%d coordinates added successfully.", len(wps)),
	})
}

// ClearCoordinates удаляет все точки маршрута
func (h *RouteHandler) ClearCoordinates(c *gin.Context) {
	if err := h.routeService.ClearRoute(c.Request.Context()); err != nil {
		h.fail(c, http.StatusInternalServerError, "Error clearing coordinates.", err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "All coordinates have been removed from the database.",
	})
}

// OptimizeRoute оптимизирует сохраненный маршрут
func (h *RouteHandler) OptimizeRoute(c *gin.Context) {
	result, err := h.routeService.OptimizeRoute(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrEmptyRoute) {
			h.fail(c, http.StatusBadRequest, "No coordinates to optimize.", err)
			return
		}
		h.fail(c, http.StatusInternalServerError, "Error optimizing route.", err)
		return
	}

	c.JSON(http.StatusOK, models.OptimizeResponse{
		Message:           "Optimized route generated and saved.",
		OptimizedRoute:    result.Waypoints,
		Passes:            result.Passes,
		Swaps:             result.Swaps,
		Converged:         result.Converged,
		InitialDistanceKm: result.InitialKm,
		FinalDistanceKm:   result.FinalKm,
	})
}

// GetSummary возвращает оценки участков и итоги маршрута
func (h *RouteHandler) GetSummary(c *gin.Context) {
	summary, err := h.routeService.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Error computing route summary.", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SaveData подтверждает сохранение: каждое изменение уже записано в базу
func (h *RouteHandler) SaveData(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "Data is already persisted in the database.",
	})
}

// LoadData проверяет наличие сохраненного маршрута для загрузки
func (h *RouteHandler) LoadData(c *gin.Context) {
	count, err := h.routeService.LoadRoute(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNothingToLoad) {
			h.fail(c, http.StatusNotFound, "No coordinates saved in the database to load.", err)
			return
		}
		h.fail(c, http.StatusInternalServerError, "Error loading route.", err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("%d coordinates loaded successfully from the database.", count),
	})
}

// fail пишет ошибку в лог и отвечает клиенту полем detail
func (h *RouteHandler) fail(c *gin.Context, status int, detail string, err error) {
	entry := h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(RequestIDKey),
		"path":       c.FullPath(),
		"status":     status,
	})
	if status >= http.StatusInternalServerError {
		entry.Errorf("Ошибка обработки запроса: %v", err)
	} else {
		entry.Warnf("Некорректный запрос: %v", err)
	}

	c.JSON(status, models.ErrorResponse{Detail: detail})
}

// statusFor выбирает HTTP статус по типу ошибки сервиса
func statusFor(err error) int {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
