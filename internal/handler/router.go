package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter собирает gin router со всеми middleware и маршрутами API
func NewRouter(routeHandler *RouteHandler, healthHandler *HealthHandler, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	// Добавляем middleware
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(accessLog(logger))
	router.Use(corsMiddleware())

	// Регистрируем маршруты
	routeHandler.RegisterRoutes(router)
	healthHandler.RegisterRoutes(router)

	return router
}

// corsMiddleware разрешает запросы от веб-интерфейса карты
func corsMiddleware() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	return cors.New(config)
}

// accessLog пишет метод, путь, статус и длительность каждого запроса
func accessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.RequestURI(),
			"status":     c.Writer.Status(),
			"bytes":      c.Writer.Size(),
			"dur_ms":     time.Since(start).Milliseconds(),
		}).Info("request")
	}
}
