package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"route-optimizer-go/internal/config"
	"route-optimizer-go/internal/database"
	"route-optimizer-go/internal/geo"
	"route-optimizer-go/internal/handler"
	"route-optimizer-go/internal/health"
	"route-optimizer-go/internal/optimizer"
	"route-optimizer-go/internal/repository"
	"route-optimizer-go/internal/service"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthCheckInterval = 15 * time.Second
)

func main() {
	// Инициализируем логгер
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Неизвестный уровень логирования %q, используется info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Некорректная конфигурация: %v", err)
	}

	logger.Info("Запуск Route Optimizer API Server")

	// Инициализируем базу данных
	logger.WithField("driver", cfg.Database.Driver).Info("Подключение к базе данных...")
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Errorf("Ошибка закрытия базы данных: %v", err)
		}
	}()

	// Выполняем миграции
	logger.Info("Выполнение миграций базы данных...")
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("Ошибка выполнения миграций: %v", err)
	}

	// Проверяем здоровье базы данных
	if err := database.HealthCheck(db); err != nil {
		logger.Fatalf("База данных недоступна: %v", err)
	}

	logger.Info("База данных успешно подключена и готова к работе")

	dbCheck := func() error { return database.HealthCheck(db) }

	// Инициализируем репозитории и сервисы
	coordinateRepo := repository.NewCoordinateRepository(db)
	calc := geo.NewCalculator(cfg.Vehicle)
	routeOptimizer := optimizer.New(calc.DistanceKm, cfg.Optimizer.MaxPasses)
	routeService := service.NewRouteService(coordinateRepo, calc, routeOptimizer, logger)

	// Настраиваем Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(
		handler.NewRouteHandler(routeService, logger),
		handler.NewHealthHandler(dbCheck, logger),
		logger,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// gRPC сервис здоровья
	healthServer := health.NewServer(dbCheck, logger)
	healthServer.Refresh()

	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.GRPC.Port))
	if err != nil {
		logger.Fatalf("Ошибка открытия порта gRPC: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go healthServer.Watch(ctx, healthCheckInterval)

	serverErrors := make(chan error, 2)

	go func() {
		logger.Infof("gRPC health сервер запущен на порту %d", cfg.GRPC.Port)
		serverErrors <- healthServer.Serve(grpcListener)
	}()

	go func() {
		logger.Infof("Сервер запущен на %s", httpServer.Addr)
		logger.Infof("API доступно по адресу: http://localhost:%d/api", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Получен сигнал завершения")
	case err := <-serverErrors:
		logger.Errorf("Ошибка работы сервера: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	healthServer.Stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Ошибка остановки HTTP сервера: %v", err)
	}

	logger.Info("Сервер остановлен")
}
