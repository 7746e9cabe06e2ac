package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"route-optimizer-go/internal/geo"
	"route-optimizer-go/internal/optimizer"
	"route-optimizer-go/internal/repository"
	"route-optimizer-go/pkg/models"
)

var (
	// ErrEmptyRoute нет сохраненных точек для оптимизации
	ErrEmptyRoute = errors.New("no coordinates to optimize")
	// ErrNothingToLoad нет сохраненных точек для загрузки
	ErrNothingToLoad = errors.New("no saved coordinates to load")
)

// RouteService сервис для работы с сохраненным маршрутом
type RouteService struct {
	repo      repository.CoordinateRepository
	calc      *geo.Calculator
	optimizer *optimizer.Optimizer
	logger    *logrus.Logger

	// mu упорядочивает изменяющие операции: оптимизация не должна
	// пересекаться с заменой или очисткой маршрута
	mu sync.Mutex
}

// NewRouteService создает новый сервис для работы с маршрутом
func NewRouteService(repo repository.CoordinateRepository, calc *geo.Calculator, opt *optimizer.Optimizer, logger *logrus.Logger) *RouteService {
	return &RouteService{
		repo:      repo,
		calc:      calc,
		optimizer: opt,
		logger:    logger,
	}
}

// GetRoute возвращает сохраненный маршрут
func (s *RouteService) GetRoute(ctx context.Context) ([]models.Waypoint, error) {
	wps, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Errorf("Ошибка получения маршрута: %v", err)
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return wps, nil
}

// AddPoint добавляет одну точку в конец маршрута
func (s *RouteService) AddPoint(ctx context.Context, wp models.Waypoint) (uint, error) {
	if err := models.ValidateWaypoint(wp); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.repo.Append(ctx, wp)
	if err != nil {
		s.logger.Errorf("Ошибка добавления точки: %v", err)
		return 0, fmt.Errorf("failed to add point: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"id": id, "lat": wp.Lat, "lng": wp.Lng}).Info("Точка добавлена")
	return id, nil
}

// ReplaceRoute целиком перезаписывает маршрут
func (s *RouteService) ReplaceRoute(ctx context.Context, wps []models.Waypoint) error {
	if err := models.ValidateWaypoints(wps); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(ctx, wps); err != nil {
		s.logger.Errorf("Ошибка сохранения маршрута: %v", err)
		return fmt.Errorf("failed to replace route: %w", err)
	}

	s.logger.Infof("Маршрут сохранен: %d точек", len(wps))
	return nil
}

// ClearRoute удаляет все точки маршрута
func (s *RouteService) ClearRoute(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.DeleteAll(ctx); err != nil {
		s.logger.Errorf("Ошибка очистки маршрута: %v", err)
		return fmt.Errorf("failed to clear route: %w", err)
	}

	s.logger.Info("Маршрут очищен")
	return nil
}

// OptimizeRoute оптимизирует сохраненный маршрут и перезаписывает его
func (s *RouteService) OptimizeRoute(ctx context.Context) (*optimizer.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wps, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Errorf("Ошибка получения маршрута для оптимизации: %v", err)
		return nil, fmt.Errorf("failed to load route for optimization: %w", err)
	}
	if len(wps) == 0 {
		return nil, ErrEmptyRoute
	}

	result := s.optimizer.Optimize(wps)

	if err := s.repo.ReplaceAll(ctx, result.Waypoints); err != nil {
		s.logger.Errorf("Ошибка сохранения оптимизированного маршрута: %v", err)
		return nil, fmt.Errorf("failed to save optimized route: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"points":     len(result.Waypoints),
		"passes":     result.Passes,
		"swaps":      result.Swaps,
		"converged":  result.Converged,
		"initial_km": result.InitialKm,
		"final_km":   result.FinalKm,
	}).Info("Маршрут оптимизирован")

	if !result.Converged {
		s.logger.Warnf("Оптимизация остановлена по лимиту в %d просмотров", s.optimizer.MaxPasses())
	}

	return &result, nil
}

// LoadRoute проверяет, что в хранилище есть маршрут для загрузки
func (s *RouteService) LoadRoute(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Errorf("Ошибка подсчета точек: %v", err)
		return 0, fmt.Errorf("failed to count coordinates: %w", err)
	}
	if count == 0 {
		return 0, ErrNothingToLoad
	}
	return count, nil
}

// Summary вычисляет оценки участков и итоги сохраненного маршрута
func (s *RouteService) Summary(ctx context.Context) (*models.RouteSummary, error) {
	wps, err := s.GetRoute(ctx)
	if err != nil {
		return nil, err
	}

	summary := s.calc.CalculateSummary(wps)
	return &summary, nil
}
