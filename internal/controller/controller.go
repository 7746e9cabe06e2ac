// Package controller выполняет действия пользователя над маршрутом сессии
// и синхронизирует локальный маршрут с сохраненной копией.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"route-optimizer-go/internal/client"
	"route-optimizer-go/internal/geo"
	"route-optimizer-go/internal/optimizer"
	"route-optimizer-go/internal/route"
	"route-optimizer-go/internal/view"
	"route-optimizer-go/pkg/models"
)

// Gateway хранилище маршрута за границей сессии
type Gateway interface {
	ReplaceAll(ctx context.Context, wps []models.Waypoint) error
	FetchAll(ctx context.Context) ([]models.Waypoint, error)
	DeleteAll(ctx context.Context) error
	TriggerRemoteOptimize(ctx context.Context) (*models.OptimizeResponse, error)
	LoadStored(ctx context.Context) (string, error)
}

// Controller владеет маршрутом одной сессии. Действия выполняются строго
// по очереди, чтение снимка возможно во время выполнения действия.
type Controller struct {
	route     *route.Route
	calc      *geo.Calculator
	optimizer *optimizer.Optimizer
	gateway   Gateway
	presenter view.Presenter
	timeout   time.Duration
	logger    *logrus.Logger

	actions sync.Mutex
}

// New создает контроллер с пустым маршрутом. timeout ограничивает каждый
// вызов хранилища, 0 означает без ограничения
func New(gateway Gateway, presenter view.Presenter, calc *geo.Calculator, opt *optimizer.Optimizer, timeout time.Duration, logger *logrus.Logger) *Controller {
	return &Controller{
		route:     route.New(nil),
		calc:      calc,
		optimizer: opt,
		gateway:   gateway,
		presenter: presenter,
		timeout:   timeout,
		logger:    logger,
	}
}

// Init загружает сохраненный маршрут при старте сессии.
// При ошибке сессия начинается с пустого маршрута.
func (c *Controller) Init(ctx context.Context) error {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	wps, err := c.fetch(ctx, "fetch")
	if err != nil {
		return err
	}
	return c.adopt(wps)
}

// AddPoint добавляет точку в конец маршрута и сохраняет маршрут
func (c *Controller) AddPoint(ctx context.Context, wp models.Waypoint) error {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	if err := c.route.Add(wp); err != nil {
		c.reject(err)
		return err
	}

	c.logger.WithFields(logrus.Fields{"lat": wp.Lat, "lng": wp.Lng, "points": c.route.Len()}).Debug("Точка добавлена")
	return c.push(ctx)
}

// RemovePoint удаляет точку по индексу и сохраняет маршрут
func (c *Controller) RemovePoint(ctx context.Context, index int) error {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	if _, err := c.route.Remove(index); err != nil {
		c.reject(err)
		return err
	}

	return c.push(ctx)
}

// Draw перерисовывает маршрут и отправляет его в хранилище
func (c *Controller) Draw(ctx context.Context) error {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	return c.push(ctx)
}

// Optimize переупорядочивает маршрут локально и сохраняет результат
func (c *Controller) Optimize(ctx context.Context) (*optimizer.Result, error) {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	c.presenter.Notify(view.Info("Optimizing route..."))
	result := c.optimizer.Optimize(c.route.Points())

	// Порядок не изменился, синхронизировать нечего
	if result.Swaps == 0 {
		c.presenter.Notify(view.Info(fmt.Sprintf("Route is already optimal: %.2f km.", result.FinalKm)))
		return &result, nil
	}

	// Точки уже проверены при добавлении, оптимизатор только переставляет их
	if err := c.route.Replace(result.Waypoints); err != nil {
		return nil, err
	}

	entry := c.logger.WithFields(logrus.Fields{
		"passes":     result.Passes,
		"swaps":      result.Swaps,
		"initial_km": result.InitialKm,
		"final_km":   result.FinalKm,
	})
	if !result.Converged {
		entry.Warn("Оптимизация остановлена по пределу просмотров")
	} else {
		entry.Info("Маршрут оптимизирован")
	}

	c.presenter.Notify(view.Info(fmt.Sprintf("Route optimized: %.2f km -> %.2f km.", result.InitialKm, result.FinalKm)))
	if err := c.push(ctx); err != nil {
		return &result, err
	}
	return &result, nil
}

// OptimizeRemote отправляет маршрут, запускает оптимизацию на сервере
// и принимает сохраненный результат
func (c *Controller) OptimizeRemote(ctx context.Context) error {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	if err := c.push(ctx); err != nil {
		return err
	}

	var resp *models.OptimizeResponse
	err := c.call(ctx, "optimize", func(ctx context.Context) error {
		var err error
		resp, err = c.gateway.TriggerRemoteOptimize(ctx)
		return err
	})
	if err != nil {
		return err
	}
	c.presenter.Notify(view.Info(resp.Message))

	wps, err := c.fetch(ctx, "fetch")
	if err != nil {
		return err
	}
	return c.adopt(wps)
}

// Load заменяет локальный маршрут сохраненным
func (c *Controller) Load(ctx context.Context) error {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	var msg string
	err := c.call(ctx, "load", func(ctx context.Context) error {
		var err error
		msg, err = c.gateway.LoadStored(ctx)
		return err
	})
	if err != nil {
		return err
	}

	wps, err := c.fetch(ctx, "fetch")
	if err != nil {
		return err
	}
	if err := c.adopt(wps); err != nil {
		return err
	}

	c.presenter.Notify(view.Info(msg))
	return nil
}

// Clear очищает маршрут и удаляет сохраненную копию
func (c *Controller) Clear(ctx context.Context) error {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	c.route.Clear()

	err := c.call(ctx, "delete", c.gateway.DeleteAll)
	if err != nil {
		return err
	}

	c.presenter.Notify(view.Info("Route cleared."))
	return nil
}

// Save явно сохраняет текущий маршрут
func (c *Controller) Save(ctx context.Context) error {
	c.actions.Lock()
	defer c.actions.Unlock()
	defer c.render()

	if err := c.push(ctx); err != nil {
		return err
	}

	c.presenter.Notify(view.Info("Route saved."))
	return nil
}

// Snapshot копия текущих точек маршрута
func (c *Controller) Snapshot() []models.Waypoint {
	return c.route.Points()
}

// State текущее состояние маршрута
func (c *Controller) State() route.State {
	return c.route.State()
}

// View представление текущего маршрута
func (c *Controller) View() view.RouteView {
	return view.Build(c.route.Points(), c.calc)
}

func (c *Controller) render() {
	c.presenter.Render(c.View())
}

// push записывает локальный маршрут в хранилище
func (c *Controller) push(ctx context.Context) error {
	points := c.route.Points()
	return c.call(ctx, "replace", func(ctx context.Context) error {
		return c.gateway.ReplaceAll(ctx, points)
	})
}

func (c *Controller) fetch(ctx context.Context, op string) ([]models.Waypoint, error) {
	var wps []models.Waypoint
	err := c.call(ctx, op, func(ctx context.Context) error {
		var err error
		wps, err = c.gateway.FetchAll(ctx)
		return err
	})
	return wps, err
}

// adopt принимает маршрут из хранилища, только если все точки корректны
func (c *Controller) adopt(wps []models.Waypoint) error {
	if err := c.route.Replace(wps); err != nil {
		c.logger.Warnf("Сохраненный маршрут отклонен: %v", err)
		c.presenter.Notify(view.Error(fmt.Sprintf("Stored route is invalid: %v", err)))
		return err
	}
	return nil
}

// call выполняет вызов хранилища с таймаутом. Ошибка не откатывает
// локальный маршрут, а показывается пользователю уведомлением
func (c *Controller) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	err := fn(ctx)
	if err == nil {
		return nil
	}

	c.logger.WithField("op", op).Errorf("Ошибка синхронизации маршрута: %v", err)
	c.presenter.Notify(view.Error(describe(err)))
	return err
}

func (c *Controller) reject(err error) {
	c.presenter.Notify(view.Error(err.Error()))
}

// describe текст уведомления об ошибке хранилища
func describe(err error) string {
	var te *client.TransportError
	if errors.As(err, &te) && te.Detail != "" {
		return te.Detail
	}
	return fmt.Sprintf("Could not reach the route service: %v", err)
}
