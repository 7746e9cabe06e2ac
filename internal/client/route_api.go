package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"route-optimizer-go/pkg/models"
)

const (
	maxAttempts    = 4
	initialBackoff = 200 * time.Millisecond
)

// TransportError ошибка обмена с сервисом маршрутов
type TransportError struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": transport failure"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RouteAPIClient клиент для сервиса хранения маршрута
type RouteAPIClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	backoff    time.Duration
	logger     *logrus.Logger
}

// NewRouteAPIClient создает новый клиент для сервиса маршрутов
func NewRouteAPIClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *RouteAPIClient {
	return &RouteAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
		backoff:    initialBackoff,
		logger:     logger,
	}
}

// ReplaceAll целиком перезаписывает сохраненный маршрут
func (c *RouteAPIClient) ReplaceAll(ctx context.Context, wps []models.Waypoint) error {
	if wps == nil {
		wps = []models.Waypoint{}
	}
	payload, err := json.Marshal(wps)
	if err != nil {
		return &TransportError{Op: "replace", Err: fmt.Errorf("encode waypoints: %w", err)}
	}

	var resp models.MessageResponse
	if err := c.call(ctx, "replace", http.MethodPost, "/api/coordinates/batch/", payload, &resp); err != nil {
		return err
	}

	c.logger.WithField("points", len(wps)).Debug("Маршрут отправлен в сервис")
	return nil
}

// FetchAll возвращает сохраненный маршрут в порядке хранения
func (c *RouteAPIClient) FetchAll(ctx context.Context) ([]models.Waypoint, error) {
	var wps []models.Waypoint
	if err := c.call(ctx, "fetch", http.MethodGet, "/api/coordinates/", nil, &wps); err != nil {
		return nil, err
	}
	if wps == nil {
		wps = []models.Waypoint{}
	}
	return wps, nil
}

// DeleteAll удаляет сохраненный маршрут
func (c *RouteAPIClient) DeleteAll(ctx context.Context) error {
	var resp models.MessageResponse
	return c.call(ctx, "delete", http.MethodDelete, "/api/coordinates/", nil, &resp)
}

// TriggerRemoteOptimize запускает оптимизацию сохраненного маршрута на сервере
func (c *RouteAPIClient) TriggerRemoteOptimize(ctx context.Context) (*models.OptimizeResponse, error) {
	var resp models.OptimizeResponse
	if err := c.call(ctx, "optimize", http.MethodPost, "/api/route/optimize/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoadStored проверяет, что на сервере есть маршрут для загрузки
func (c *RouteAPIClient) LoadStored(ctx context.Context) (string, error) {
	var resp models.MessageResponse
	if err := c.call(ctx, "load", http.MethodPost, "/api/data/load/", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Health проверяет состояние сервиса
func (c *RouteAPIClient) Health(ctx context.Context) (*models.HealthResponse, error) {
	var resp models.HealthResponse
	if err := c.call(ctx, "health", http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call выполняет запрос с таймаутом и повторами и декодирует JSON ответ в out
func (c *RouteAPIClient) call(ctx context.Context, op, method, path string, payload []byte, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.baseURL + path
	c.logger.Debugf("Отправка %s запроса на %s", method, url)

	body, err := c.doWithRetry(ctx, op, func() (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// doWithRetry повторяет запрос при сетевых ошибках и ответах 429/5xx
// с экспоненциальной задержкой, пока не отменен контекст
func (c *RouteAPIClient) doWithRetry(ctx context.Context, op string, makeReq func() (*http.Request, error)) ([]byte, error) {
	backoff := c.backoff
	var lastErr *TransportError

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &TransportError{Op: op, Err: err}
		}

		req, err := makeReq()
		if err != nil {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("make request: %w", err)}
		}

		body, terr := c.do(op, req)
		if terr == nil {
			return body, nil
		}
		lastErr = terr

		if !retryable(terr) || attempt == maxAttempts {
			break
		}

		c.logger.WithFields(logrus.Fields{
			"op":      op,
			"attempt": attempt,
			"backoff": backoff.String(),
		}).Warnf("Повтор запроса: %v", terr)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &TransportError{Op: op, Err: ctx.Err()}
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func (c *RouteAPIClient) do(op string, req *http.Request) ([]byte, *TransportError) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Detail: detailOf(body)}
	}
	return body, nil
}

// detailOf достает поле detail из тела ошибки, иначе возвращает тело целиком
func detailOf(body []byte) string {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return errResp.Detail
	}
	return strings.TrimSpace(string(body))
}

func retryable(err *TransportError) bool {
	switch err.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	if errors.Is(err.Err, context.Canceled) || errors.Is(err.Err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err.Err, &netErr)
}
