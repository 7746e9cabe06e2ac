// Package health публикует состояние сервиса через grpc.health.v1.
package health

import (
	"context"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName имя сервиса в запросах Check
const ServiceName = "route_optimizer.RouteService"

// Checker проверка зависимости, например базы данных
type Checker func() error

// Server gRPC сервер с сервисом здоровья
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	check  Checker
	logger *logrus.Logger
}

// NewServer создает сервер. До первой успешной проверки статус NOT_SERVING
func NewServer(check Checker, logger *logrus.Logger) *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
		check:  check,
		logger: logger,
	}

	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

// Refresh выполняет проверку и обновляет статус
func (s *Server) Refresh() healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.check(); err != nil {
		s.logger.Warnf("Проверка здоровья не пройдена: %v", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.setStatus(status)
	return status
}

// Watch периодически обновляет статус, пока не отменен контекст
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh()
		}
	}
}

// Serve принимает соединения на lis до остановки сервера
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Stop переводит сервис в NOT_SERVING и завершает активные вызовы
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
