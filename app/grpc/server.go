package grpc

import (
	"context"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

const defaultCheckTimeout = 2 * time.Second

// Check reports whether one backing dependency is reachable.
type Check func(ctx context.Context) error

// Server answers grpc.health.v1 probes by running the dependency checks. The empty
// service name covers every check.
type Server struct {
	grpc_health_v1.UnimplementedHealthServer
	checks  map[string]Check
	timeout time.Duration
}

func NewServer(checks map[string]Check) *Server {
	if checks == nil {
		checks = map[string]Check{}
	}
	return &Server{checks: checks, timeout: defaultCheckTimeout}
}

func (s *Server) Register(grpcServer *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(grpcServer, s)
	reflection.Register(grpcServer)
}

func (s *Server) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	names, err := s.selectChecks(req.GetService())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			loggerWithContext(ctx).WithError(err).WithField("check", name).Warn("health_check_failed")
			return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}, nil
		}
	}
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}

func (s *Server) selectChecks(service string) ([]string, error) {
	if service == "" {
		names := make([]string, 0, len(s.checks))
		for name := range s.checks {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}
	if _, ok := s.checks[service]; !ok {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", service)
	}
	return []string{service}, nil
}
