package grpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func TestHealthCheckServing(t *testing.T) {
	srv := NewServer(map[string]Check{
		"mysql": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return nil },
	})

	resp, err := srv.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", resp.GetStatus())
	}
}

func TestHealthCheckNotServingWhenDependencyFails(t *testing.T) {
	srv := NewServer(map[string]Check{
		"mysql": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	resp, err := srv.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", resp.GetStatus())
	}

	resp, err = srv.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "mysql"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("expected mysql alone to be SERVING, got %v", resp.GetStatus())
	}
}

func TestHealthCheckUnknownService(t *testing.T) {
	srv := NewServer(nil)

	_, err := srv.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "payments"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
