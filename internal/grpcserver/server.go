package grpcserver

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// CatalogService is the health service name probes ask about. The empty name
// reports the same status for clients that only check the whole server.
const CatalogService = "filmcatalog.Catalog"

// Server exposes the standard gRPC health protocol. It reports NOT_SERVING
// until the catalog has been seeded.
type Server struct {
	Addr   string
	grpc   *grpc.Server
	health *health.Server
	log    *zap.Logger
}

func NewServer(addr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	s := &Server{Addr: addr, grpc: gs, health: hs, log: logger.Named("grpc")}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) MarkServing()    { s.set(healthpb.HealthCheckResponse_SERVING) }
func (s *Server) MarkNotServing() { s.set(healthpb.HealthCheckResponse_NOT_SERVING) }

func (s *Server) set(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(CatalogService, st)
}

// Serving reports the status probes currently see.
func (s *Server) Serving() bool {
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: CatalogService})
	return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}

func (s *Server) Run() error {
	lis, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("gRPC health listening", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Stop flips every service to NOT_SERVING, then drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
