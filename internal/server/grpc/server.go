package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/together/internal/logging"
	"github.com/dmitrijs2005/together/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type GRPCServer struct {
	address       string
	logger        logging.Logger
	sessions      PrincipalResolver
	accounts      *services.AccountService
	relationships *services.RelationshipEngine
	rooms         *services.RoomMembershipManager
	interceptors  []grpc.UnaryServerInterceptor
}

// NewGRPCServer builds the Together endpoint. Extra interceptors run before
// session resolution, so they observe rejected calls too.
func NewGRPCServer(address string, l logging.Logger, sessions PrincipalResolver, accounts *services.AccountService,
	relationships *services.RelationshipEngine, rooms *services.RoomMembershipManager,
	interceptors ...grpc.UnaryServerInterceptor) *GRPCServer {
	return &GRPCServer{
		address:       address,
		logger:        l.With("module", "grpc_server"),
		sessions:      sessions,
		accounts:      accounts,
		relationships: relationships,
		rooms:         rooms,
		interceptors:  interceptors,
	}
}

// newServer creates the grpc.Server with the Together and health services
// registered.
func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	chain := append(append([]grpc.UnaryServerInterceptor{}, s.interceptors...), s.sessionInterceptor)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))

	RegisterTogetherServer(srv, s)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv, hs
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv, hs := s.newServer()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			hs.Shutdown()
			srv.GracefulStop()
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
