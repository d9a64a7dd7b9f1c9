// Package grpc exposes the identity service over gRPC.
//
// Messages are google.protobuf.Struct values, so the service is described by
// a hand-written grpc.ServiceDesc instead of generated code. The matching
// service definition is api/proto/gophid/identity.proto; clients can call it
// with any gRPC stack that can send a Struct.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the application surface the transport calls into.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	FederatedAuthURL(ctx context.Context, provider string) (*services.FederatedChallenge, error)
	LoginFederated(ctx context.Context, provider, code, verifier string) (*services.Session, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type GRPCServer struct {
	address string
	auth    AuthService
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, auth AuthService) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		auth:    auth,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.requestIDInterceptor,
		s.sessionInterceptor,
	))
	srv.RegisterService(&IdentityServiceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
