package grpc

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.auth.Register(ctx, field(req, "username"), field(req, "email"), field(req, "password"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return userStruct(u)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.auth.Login(ctx, field(req, "email"), field(req, "password"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return sessionStruct(sess)
}

func (s *GRPCServer) FederatedAuthURL(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ch, err := s.auth.FederatedAuthURL(ctx, field(req, "provider"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return structpb.NewStruct(map[string]any{
		"url":      ch.URL,
		"state":    ch.State,
		"verifier": ch.Verifier,
	})
}

func (s *GRPCServer) LoginFederated(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.auth.LoginFederated(ctx, field(req, "provider"), field(req, "code"), field(req, "verifier"))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return sessionStruct(sess)
}

func (s *GRPCServer) Whoami(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	u, ok := userFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing session")
	}
	return userStruct(u)
}

func field(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

// userStruct never includes the password digest. The id travels as a
// decimal string so it survives float64 JSON consumers.
func userStruct(u *models.User) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":       strconv.FormatInt(u.ID, 10),
		"username": u.UserName,
		"email":    u.Email,
	})
}

func sessionStruct(sess *services.Session) (*structpb.Struct, error) {
	u, err := userStruct(sess.User)
	if err != nil {
		return nil, err
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"token": structpb.NewStringValue(sess.Token),
		"user":  structpb.NewStructValue(u),
	}}, nil
}

// toStatus maps service errors onto gRPC codes. Messages stay generic so
// callers cannot tell an unknown email from a wrong password.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "account already exists")
	case errors.Is(err, common.ErrAuthenticationFailure):
		return status.Error(codes.Unauthenticated, "authentication failed")
	case errors.Is(err, common.ErrSessionDecodeFailure),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, "invalid session")
	case errors.Is(err, common.ErrIncompleteProfile),
		errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrUnknownProvider):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrIdentityStoreFailure):
		s.logger.Error(ctx, "identity store failure", "request_id", requestIDFromContext(ctx), "error", err)
		return status.Error(codes.Unavailable, "identity store unavailable")
	default:
		s.logger.Error(ctx, "request failed", "request_id", requestIDFromContext(ctx), "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
