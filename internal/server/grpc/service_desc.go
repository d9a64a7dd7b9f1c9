package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "gophid.identity.IdentityService"

const (
	MethodRegister         = "/" + ServiceName + "/Register"
	MethodLogin            = "/" + ServiceName + "/Login"
	MethodFederatedAuthURL = "/" + ServiceName + "/FederatedAuthURL"
	MethodLoginFederated   = "/" + ServiceName + "/LoginFederated"
	MethodWhoami           = "/" + ServiceName + "/Whoami"
)

// identityServer is what IdentityServiceDesc dispatches to.
type identityServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FederatedAuthURL(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LoginFederated(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Whoami(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structHandler func(identityServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(fullMethod string, call structHandler) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(identityServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(identityServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*identityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(MethodRegister, identityServer.Register)},
		{MethodName: "Login", Handler: unary(MethodLogin, identityServer.Login)},
		{MethodName: "FederatedAuthURL", Handler: unary(MethodFederatedAuthURL, identityServer.FederatedAuthURL)},
		{MethodName: "LoginFederated", Handler: unary(MethodLoginFederated, identityServer.LoginFederated)},
		{MethodName: "Whoami", Handler: unary(MethodWhoami, identityServer.Whoami)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophid/identity.proto",
}
