package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// PrincipalResolver is the part of services.SessionGate the transport needs.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, rawToken string) (*services.Principal, error)
}

var publicMethods = map[string]bool{
	FullMethod(MethodRegister): true,
	FullMethod(MethodActivate): true,
	FullMethod(MethodLogin):    true,
}

func accessToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// sessionInterceptor resolves the caller of every non-public Together method
// and stores the Principal in the handler context. Other services on the
// same server (health) pass through.
func (s *GRPCServer) sessionInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") || publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	p, err := s.sessions.ResolvePrincipal(ctx, accessToken(ctx))
	if err != nil {
		st := sessionStatus(err)
		if status.Code(st) == codes.Internal {
			s.logger.Error(ctx, "principal resolution failed", "method", info.FullMethod, "error", err)
		} else {
			s.logger.Info(ctx, "call rejected", "method", info.FullMethod, "reason", err.Error())
		}
		return nil, st
	}

	return handler(services.ContextWithPrincipal(ctx, p), req)
}

func principal(ctx context.Context) (*services.Principal, error) {
	p, ok := services.PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ErrBadCredentials.Error())
	}
	return p, nil
}
