package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fieldsync/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenSource supplies the current access token; an empty string means the
// user is not logged in.
type TokenSource interface {
	Token() string
}

// GRPCClient probes backend reachability via the standard gRPC health service.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	health      healthpb.HealthClient

	// tokens is read on every call, so a login after dialing is picked up.
	tokens TokenSource
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) token() string {
	if s.tokens == nil {
		return ""
	}
	return s.tokens.Token()
}

func NewGRPCClient(endpointURL string, tokens TokenSource, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, tokens: tokens}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(extra ...grpc.DialOption) error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return fmt.Errorf("grpc client for %s: %w", s.endpointURL, err)
	}
	s.conn = conn
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Ping succeeds only when the backend reports SERVING.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: backend status %s", common.ErrUnavailable, resp.GetStatus())
	}

	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
