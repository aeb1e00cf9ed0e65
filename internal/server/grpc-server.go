package server

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"strings"
	"time"

	"dovakin0007.com/notes-moderation/internal/auth"
	"dovakin0007.com/notes-moderation/internal/metrics"
	"dovakin0007.com/notes-moderation/internal/moderation"
	"dovakin0007.com/notes-moderation/internal/notes"
	"dovakin0007.com/notes-moderation/internal/utils"
	pb "dovakin0007.com/notes-moderation/notes"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GrpcServer struct {
	Addr         string
	ServiceName  string
	grpcServer   *grpc.Server
	healthServer *health.Server
	log          zerolog.Logger
}

type noteServiceServer struct {
	pb.UnimplementedNoteServiceServer

	svc *notes.Service
}

func NewNoteServiceServer(svc *notes.Service) pb.NoteServiceServer {
	return &noteServiceServer{svc: svc}
}

func (s *noteServiceServer) CreateNote(ctx context.Context, req *pb.CreateNoteRequest) (*pb.NoteResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "the create request is empty")
	}
	view, err := s.svc.Create(ctx, auth.ActorFrom(ctx), utils.ToCreateNoteInput(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.NoteViewToProto(view), nil
}

func (s *noteServiceServer) GetNote(ctx context.Context, req *pb.GetNoteRequest) (*pb.NoteResponse, error) {
	if req.GetId() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	view, err := s.svc.Get(ctx, auth.ActorFrom(ctx), req.GetId())
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.NoteViewToProto(view), nil
}

func (s *noteServiceServer) UpdateNote(ctx context.Context, req *pb.UpdateNoteRequest) (*pb.NoteResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "the update request is empty")
	}
	if err := utils.NormalizeMask(req.UpdateMask); err != nil {
		return nil, toStatus(err)
	}
	view, err := s.svc.Update(ctx, auth.ActorFrom(ctx), utils.UpdatesNotesMask(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.NoteViewToProto(view), nil
}

func (s *noteServiceServer) DeleteNote(ctx context.Context, req *pb.DeleteNoteRequest) (*pb.DeleteNoteResponse, error) {
	if req.GetId() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if err := s.svc.Delete(ctx, auth.ActorFrom(ctx), req.GetId()); err != nil {
		return nil, toStatus(err)
	}
	return &pb.DeleteNoteResponse{Success: true}, nil
}

func (s *noteServiceServer) ListNotes(ctx context.Context, req *pb.ListNotesRequest) (*pb.ListNotesResponse, error) {
	var scope moderation.Scope
	if raw := req.GetScope(); raw != "" {
		parsed, ok := moderation.ParseScope(raw)
		if !ok {
			return nil, toStatus(moderation.Validation("list", map[string]string{"scope": "unknown scope " + raw}))
		}
		scope = parsed
	}
	page, err := s.svc.List(ctx, auth.ActorFrom(ctx), scope, int(req.GetPage()))
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.PageToProto(page), nil
}

func (s *noteServiceServer) SubmitNote(ctx context.Context, req *pb.SubmitNoteRequest) (*pb.NoteResponse, error) {
	if req.GetId() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	view, err := s.svc.Submit(ctx, auth.ActorFrom(ctx), req.GetId())
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.NoteViewToProto(view), nil
}

func (s *noteServiceServer) ApproveNote(ctx context.Context, req *pb.ReviewNoteRequest) (*pb.NoteResponse, error) {
	view, err := s.svc.Approve(ctx, auth.ActorFrom(ctx), utils.ToReviewInput(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.NoteViewToProto(view), nil
}

func (s *noteServiceServer) RejectNote(ctx context.Context, req *pb.ReviewNoteRequest) (*pb.NoteResponse, error) {
	view, err := s.svc.Reject(ctx, auth.ActorFrom(ctx), utils.ToReviewInput(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return utils.NoteViewToProto(view), nil
}

// authInterceptor resolves the bearer token in the "authorization" metadata.
// Calls without one run anonymously; a bad token is rejected outright.
func authInterceptor(signer *auth.Signer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			return handler(ctx, req)
		}
		tok, ok := auth.BearerToken(values[0])
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "malformed authorization metadata")
		}
		actor, err := signer.Parse(tok)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(auth.WithActor(ctx, actor), req)
	}
}

func loggingInterceptor(log zerolog.Logger, m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		took := time.Since(start)
		code := status.Code(err)
		m.ObserveRequest("grpc", info.FullMethod, code.String(), took)

		evt := log.Info()
		if code == codes.Internal || code == codes.Unknown {
			evt = log.Error().Err(err)
		}
		evt.Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("latency", took).
			Msg("grpc request")
		return resp, err
	}
}

// recoveryInterceptor turns a handler panic into codes.Internal.
func recoveryInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("method", info.FullMethod).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("recovered from handler panic")
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// NewGrpcServer builds the gRPC server with the note service and the
// standard health service registered.
func NewGrpcServer(port int, serviceName string, svc *notes.Service, signer *auth.Signer, m *metrics.Metrics, log zerolog.Logger) *GrpcServer {
	g := &GrpcServer{
		Addr:        fmt.Sprintf(":%d", port),
		ServiceName: serviceName,
		grpcServer: grpc.NewServer(grpc.ChainUnaryInterceptor(
			loggingInterceptor(log, m),
			recoveryInterceptor(log),
			authInterceptor(signer),
		)),
		healthServer: health.NewServer(),
		log:          log,
	}
	pb.RegisterNoteServiceServer(g.grpcServer, NewNoteServiceServer(svc))
	grpc_health_v1.RegisterHealthServer(g.grpcServer, g.healthServer)
	return g
}

// Serve blocks serving on lis until End is called.
func (g *GrpcServer) Serve(lis net.Listener) error {
	g.healthServer.SetServingStatus(g.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	g.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	g.log.Info().Str("addr", lis.Addr().String()).Msg("gRPC server running")
	if err := g.grpcServer.Serve(lis); err != nil {
		g.healthServer.SetServingStatus(g.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func (g *GrpcServer) Run() error {
	lis, err := net.Listen("tcp", g.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", g.Addr, err)
	}
	return g.Serve(lis)
}

func (g *GrpcServer) End() {
	g.log.Info().Msg("stopping gRPC server")
	g.healthServer.Shutdown()
	g.grpcServer.GracefulStop()
}
