package notes

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const NoteService_ServiceName = "notes.v1.NoteService"

const (
	NoteService_CreateNote_FullMethodName  = "/notes.v1.NoteService/CreateNote"
	NoteService_GetNote_FullMethodName     = "/notes.v1.NoteService/GetNote"
	NoteService_UpdateNote_FullMethodName  = "/notes.v1.NoteService/UpdateNote"
	NoteService_DeleteNote_FullMethodName  = "/notes.v1.NoteService/DeleteNote"
	NoteService_ListNotes_FullMethodName   = "/notes.v1.NoteService/ListNotes"
	NoteService_SubmitNote_FullMethodName  = "/notes.v1.NoteService/SubmitNote"
	NoteService_ApproveNote_FullMethodName = "/notes.v1.NoteService/ApproveNote"
	NoteService_RejectNote_FullMethodName  = "/notes.v1.NoteService/RejectNote"
)

type NoteServiceClient interface {
	CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error)
	GetNote(ctx context.Context, in *GetNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error)
	UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error)
	ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error)
	SubmitNote(ctx context.Context, in *SubmitNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error)
	ApproveNote(ctx context.Context, in *ReviewNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error)
	RejectNote(ctx context.Context, in *ReviewNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error)
}

type noteServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNoteServiceClient(cc grpc.ClientConnInterface) NoteServiceClient {
	return &noteServiceClient{cc}
}

func (c *noteServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *noteServiceClient) CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error) {
	out := new(NoteResponse)
	if err := c.invoke(ctx, NoteService_CreateNote_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteServiceClient) GetNote(ctx context.Context, in *GetNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error) {
	out := new(NoteResponse)
	if err := c.invoke(ctx, NoteService_GetNote_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteServiceClient) UpdateNote(ctx context.Context, in *UpdateNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error) {
	out := new(NoteResponse)
	if err := c.invoke(ctx, NoteService_UpdateNote_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteServiceClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error) {
	out := new(DeleteNoteResponse)
	if err := c.invoke(ctx, NoteService_DeleteNote_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteServiceClient) ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	out := new(ListNotesResponse)
	if err := c.invoke(ctx, NoteService_ListNotes_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteServiceClient) SubmitNote(ctx context.Context, in *SubmitNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error) {
	out := new(NoteResponse)
	if err := c.invoke(ctx, NoteService_SubmitNote_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteServiceClient) ApproveNote(ctx context.Context, in *ReviewNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error) {
	out := new(NoteResponse)
	if err := c.invoke(ctx, NoteService_ApproveNote_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteServiceClient) RejectNote(ctx context.Context, in *ReviewNoteRequest, opts ...grpc.CallOption) (*NoteResponse, error) {
	out := new(NoteResponse)
	if err := c.invoke(ctx, NoteService_RejectNote_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// NoteServiceServer is the server API for NoteService. Implementations must
// embed UnimplementedNoteServiceServer.
type NoteServiceServer interface {
	CreateNote(context.Context, *CreateNoteRequest) (*NoteResponse, error)
	GetNote(context.Context, *GetNoteRequest) (*NoteResponse, error)
	UpdateNote(context.Context, *UpdateNoteRequest) (*NoteResponse, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	SubmitNote(context.Context, *SubmitNoteRequest) (*NoteResponse, error)
	ApproveNote(context.Context, *ReviewNoteRequest) (*NoteResponse, error)
	RejectNote(context.Context, *ReviewNoteRequest) (*NoteResponse, error)
	mustEmbedUnimplementedNoteServiceServer()
}

type UnimplementedNoteServiceServer struct{}

func (UnimplementedNoteServiceServer) CreateNote(context.Context, *CreateNoteRequest) (*NoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateNote not implemented")
}
func (UnimplementedNoteServiceServer) GetNote(context.Context, *GetNoteRequest) (*NoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetNote not implemented")
}
func (UnimplementedNoteServiceServer) UpdateNote(context.Context, *UpdateNoteRequest) (*NoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateNote not implemented")
}
func (UnimplementedNoteServiceServer) DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteNote not implemented")
}
func (UnimplementedNoteServiceServer) ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListNotes not implemented")
}
func (UnimplementedNoteServiceServer) SubmitNote(context.Context, *SubmitNoteRequest) (*NoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitNote not implemented")
}
func (UnimplementedNoteServiceServer) ApproveNote(context.Context, *ReviewNoteRequest) (*NoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApproveNote not implemented")
}
func (UnimplementedNoteServiceServer) RejectNote(context.Context, *ReviewNoteRequest) (*NoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RejectNote not implemented")
}
func (UnimplementedNoteServiceServer) mustEmbedUnimplementedNoteServiceServer() {}

func RegisterNoteServiceServer(s grpc.ServiceRegistrar, srv NoteServiceServer) {
	s.RegisterService(&NoteService_ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(NoteServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + NoteService_ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(NoteServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(NoteServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var NoteService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: NoteService_ServiceName,
	HandlerType: (*NoteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateNote", NoteServiceServer.CreateNote),
		unary("GetNote", NoteServiceServer.GetNote),
		unary("UpdateNote", NoteServiceServer.UpdateNote),
		unary("DeleteNote", NoteServiceServer.DeleteNote),
		unary("ListNotes", NoteServiceServer.ListNotes),
		unary("SubmitNote", NoteServiceServer.SubmitNote),
		unary("ApproveNote", NoteServiceServer.ApproveNote),
		unary("RejectNote", NoteServiceServer.RejectNote),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "notes/v1/notes.proto",
}
