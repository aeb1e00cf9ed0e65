package server_test

import (
	"context"
	"net"
	"testing"
	"time"

	"dovakin0007.com/notes-moderation/internal/auth"
	"dovakin0007.com/notes-moderation/internal/database/memstore"
	"dovakin0007.com/notes-moderation/internal/logger"
	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/notes"
	"dovakin0007.com/notes-moderation/internal/server"
	pb "dovakin0007.com/notes-moderation/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
)

const bufSize = 1024 * 1024

type harness struct {
	client pb.NoteServiceClient
	health grpc_health_v1.HealthClient
	signer *auth.Signer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	signer, err := auth.NewSigner("test-secret", "notes-test")
	require.NoError(t, err)

	svc := notes.NewService(memstore.New(), notes.Options{
		RequireApproval:      true,
		LockPublishedContent: true,
		PageSize:             10,
		PublicPageSize:       12,
		Logger:               logger.Nop(),
	})
	g := server.NewGrpcServer(0, "notes-grpc-service", svc, signer, nil, logger.Nop())

	l := bufconn.Listen(bufSize)
	go func() {
		if err := g.Serve(l); err != nil {
			t.Logf("server.Serve: %v", err)
		}
	}()
	t.Cleanup(g.End)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return l.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &harness{
		client: pb.NewNoteServiceClient(conn),
		health: grpc_health_v1.NewHealthClient(conn),
		signer: signer,
	}
}

func (h *harness) as(t *testing.T, id string, role models.Role) context.Context {
	t.Helper()
	tok, err := h.signer.Issue(models.Actor{ID: id, Role: role}, time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+tok)
}

func ptrString(s string) *string { return &s }

func TestCreateAndGetNote(t *testing.T) {
	h := newHarness(t)
	ctx := h.as(t, "user-1", models.RoleUser)

	createResp, err := h.client.CreateNote(ctx, &pb.CreateNoteRequest{Title: "My first note", Body: "hello world"})
	require.NoError(t, err)
	require.NotNil(t, createResp.GetNote())
	assert.NotEmpty(t, createResp.GetNote().GetId())
	assert.Equal(t, "draft", createResp.GetNote().GetStatus())
	assert.Equal(t, "Draft", createResp.GetNote().StatusLabel)
	assert.Equal(t, "user-1", createResp.GetNote().OwnerId)
	assert.NotNil(t, createResp.GetNote().CreatedAt)
	assert.Contains(t, createResp.AvailableActions, "submit")
	assert.True(t, createResp.Capabilities.CanEdit)
	assert.False(t, createResp.Capabilities.CanModerate)

	noteID := createResp.GetNote().GetId()
	getResp, err := h.client.GetNote(ctx, &pb.GetNoteRequest{Id: noteID})
	require.NoError(t, err)
	assert.Equal(t, noteID, getResp.GetNote().GetId())
}

func TestCreateNote_RequiresToken(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.CreateNote(context.Background(), &pb.CreateNoteRequest{Title: "t", Body: "b"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer not-a-jwt")
	_, err = h.client.CreateNote(bad, &pb.CreateNoteRequest{Title: "t", Body: "b"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestCreateNote_ValidationDetails(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.CreateNote(h.as(t, "user-1", models.RoleUser), &pb.CreateNoteRequest{Title: "  ", Body: "b"})
	st := status.Convert(err)
	require.Equal(t, codes.InvalidArgument, st.Code())

	var fields []string
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			for _, v := range br.GetFieldViolations() {
				fields = append(fields, v.GetField())
			}
		}
	}
	assert.Equal(t, []string{"title"}, fields)
}

func TestModerationWorkflow(t *testing.T) {
	h := newHarness(t)
	owner := h.as(t, "owner-1", models.RoleUser)
	admin := h.as(t, "admin-1", models.RoleAdmin)
	anon := context.Background()

	created, err := h.client.CreateNote(owner, &pb.CreateNoteRequest{Title: "Title", Body: "Body"})
	require.NoError(t, err)
	id := created.GetNote().GetId()

	_, err = h.client.GetNote(anon, &pb.GetNoteRequest{Id: id})
	assert.Equal(t, codes.PermissionDenied, status.Code(err), "drafts are private")

	_, err = h.client.ApproveNote(admin, &pb.ReviewNoteRequest{Id: id})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err), "cannot approve a draft")

	submitted, err := h.client.SubmitNote(owner, &pb.SubmitNoteRequest{Id: id})
	require.NoError(t, err)
	assert.Equal(t, "pending_review", submitted.GetNote().GetStatus())

	_, err = h.client.ApproveNote(owner, &pb.ReviewNoteRequest{Id: id})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.client.RejectNote(admin, &pb.ReviewNoteRequest{Id: id})
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "reject needs review notes")

	approved, err := h.client.ApproveNote(admin, &pb.ReviewNoteRequest{Id: id, ReviewNotes: ptrString("looks good")})
	require.NoError(t, err)
	assert.Equal(t, "published", approved.GetNote().GetStatus())
	assert.NotNil(t, approved.GetNote().PublishedAt)
	assert.Equal(t, "admin-1", *approved.GetNote().ReviewerId)

	got, err := h.client.GetNote(anon, &pb.GetNoteRequest{Id: id})
	require.NoError(t, err)
	assert.Equal(t, "published", got.GetNote().GetStatus())
	assert.False(t, got.Capabilities.CanEdit)

	_, err = h.client.UpdateNote(owner, &pb.UpdateNoteRequest{
		Id:         id,
		Title:      "New",
		UpdateMask: &fieldmaskpb.FieldMask{Paths: []string{"title"}},
	})
	assert.Equal(t, codes.PermissionDenied, status.Code(err), "published content is locked")

	public, err := h.client.ListNotes(anon, &pb.ListNotesRequest{})
	require.NoError(t, err)
	require.Len(t, public.Notes, 1)
	assert.Equal(t, int32(12), public.PageSize)
	assert.Equal(t, id, public.Notes[0].GetId())
}

func TestUpdateNote_Mask(t *testing.T) {
	h := newHarness(t)
	owner := h.as(t, "owner-1", models.RoleUser)

	created, err := h.client.CreateNote(owner, &pb.CreateNoteRequest{Title: "Title", Body: "Body"})
	require.NoError(t, err)
	id := created.GetNote().GetId()

	_, err = h.client.UpdateNote(owner, &pb.UpdateNoteRequest{Id: id, Title: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "mask is required")

	_, err = h.client.UpdateNote(owner, &pb.UpdateNoteRequest{
		Id:         id,
		UpdateMask: &fieldmaskpb.FieldMask{Paths: []string{"status"}},
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "status is not editable")

	updated, err := h.client.UpdateNote(owner, &pb.UpdateNoteRequest{
		Id:         id,
		Title:      "New title",
		Body:       "ignored",
		UpdateMask: &fieldmaskpb.FieldMask{Paths: []string{"title"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.GetNote().Title)
	assert.Equal(t, "Body", updated.GetNote().Body)
	assert.Equal(t, int64(2), updated.GetNote().Version)
}

func TestListAndDelete(t *testing.T) {
	h := newHarness(t)
	owner := h.as(t, "owner-1", models.RoleUser)
	other := h.as(t, "user-2", models.RoleStaff)

	created, err := h.client.CreateNote(owner, &pb.CreateNoteRequest{Title: "Title", Body: "Body"})
	require.NoError(t, err)
	id := created.GetNote().GetId()

	mine, err := h.client.ListNotes(owner, &pb.ListNotesRequest{})
	require.NoError(t, err)
	assert.Len(t, mine.Notes, 1)
	assert.Equal(t, int64(1), mine.Total)

	_, err = h.client.ListNotes(owner, &pb.ListNotesRequest{Scope: "pending"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.client.ListNotes(owner, &pb.ListNotesRequest{Scope: "everything"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.client.DeleteNote(other, &pb.DeleteNoteRequest{Id: id})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	del, err := h.client.DeleteNote(owner, &pb.DeleteNoteRequest{Id: id})
	require.NoError(t, err)
	assert.True(t, del.Success)

	_, err = h.client.GetNote(owner, &pb.GetNoteRequest{Id: id})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	require.Eventually(t, func() bool {
		resp, err := h.health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "notes-grpc-service"})
		return err == nil && resp.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)
}
