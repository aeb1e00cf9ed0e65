package server

import (
	"bytes"
	"context"
	"testing"

	"dovakin0007.com/notes-moderation/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var listInfo = &grpc.UnaryServerInfo{FullMethod: "/notes.v1.NoteService/ListNotes"}

func TestRecoveryInterceptor_Panic(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	resp, err := recoveryInterceptor(log)(context.Background(), nil, listInfo, func(context.Context, any) (any, error) {
		panic("nil map write")
	})
	require.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, "internal error", status.Convert(err).Message())
	assert.Contains(t, buf.String(), "recovered from handler panic")
	assert.Contains(t, buf.String(), "nil map write")
}

func TestRecoveryInterceptor_PassesThrough(t *testing.T) {
	resp, err := recoveryInterceptor(zerolog.Nop())(context.Background(), "req", listInfo, func(_ context.Context, req any) (any, error) {
		return req, status.Error(codes.NotFound, "missing")
	})
	assert.Equal(t, "req", resp)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRecoveryInterceptor_LoggedAsInternal(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	logging := loggingInterceptor(log, metrics.New())
	recovery := recoveryInterceptor(log)

	_, err := logging(context.Background(), nil, listInfo, func(ctx context.Context, req any) (any, error) {
		return recovery(ctx, req, listInfo, func(context.Context, any) (any, error) {
			panic("boom")
		})
	})
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, buf.String(), `"code":"Internal"`)
	assert.Contains(t, buf.String(), `"level":"error"`)
}
