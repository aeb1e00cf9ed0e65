package server

import (
	"context"
	"errors"
	"sort"

	"dovakin0007.com/notes-moderation/internal/moderation"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var kindCodes = map[moderation.Kind]codes.Code{
	moderation.KindValidation:        codes.InvalidArgument,
	moderation.KindForbidden:         codes.PermissionDenied,
	moderation.KindNotFound:          codes.NotFound,
	moderation.KindInvalidTransition: codes.FailedPrecondition,
	moderation.KindConflict:          codes.Aborted,
	moderation.KindUnauthenticated:   codes.Unauthenticated,
}

// toStatus maps a service error to a gRPC status. Validation failures carry
// a BadRequest detail with one violation per field.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	var merr *moderation.Error
	if !errors.As(err, &merr) {
		return status.Error(codes.Internal, "internal error")
	}
	code, ok := kindCodes[merr.Kind]
	if !ok {
		return status.Error(codes.Internal, "internal error")
	}
	st := status.New(code, merr.Error())
	if merr.Kind != moderation.KindValidation || len(merr.Fields) == 0 {
		return st.Err()
	}

	fields := make([]string, 0, len(merr.Fields))
	for f := range merr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	br := &errdetails.BadRequest{}
	for _, f := range fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       f,
			Description: merr.Fields[f],
		})
	}
	if withDetails, derr := st.WithDetails(br); derr == nil {
		return withDetails.Err()
	}
	return st.Err()
}
