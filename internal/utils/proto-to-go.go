package utils

import (
	"time"

	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	"dovakin0007.com/notes-moderation/internal/notes"
	pb "dovakin0007.com/notes-moderation/notes"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func ToCreateNoteInput(req *pb.CreateNoteRequest) models.CreateNoteInput {
	return models.CreateNoteInput{
		Title: req.GetTitle(),
		Body:  req.GetBody(),
	}
}

func ToReviewInput(req *pb.ReviewNoteRequest) models.ReviewInput {
	return models.ReviewInput{
		NoteID: req.GetId(),
		Notes:  req.GetReviewNotes(),
	}
}

func timestampOrNil(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func NoteToProto(n models.Note) *pb.Note {
	var publishedAt *timestamppb.Timestamp
	if n.PublishedAt != nil {
		publishedAt = timestamppb.New(*n.PublishedAt)
	}

	var owner *pb.Actor
	if n.Owner != nil {
		owner = ActorModelToProto(*n.Owner)
	}

	return &pb.Note{
		Id:          n.ID,
		OwnerId:     n.OwnerID,
		Owner:       owner,
		Title:       n.Title,
		Body:        n.Body,
		Status:      string(n.Status),
		StatusLabel: n.Status.Label(),
		PublishedAt: publishedAt,
		ReviewerId:  n.ReviewerID,
		ReviewNotes: n.ReviewNotes,
		Version:     n.Version,
		CreatedAt:   timestampOrNil(n.CreatedAt),
		UpdatedAt:   timestampOrNil(n.UpdatedAt),
	}
}

func ActorModelToProto(a models.Actor) *pb.Actor {
	if a.ID == "" {
		return nil
	}
	return &pb.Actor{
		Id:          a.ID,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
	}
}

func CapabilitiesToProto(c moderation.Capabilities) *pb.Capabilities {
	return &pb.Capabilities{
		CanView:     c.View,
		CanEdit:     c.Edit,
		CanDelete:   c.Delete,
		CanModerate: c.Moderate,
	}
}

func NoteViewToProto(v *notes.NoteView) *pb.NoteResponse {
	actions := make([]string, 0, len(v.Actions))
	for _, a := range v.Actions {
		actions = append(actions, string(a))
	}
	return &pb.NoteResponse{
		Note:             NoteToProto(v.Note),
		Capabilities:     CapabilitiesToProto(v.Capabilities),
		AvailableActions: actions,
	}
}

func PageToProto(p *models.Page) *pb.ListNotesResponse {
	out := make([]*pb.Note, 0, len(p.Notes))
	for _, n := range p.Notes {
		out = append(out, NoteToProto(n))
	}
	return &pb.ListNotesResponse{
		Notes:    out,
		Page:     int32(p.Page),
		PageSize: int32(p.PageSize),
		Total:    p.Total,
		HasMore:  p.HasMore,
	}
}
