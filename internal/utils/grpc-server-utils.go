package utils

import (
	"strings"

	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	pb "dovakin0007.com/notes-moderation/notes"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
)

var allowedPaths = map[string]struct{}{
	"title": {},
	"body":  {},
}

// NormalizeMask lowercases and dedupes the mask paths in place and rejects
// unknown ones.
func NormalizeMask(m *fieldmaskpb.FieldMask) error {
	if m == nil || len(m.Paths) == 0 {
		return moderation.Validation("update", map[string]string{"update_mask": "field mask is required"})
	}
	seen := make(map[string]struct{}, len(m.Paths))
	paths := m.Paths[:0]
	for _, p := range m.Paths {
		p = strings.ToLower(strings.TrimSpace(p))
		if _, ok := allowedPaths[p]; !ok {
			return moderation.Validation("update", map[string]string{"update_mask": "invalid field mask path: " + p})
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	m.Paths = paths
	return nil
}

// UpdatesNotesMask copies the masked fields of req into an update input.
func UpdatesNotesMask(req *pb.UpdateNoteRequest) models.UpdateNoteInput {
	in := models.UpdateNoteInput{NoteID: req.GetId()}
	for _, path := range req.GetUpdateMask().GetPaths() {
		switch path {
		case "title":
			title := req.Title
			in.Title = &title
		case "body":
			body := req.Body
			in.Body = &body
		}
	}
	return in
}

func NilIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
