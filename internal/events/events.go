package events

import (
	"context"
	"time"

	"dovakin0007.com/notes-moderation/internal/models"
	"github.com/google/uuid"
)

// Event types
const (
	NoteCreated   = "note.created"
	NoteUpdated   = "note.updated"
	NoteDeleted   = "note.deleted"
	NoteSubmitted = "note.submitted"
	NotePublished = "note.published"
	NoteRejected  = "note.rejected"
)

const DefaultTopic = "notes.moderation"

// NoteEvent is published after a successful write to a note.
type NoteEvent struct {
	ID          string        `json:"id"`
	EventType   string        `json:"eventType"`
	NoteID      string        `json:"noteId"`
	OwnerID     string        `json:"ownerId"`
	ActionBy    string        `json:"actionBy"`
	Status      models.Status `json:"status"`
	ReviewNotes *string       `json:"reviewNotes,omitempty"`
	Version     int64         `json:"version"`
	Timestamp   time.Time     `json:"timestamp"`
}

func NewNoteEvent(eventType string, note models.Note, actor models.Actor) *NoteEvent {
	return &NoteEvent{
		ID:          uuid.NewString(),
		EventType:   eventType,
		NoteID:      note.ID,
		OwnerID:     note.OwnerID,
		ActionBy:    actor.ID,
		Status:      note.Status,
		ReviewNotes: note.ReviewNotes,
		Version:     note.Version,
		Timestamp:   time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event *NoteEvent) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, *NoteEvent) error { return nil }
func (Nop) Close() error                              { return nil }
