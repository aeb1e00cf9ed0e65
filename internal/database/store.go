package database

import (
	"context"

	"dovakin0007.com/notes-moderation/internal/models"
)

// Store persists notes and the actors that own or review them.
//
// Lookups of a missing note return moderation.ErrNotFound. UpdateNote writes
// the whole mutable state of the note in one statement guarded by the
// version the caller read; a stale version yields moderation.ErrConflict.
type Store interface {
	Migrate(ctx context.Context) error
	UpsertActor(ctx context.Context, actor models.Actor) error
	CreateNote(ctx context.Context, note models.Note, owner models.Actor) (*models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, note models.Note, expectedVersion int64) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, filter models.ListNotesFilter) ([]models.Note, int64, error)
	Close() error
}
