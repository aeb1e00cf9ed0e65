// Package memstore is an in-process Store used by tests and by the
// STORE_DRIVER=memory mode of the server.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"dovakin0007.com/notes-moderation/internal/database"
	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
)

type Store struct {
	mu     sync.RWMutex
	notes  map[string]models.Note
	actors map[string]models.Actor
	now    func() time.Time
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		notes:  make(map[string]models.Note),
		actors: make(map[string]models.Actor),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Migrate(context.Context) error { return nil }
func (s *Store) Close() error                  { return nil }

func (s *Store) UpsertActor(ctx context.Context, actor models.Actor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertActorLocked(actor)
	return nil
}

func (s *Store) upsertActorLocked(actor models.Actor) {
	if prev, ok := s.actors[actor.ID]; ok && actor.DisplayName == nil {
		actor.DisplayName = prev.DisplayName
	}
	s.actors[actor.ID] = actor
}

func (s *Store) CreateNote(ctx context.Context, note models.Note, owner models.Actor) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertActorLocked(owner)
	now := s.now()
	note.CreatedAt = now
	note.UpdatedAt = now
	if note.Version == 0 {
		note.Version = 1
	}
	note.Owner = nil
	note.PublishedAt = copyTime(note.PublishedAt)
	note.ReviewerID = copyString(note.ReviewerID)
	note.ReviewNotes = copyString(note.ReviewNotes)
	s.notes[note.ID] = note
	return s.withOwner(note), nil
}

func (s *Store) GetNote(ctx context.Context, id string) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, moderation.NotFound("get", id)
	}
	return s.withOwner(n), nil
}

func (s *Store) UpdateNote(ctx context.Context, note models.Note, expectedVersion int64) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.notes[note.ID]
	if !ok {
		return nil, moderation.NotFound("update", note.ID)
	}
	if cur.Version != expectedVersion {
		return nil, moderation.Conflict("update", note.ID)
	}
	cur.Title = note.Title
	cur.Body = note.Body
	cur.Status = note.Status
	cur.PublishedAt = copyTime(note.PublishedAt)
	cur.ReviewerID = copyString(note.ReviewerID)
	cur.ReviewNotes = copyString(note.ReviewNotes)
	cur.Version++
	cur.UpdatedAt = s.now()
	s.notes[cur.ID] = cur
	return s.withOwner(cur), nil
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return moderation.NotFound("delete", id)
	}
	delete(s.notes, id)
	return nil
}

func (s *Store) ListNotes(ctx context.Context, filter models.ListNotesFilter) ([]models.Note, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Note
	for _, n := range s.notes {
		if filter.OwnerID != nil && n.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && n.Status != *filter.Status {
			continue
		}
		matched = append(matched, n)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := sortKey(matched[i], filter.SortBy), sortKey(matched[j], filter.SortBy)
		if !a.Equal(b) {
			return a.After(b)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if filter.PageSize > 0 {
		start := min(filter.Offset(), len(matched))
		end := min(start+filter.PageSize, len(matched))
		matched = matched[start:end]
	}

	out := make([]models.Note, 0, len(matched))
	for _, n := range matched {
		out = append(out, *s.withOwner(n))
	}
	return out, total, nil
}

func sortKey(n models.Note, by models.SortKey) time.Time {
	if by == models.SortByPublishedAt {
		if n.PublishedAt == nil {
			return time.Time{}
		}
		return *n.PublishedAt
	}
	return n.CreatedAt
}

// withOwner returns a copy that shares no pointers with the stored note.
func (s *Store) withOwner(n models.Note) *models.Note {
	n.PublishedAt = copyTime(n.PublishedAt)
	n.ReviewerID = copyString(n.ReviewerID)
	n.ReviewNotes = copyString(n.ReviewNotes)
	if a, ok := s.actors[n.OwnerID]; ok {
		a.DisplayName = copyString(a.DisplayName)
		n.Owner = &a
	}
	return &n
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
