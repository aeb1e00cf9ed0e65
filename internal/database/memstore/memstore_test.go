package memstore_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"dovakin0007.com/notes-moderation/internal/database/memstore"
	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	name := "Alice"

	created, err := s.CreateNote(ctx, models.Note{ID: "n1", OwnerID: "a1", Title: "t", Body: "b", Status: models.StatusDraft},
		models.Actor{ID: "a1", DisplayName: &name, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Alice", *got.Owner.DisplayName)

	_, err = s.GetNote(ctx, "nope")
	assert.ErrorIs(t, err, moderation.ErrNotFound)
}

func TestUpdateIsVersionGuarded(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_, err := s.CreateNote(ctx, models.Note{ID: "n1", OwnerID: "a1", Title: "t", Body: "b", Status: models.StatusDraft}, models.Actor{ID: "a1"})
	require.NoError(t, err)

	first, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	second := *first

	first.Title = "first"
	updated, err := s.UpdateNote(ctx, *first, first.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	second.Title = "second"
	_, err = s.UpdateNote(ctx, second, second.Version)
	assert.ErrorIs(t, err, moderation.ErrConflict)

	got, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	_, err = s.UpdateNote(ctx, models.Note{ID: "gone"}, 1)
	assert.ErrorIs(t, err, moderation.ErrNotFound)
}

func TestReturnedNotesDoNotAlias(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	notes := "x"
	_, err := s.CreateNote(ctx, models.Note{ID: "n1", OwnerID: "a1", Status: models.StatusRejected, ReviewNotes: &notes}, models.Actor{ID: "a1"})
	require.NoError(t, err)

	got, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	*got.ReviewNotes = "mutated"

	again, err := s.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "x", *again.ReviewNotes)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	_, err := s.CreateNote(ctx, models.Note{ID: "n1", OwnerID: "a1"}, models.Actor{ID: "a1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteNote(ctx, "n1"))
	assert.ErrorIs(t, s.DeleteNote(ctx, "n1"), moderation.ErrNotFound)
	_, err = s.GetNote(ctx, "n1")
	assert.ErrorIs(t, err, moderation.ErrNotFound)
}

func TestListFiltersOrdersAndPages(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		owner := "a1"
		if i%2 == 1 {
			owner = "a2"
		}
		n := models.Note{ID: "n" + strconv.Itoa(i), OwnerID: owner, Status: models.StatusDraft}
		if i >= 2 {
			at := base.Add(time.Duration(i) * time.Hour)
			n.Status = models.StatusPublished
			n.PublishedAt = &at
		}
		_, err := s.CreateNote(ctx, n, models.Actor{ID: owner})
		require.NoError(t, err)
	}

	published := models.StatusPublished
	notes, total, err := s.ListNotes(ctx, models.ListNotesFilter{
		Status: &published, SortBy: models.SortByPublishedAt, Page: 1, PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, notes, 2)
	assert.Equal(t, "n4", notes[0].ID)
	assert.Equal(t, "n3", notes[1].ID)

	notes, _, err = s.ListNotes(ctx, models.ListNotesFilter{
		Status: &published, SortBy: models.SortByPublishedAt, Page: 2, PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n2", notes[0].ID)

	owner := "a2"
	notes, total, err = s.ListNotes(ctx, models.ListNotesFilter{OwnerID: &owner, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, n := range notes {
		assert.Equal(t, "a2", n.OwnerID)
	}

	notes, total, err = s.ListNotes(ctx, models.ListNotesFilter{Page: 9, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, notes)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := memstore.New().GetNote(ctx, "n1")
	assert.ErrorIs(t, err, context.Canceled)
}
