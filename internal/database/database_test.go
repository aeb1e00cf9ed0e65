package database_test

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"testing"
	"time"

	"dovakin0007.com/notes-moderation/internal/database"
	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var noteCols = []string{
	"id", "owner_id", "title", "body", "status", "published_at",
	"reviewer_id", "review_notes", "version", "created_at", "updated_at",
}

func newMockDatabase(t *testing.T) (*database.Database, sqlmock.Sqlmock, func()) {
	t.Helper()
	dbsql, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(dbsql, "postgres")
	return database.New(sqlxDB), mock, func() { sqlxDB.Close() }
}

func TestCreateNote_sqlmock(t *testing.T) {
	ctx := context.Background()
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	now := time.Now().UTC()
	owner := models.Actor{ID: "actor-1", DisplayName: ptrString("Alice"), Role: models.RoleUser}
	in := models.Note{
		ID:      "note-1",
		OwnerID: owner.ID,
		Title:   "Hello",
		Body:    "World",
		Status:  models.StatusDraft,
		Version: 1,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO actors")).
		WithArgs(owner.ID, owner.DisplayName, "user").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notes")).
		WithArgs(in.ID, in.OwnerID, in.Title, in.Body, "draft", nil, int64(1)).
		WillReturnRows(sqlmock.NewRows(noteCols).
			AddRow(in.ID, in.OwnerID, in.Title, in.Body, "draft", nil, nil, nil, 1, now, now))
	mock.ExpectCommit()

	n, err := d.CreateNote(ctx, in, owner)
	require.NoError(t, err)
	require.Equal(t, in.ID, n.ID)
	require.Equal(t, models.StatusDraft, n.Status)
	require.Nil(t, n.PublishedAt)
	require.Equal(t, int64(1), n.Version)
	require.NotNil(t, n.Owner)
	require.Equal(t, "Alice", *n.Owner.DisplayName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNote_RollsBackOnInsertError(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO actors")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notes")).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := d.CreateNote(context.Background(), models.Note{ID: "n", OwnerID: "a", Status: models.StatusDraft}, models.Actor{ID: "a"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNote_Basic(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	now := time.Now().UTC()
	published := now.Add(-time.Minute)
	cols := append(append([]string{}, noteCols...), "owner_display_name", "owner_role")
	rows := sqlmock.NewRows(cols).AddRow(
		"note-123", "actor-1", "My title", "my body", "published", published,
		"admin-1", "ok", 4, now.Add(-time.Hour), now, "Alice", "staff",
	)

	queryRegex := `(?s)^SELECT .* FROM notes n LEFT JOIN actors a ON a\.id = n\.owner_id WHERE n\.id = \$1`
	mock.ExpectQuery(queryRegex).WithArgs("note-123").WillReturnRows(rows)

	note, err := d.GetNote(context.Background(), "note-123")
	require.NoError(t, err)
	require.Equal(t, "note-123", note.ID)
	require.Equal(t, models.StatusPublished, note.Status)
	require.NotNil(t, note.PublishedAt)
	require.Equal(t, ptrString("admin-1"), note.ReviewerID)
	require.Equal(t, int64(4), note.Version)
	require.NotNil(t, note.Owner)
	require.Equal(t, models.RoleStaff, note.Owner.Role)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNote_NotFound(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)^SELECT .* FROM notes n`).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(noteCols))

	_, err := d.GetNote(context.Background(), "missing")
	require.ErrorIs(t, err, moderation.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNote_VersionGuard(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	now := time.Now().UTC()
	reviewer := "admin-1"
	in := models.Note{
		ID:          "note-1",
		OwnerID:     "actor-1",
		Title:       "t",
		Body:        "b",
		Status:      models.StatusPublished,
		PublishedAt: &now,
		ReviewerID:  &reviewer,
		Version:     2,
	}

	updateRegex := `(?s)^UPDATE notes SET title = \$1, body = \$2, status = \$3, published_at = \$4, reviewer_id = \$5, review_notes = \$6, version = version \+ 1 WHERE id = \$7 AND version = \$8 RETURNING`
	mock.ExpectQuery(updateRegex).
		WithArgs("t", "b", "published", &now, &reviewer, nil, "note-1", int64(2)).
		WillReturnRows(sqlmock.NewRows(noteCols).
			AddRow("note-1", "actor-1", "t", "b", "published", now, reviewer, nil, 3, now, now))

	n, err := d.UpdateNote(context.Background(), in, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), n.Version)
	require.Equal(t, models.StatusPublished, n.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNote_StaleVersionIsConflict(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)^UPDATE notes`).WillReturnRows(sqlmock.NewRows(noteCols))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1)`)).
		WithArgs("note-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := d.UpdateNote(context.Background(), models.Note{ID: "note-1", Status: models.StatusDraft}, 1)
	require.ErrorIs(t, err, moderation.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNote_MissingIsNotFound(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)^UPDATE notes`).WillReturnRows(sqlmock.NewRows(noteCols))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("note-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := d.UpdateNote(context.Background(), models.Note{ID: "note-1", Status: models.StatusDraft}, 1)
	require.ErrorIs(t, err, moderation.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotes_PublicPage(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	published := models.StatusPublished
	filter := models.ListNotesFilter{
		Status:   &published,
		SortBy:   models.SortByPublishedAt,
		Page:     2,
		PageSize: 12,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notes n WHERE n.status = $1")).
		WithArgs("published").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))

	cols := append(append([]string{}, noteCols...), "owner_display_name", "owner_role")
	rows := sqlmock.NewRows(cols)
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		at := now.Add(-time.Duration(i) * time.Minute)
		rows.AddRow("note-"+strconv.Itoa(i), "actor-1", "Title", "body", "published", at,
			"admin-1", nil, 2, at, at, nil, "user")
	}
	selectRegex := `(?s)^SELECT .* FROM notes n LEFT JOIN actors a ON a\.id = n\.owner_id WHERE n\.status = \$1 ORDER BY n\.published_at DESC NULLS LAST, n\.id DESC LIMIT 12 OFFSET 12`
	mock.ExpectQuery(selectRegex).WithArgs("published").WillReturnRows(rows)

	notes, total, err := d.ListNotes(context.Background(), filter)
	require.NoError(t, err)
	require.Equal(t, int64(15), total)
	require.Len(t, notes, 3)
	require.True(t, !notes[0].PublishedAt.Before(*notes[1].PublishedAt))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotes_Mine(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	owner := "actor-1"
	filter := models.ListNotesFilter{OwnerID: &owner, SortBy: models.SortByCreatedAt, Page: 1, PageSize: 10}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notes n WHERE n.owner_id = $1")).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)WHERE n\.owner_id = \$1 ORDER BY n\.created_at DESC, n\.id DESC LIMIT 10 OFFSET 0`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(noteCols))

	notes, total, err := d.ListNotes(context.Background(), filter)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNote_Success(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectExec(regexp.MustCompile(`DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1`).String()).
		WithArgs("note-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, d.DeleteNote(context.Background(), "note-123"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNote_Missing(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectExec(`DELETE\s+FROM\s+notes`).
		WithArgs("note-123").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := d.DeleteNote(context.Background(), "note-123")
	require.ErrorIs(t, err, moderation.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS actors")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, d.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func ptrString(s string) *string { return &s }
