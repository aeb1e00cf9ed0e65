package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const driverName = "postgres"

const ddl = `
CREATE TABLE IF NOT EXISTS actors (
    id            TEXT PRIMARY KEY,
    display_name  TEXT,
    role          TEXT NOT NULL DEFAULT 'user'
);

CREATE TABLE IF NOT EXISTS notes (
    id            TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL REFERENCES actors(id) ON DELETE CASCADE,
    title         VARCHAR(255) NOT NULL,
    body          TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'draft'
                  CHECK (status IN ('draft', 'pending_review', 'published', 'rejected')),
    published_at  TIMESTAMPTZ,
    reviewer_id   TEXT REFERENCES actors(id) ON DELETE SET NULL,
    review_notes  VARCHAR(1000),
    version       BIGINT NOT NULL DEFAULT 1,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT notes_published_at_chk CHECK ((status = 'published') = (published_at IS NOT NULL))
);

CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_notes_set_updated_at ON notes;
CREATE TRIGGER trg_notes_set_updated_at
BEFORE UPDATE ON notes
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

CREATE INDEX IF NOT EXISTS idx_notes_owner_id      ON notes(owner_id);
CREATE INDEX IF NOT EXISTS idx_notes_status        ON notes(status);
CREATE INDEX IF NOT EXISTS idx_notes_published_at  ON notes(published_at DESC) WHERE status = 'published';
`

var noteColumns = []string{
	"id", "owner_id", "title", "body", "status", "published_at",
	"reviewer_id", "review_notes", "version", "created_at", "updated_at",
}

// Database is the sqlx/squirrel implementation of Store.
type Database struct {
	Db *sqlx.DB
}

var _ Store = (*Database)(nil)

func New(db *sqlx.DB) *Database {
	return &Database{Db: db}
}

// Connect opens a postgres pool for dsn and pings it.
func Connect(ctx context.Context, dsn string) (*Database, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return New(db), nil
}

func (d *Database) Migrate(ctx context.Context) error {
	if _, err := d.Db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	if d.Db != nil {
		return d.Db.Close()
	}
	return nil
}

func upsertActorQuery(actor models.Actor) sq.InsertBuilder {
	return psql.Insert("actors").
		Columns("id", "display_name", "role").
		Values(actor.ID, actor.DisplayName, string(actor.Role)).
		Suffix("ON CONFLICT (id) DO UPDATE SET display_name=COALESCE(EXCLUDED.display_name, actors.display_name), role=EXCLUDED.role")
}

func (d *Database) UpsertActor(ctx context.Context, actor models.Actor) error {
	sqlStr, args, err := upsertActorQuery(actor).ToSql()
	if err != nil {
		return fmt.Errorf("build actor upsert: %w", err)
	}
	if _, err := d.Db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert actor %s: %w", actor.ID, err)
	}
	return nil
}

// CreateNote stores the owner and the note in one transaction.
func (d *Database) CreateNote(ctx context.Context, note models.Note, owner models.Actor) (*models.Note, error) {
	tx, err := d.Db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create note: %w", err)
	}
	defer tx.Rollback()

	query, args, err := upsertActorQuery(owner).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build actor upsert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("upsert actor %s: %w", owner.ID, err)
	}

	query, args, err = psql.Insert("notes").
		Columns("id", "owner_id", "title", "body", "status", "published_at", "version").
		Values(note.ID, note.OwnerID, note.Title, note.Body, string(note.Status), note.PublishedAt, note.Version).
		Suffix("RETURNING " + joinColumns("")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build note insert: %w", err)
	}
	var n models.Note
	if err := tx.GetContext(ctx, &n, query, args...); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create note: %w", err)
	}
	n.Owner = &owner
	return &n, nil
}

type noteRow struct {
	models.Note
	OwnerName *string `db:"owner_display_name"`
	OwnerRole *string `db:"owner_role"`
}

func (r noteRow) toNote() models.Note {
	n := r.Note
	role := models.RoleUser
	if r.OwnerRole != nil {
		if parsed, ok := models.ParseRole(*r.OwnerRole); ok {
			role = parsed
		}
	}
	n.Owner = &models.Actor{ID: n.OwnerID, DisplayName: r.OwnerName, Role: role}
	return n
}

func selectNotes() sq.SelectBuilder {
	return psql.Select(joinColumns("n.")).
		Column("a.display_name AS owner_display_name").
		Column("a.role AS owner_role").
		From("notes n").
		LeftJoin("actors a ON a.id = n.owner_id")
}

func (d *Database) GetNote(ctx context.Context, id string) (*models.Note, error) {
	query, args, err := selectNotes().Where(sq.Eq{"n.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build note select: %w", err)
	}
	var rw noteRow
	if err := d.Db.GetContext(ctx, &rw, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, moderation.NotFound("get", id)
		}
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	n := rw.toNote()
	return &n, nil
}

func (d *Database) UpdateNote(ctx context.Context, note models.Note, expectedVersion int64) (*models.Note, error) {
	query, args, err := psql.Update("notes").
		Set("title", note.Title).
		Set("body", note.Body).
		Set("status", string(note.Status)).
		Set("published_at", note.PublishedAt).
		Set("reviewer_id", note.ReviewerID).
		Set("review_notes", note.ReviewNotes).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": note.ID, "version": expectedVersion}).
		Suffix("RETURNING " + joinColumns("")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build note update: %w", err)
	}

	var n models.Note
	err = d.Db.GetContext(ctx, &n, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, d.missOrConflict(ctx, note.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", note.ID, err)
	}
	n.Owner = note.Owner
	return &n, nil
}

// missOrConflict tells a deleted note apart from a stale version after an
// update touched no row.
func (d *Database) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	if err := d.Db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("check note %s: %w", id, err)
	}
	if !exists {
		return moderation.NotFound("update", id)
	}
	return moderation.Conflict("update", id)
}

func (d *Database) DeleteNote(ctx context.Context, id string) error {
	query, args, err := psql.Delete("notes").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build note delete: %w", err)
	}
	res, err := d.Db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected (notes delete): %w", err)
	}
	if ra == 0 {
		return moderation.NotFound("delete", id)
	}
	return nil
}

func applyFilter(b sq.SelectBuilder, filter models.ListNotesFilter) sq.SelectBuilder {
	if filter.OwnerID != nil {
		b = b.Where(sq.Eq{"n.owner_id": *filter.OwnerID})
	}
	if filter.Status != nil {
		b = b.Where(sq.Eq{"n.status": string(*filter.Status)})
	}
	return b
}

func (d *Database) ListNotes(ctx context.Context, filter models.ListNotesFilter) ([]models.Note, int64, error) {
	countQuery, countArgs, err := applyFilter(psql.Select("COUNT(*)").From("notes n"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build note count: %w", err)
	}
	var total int64
	if err := d.Db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	orderBy := "n.created_at DESC, n.id DESC"
	if filter.SortBy == models.SortByPublishedAt {
		orderBy = "n.published_at DESC NULLS LAST, n.id DESC"
	}
	q := applyFilter(selectNotes(), filter).OrderBy(orderBy)
	if filter.PageSize > 0 {
		q = q.Limit(uint64(filter.PageSize)).Offset(uint64(filter.Offset()))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build note list: %w", err)
	}

	var rows []noteRow
	if err := d.Db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	notes := make([]models.Note, 0, len(rows))
	for _, rw := range rows {
		notes = append(notes, rw.toNote())
	}
	return notes, total, nil
}

func joinColumns(prefix string) string {
	cols := make([]string, len(noteColumns))
	for i, c := range noteColumns {
		cols[i] = prefix + c
	}
	return strings.Join(cols, ", ")
}
