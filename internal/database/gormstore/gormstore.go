// Package gormstore implements database.Store on top of gorm, selected with
// STORE_DRIVER=gorm. It shares the table layout of the sqlx store.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dovakin0007.com/notes-moderation/internal/database"
	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type actorRecord struct {
	ID          string `gorm:"primaryKey"`
	DisplayName *string
	Role        string `gorm:"not null;default:user"`
}

func (actorRecord) TableName() string { return "actors" }

type noteRecord struct {
	ID          string       `gorm:"primaryKey"`
	OwnerID     string       `gorm:"index;not null"`
	Owner       *actorRecord `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Title       string       `gorm:"size:255;not null"`
	Body        string       `gorm:"type:text;not null"`
	Status      string       `gorm:"index;not null;default:draft;check:notes_status_chk,status IN ('draft', 'pending_review', 'published', 'rejected')"`
	PublishedAt *time.Time   `gorm:"index;check:notes_published_at_chk,(status = 'published') = (published_at IS NOT NULL)"`
	ReviewerID  *string
	Reviewer    *actorRecord `gorm:"foreignKey:ReviewerID;constraint:OnDelete:SET NULL"`
	ReviewNotes *string      `gorm:"size:1000"`
	Version     int64        `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (noteRecord) TableName() string { return "notes" }

func (r noteRecord) toModel() models.Note {
	n := models.Note{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Body:        r.Body,
		Status:      models.Status(r.Status),
		PublishedAt: r.PublishedAt,
		ReviewerID:  r.ReviewerID,
		ReviewNotes: r.ReviewNotes,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Owner != nil && r.Owner.ID != "" {
		role, ok := models.ParseRole(r.Owner.Role)
		if !ok {
			role = models.RoleUser
		}
		n.Owner = &models.Actor{ID: r.Owner.ID, DisplayName: r.Owner.DisplayName, Role: role}
	}
	return n
}

type Store struct {
	db *gorm.DB
}

var _ database.Store = (*Store)(nil)

func Connect(dsn string) (*Store, error) {
	return NewWithDialector(postgres.Open(dsn))
}

func NewWithDialector(d gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(d, &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&actorRecord{}, &noteRecord{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsertActor(tx *gorm.DB, actor models.Actor) error {
	rec := actorRecord{ID: actor.ID, DisplayName: actor.DisplayName, Role: string(actor.Role)}
	updates := []string{"role"}
	if actor.DisplayName != nil {
		updates = append(updates, "display_name")
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&rec).Error
}

func (s *Store) UpsertActor(ctx context.Context, actor models.Actor) error {
	if err := upsertActor(s.db.WithContext(ctx), actor); err != nil {
		return fmt.Errorf("upsert actor %s: %w", actor.ID, err)
	}
	return nil
}

func (s *Store) CreateNote(ctx context.Context, note models.Note, owner models.Actor) (*models.Note, error) {
	rec := noteRecord{
		ID:          note.ID,
		OwnerID:     note.OwnerID,
		Title:       note.Title,
		Body:        note.Body,
		Status:      string(note.Status),
		PublishedAt: note.PublishedAt,
		Version:     note.Version,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertActor(tx, owner); err != nil {
			return fmt.Errorf("upsert actor %s: %w", owner.ID, err)
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	n := rec.toModel()
	n.Owner = &owner
	return &n, nil
}

func (s *Store) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var rec noteRecord
	err := s.db.WithContext(ctx).Joins("Owner").Where("notes.id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, moderation.NotFound("get", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get note %s: %w", id, err)
	}
	n := rec.toModel()
	return &n, nil
}

func (s *Store) UpdateNote(ctx context.Context, note models.Note, expectedVersion int64) (*models.Note, error) {
	res := s.db.WithContext(ctx).Model(&noteRecord{}).
		Where("id = ? AND version = ?", note.ID, expectedVersion).
		Updates(map[string]any{
			"title":        note.Title,
			"body":         note.Body,
			"status":       string(note.Status),
			"published_at": note.PublishedAt,
			"reviewer_id":  note.ReviewerID,
			"review_notes": note.ReviewNotes,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update note %s: %w", note.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&noteRecord{}).Where("id = ?", note.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check note %s: %w", note.ID, err)
		}
		if count == 0 {
			return nil, moderation.NotFound("update", note.ID)
		}
		return nil, moderation.Conflict("update", note.ID)
	}
	return s.GetNote(ctx, note.ID)
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&noteRecord{})
	if res.Error != nil {
		return fmt.Errorf("deleting note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return moderation.NotFound("delete", id)
	}
	return nil
}

func (s *Store) ListNotes(ctx context.Context, filter models.ListNotesFilter) ([]models.Note, int64, error) {
	q := s.db.WithContext(ctx).Model(&noteRecord{})
	if filter.OwnerID != nil {
		q = q.Where("notes.owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != nil {
		q = q.Where("notes.status = ?", string(*filter.Status))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	order := "notes.created_at DESC, notes.id DESC"
	if filter.SortBy == models.SortByPublishedAt {
		order = "notes.published_at DESC NULLS LAST, notes.id DESC"
	}
	q = q.Joins("Owner").Order(order)
	if filter.PageSize > 0 {
		q = q.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var recs []noteRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	notes := make([]models.Note, 0, len(recs))
	for _, r := range recs {
		notes = append(notes, r.toModel())
	}
	return notes, total, nil
}
