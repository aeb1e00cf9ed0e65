package models

import (
	"math"
	"strings"
	"time"
)

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
	RoleUser       Role = "user"
)

// ParseRole accepts the canonical role names plus the camel-cased
// "superAdmin" spelling used by the LMS accounts table.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "superadmin":
		return RoleSuperAdmin, true
	case "admin":
		return RoleAdmin, true
	case "manager":
		return RoleManager, true
	case "staff":
		return RoleStaff, true
	case "user", "":
		return RoleUser, true
	}
	return "", false
}

// IsModerator reports whether the role may approve and reject notes.
func (r Role) IsModerator() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusPublished     Status = "published"
	StatusRejected      Status = "rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft", "private":
		return StatusDraft, true
	case "pending_review", "pending":
		return StatusPendingReview, true
	case "published":
		return StatusPublished, true
	case "rejected":
		return StatusRejected, true
	}
	return "", false
}

// Label is the human readable badge text for the status.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPendingReview:
		return "Pending Review"
	case StatusPublished:
		return "Published"
	case StatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

type Actor struct {
	ID          string  `db:"id" json:"id"`
	DisplayName *string `db:"display_name" json:"display_name,omitempty"`
	Role        Role    `db:"role" json:"role"`
}

func (a *Actor) IsModerator() bool {
	return a != nil && a.Role.IsModerator()
}

type Note struct {
	ID          string     `db:"id" json:"id"`
	OwnerID     string     `db:"owner_id" json:"owner_id"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	Status      Status     `db:"status" json:"status"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	ReviewerID  *string    `db:"reviewer_id" json:"reviewer_id,omitempty"`
	ReviewNotes *string    `db:"review_notes" json:"review_notes,omitempty"`
	Version     int64      `db:"version" json:"version"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	Owner       *Actor     `db:"-" json:"owner,omitempty"`
}

type CreateNoteInput struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required"`
}

// UpdateNoteInput replaces the fields that are set. A set field may not be
// blank.
type UpdateNoteInput struct {
	NoteID string  `json:"id" validate:"required"`
	Title  *string `json:"title" validate:"omitnil,min=1,max=255"`
	Body   *string `json:"body" validate:"omitnil,min=1"`
}

type ReviewInput struct {
	NoteID string  `json:"id" validate:"required"`
	Notes  *string `json:"review_notes" validate:"omitnil,max=1000"`
}

// SortKey selects the ordering column of a listing. Both orderings are
// newest first with the note id as tiebreaker.
type SortKey string

const (
	SortByCreatedAt   SortKey = "created_at"
	SortByPublishedAt SortKey = "published_at"
)

type ListNotesFilter struct {
	OwnerID  *string
	Status   *Status
	SortBy   SortKey
	Page     int
	PageSize int
}

// Offset is the number of rows before the page. It saturates at math.MaxInt
// instead of overflowing.
func (f ListNotesFilter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

type Page struct {
	Notes    []Note `json:"notes"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int64  `json:"total"`
	HasMore  bool   `json:"has_more"`
}
