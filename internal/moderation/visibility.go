package moderation

import (
	"math"
	"strings"

	"dovakin0007.com/notes-moderation/internal/models"
)

type Scope string

const (
	ScopeMine    Scope = "mine"
	ScopeAll     Scope = "all"
	ScopePublic  Scope = "public"
	ScopePending Scope = "pending"
)

func ParseScope(s string) (Scope, bool) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeMine:
		return ScopeMine, true
	case ScopeAll:
		return ScopeAll, true
	case ScopePublic:
		return ScopePublic, true
	case ScopePending:
		return ScopePending, true
	}
	return "", false
}

// DefaultScope is used when a listing request names no scope. Moderators
// default to ScopeAll.
func DefaultScope(actor *models.Actor) Scope {
	switch {
	case actor == nil:
		return ScopePublic
	case actor.IsModerator():
		return ScopeAll
	default:
		return ScopeMine
	}
}

type Visibility struct {
	PageSize       int
	PublicPageSize int
}

func (v Visibility) pageSize(scope Scope) int {
	if scope == ScopePublic && v.PublicPageSize > 0 {
		return v.PublicPageSize
	}
	if v.PageSize > 0 {
		return v.PageSize
	}
	return 10
}

// Filter turns a listing request into store predicates, or refuses it.
func (v Visibility) Filter(actor *models.Actor, scope Scope, page int) (models.ListNotesFilter, error) {
	if page < 1 {
		page = 1
	}
	size := v.pageSize(scope)
	if page-1 > math.MaxInt/size {
		return models.ListNotesFilter{}, Validation("list", map[string]string{"page": "page is out of range"})
	}
	f := models.ListNotesFilter{
		SortBy:   models.SortByCreatedAt,
		Page:     page,
		PageSize: size,
	}

	switch scope {
	case ScopeMine:
		if actor == nil {
			return f, Unauthenticated("list")
		}
		owner := actor.ID
		f.OwnerID = &owner
	case ScopeAll:
		if err := (Policy{}).AuthorizeModerate("list", actor); err != nil {
			return f, err
		}
	case ScopePublic:
		st := models.StatusPublished
		f.Status = &st
		f.SortBy = models.SortByPublishedAt
	case ScopePending:
		if err := (Policy{}).AuthorizeModerate("list", actor); err != nil {
			return f, err
		}
		st := models.StatusPendingReview
		f.Status = &st
	default:
		return f, Validation("list", map[string]string{"scope": "unknown scope " + string(scope)})
	}
	return f, nil
}
