package moderation

import (
	"strings"
	"time"

	"dovakin0007.com/notes-moderation/internal/models"
)

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

type Transition struct {
	Action Action
	// Notes is the moderator comment. Optional on approve, required on reject,
	// ignored on submit.
	Notes *string
}

// Machine applies workflow transitions to notes. With RequireApproval unset
// the workflow collapses to draft -> published on submit.
type Machine struct {
	RequireApproval bool
	Now             func() time.Time
}

func (m Machine) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

// Apply returns the note as it must be stored after the transition. On any
// error the input note is returned unchanged.
func (m Machine) Apply(actor *models.Actor, note models.Note, t Transition) (models.Note, error) {
	op := string(t.Action)
	if actor == nil {
		return note, Unauthenticated(op)
	}

	switch t.Action {
	case ActionSubmit:
		return m.submit(actor, note)
	case ActionApprove:
		return m.approve(actor, note, t.Notes)
	case ActionReject:
		return m.reject(actor, note, t.Notes)
	}
	return note, Validation(op, map[string]string{"action": "unknown action " + op})
}

func (m Machine) submit(actor *models.Actor, note models.Note) (models.Note, error) {
	if RelationOf(actor, note) != RelationOwner {
		return note, Forbidden("submit", "only the owner can submit note %s", note.ID)
	}
	if note.Status != models.StatusDraft && note.Status != models.StatusRejected {
		return note, invalidTransition(ActionSubmit, note)
	}

	next := note
	if m.RequireApproval {
		next.Status = models.StatusPendingReview
		return next, nil
	}
	now := m.now()
	next.Status = models.StatusPublished
	next.PublishedAt = &now
	return next, nil
}

func (m Machine) approve(actor *models.Actor, note models.Note, notes *string) (models.Note, error) {
	if !actor.IsModerator() {
		return note, Forbidden("approve", "role %q may not approve notes", actor.Role)
	}
	if note.Status != models.StatusPendingReview {
		return note, invalidTransition(ActionApprove, note)
	}

	now := m.now()
	reviewer := actor.ID
	next := note
	next.Status = models.StatusPublished
	next.PublishedAt = &now
	next.ReviewerID = &reviewer
	next.ReviewNotes = normalizeNotes(notes)
	return next, nil
}

func (m Machine) reject(actor *models.Actor, note models.Note, notes *string) (models.Note, error) {
	if !actor.IsModerator() {
		return note, Forbidden("reject", "role %q may not reject notes", actor.Role)
	}
	comment := normalizeNotes(notes)
	if comment == nil {
		return note, Validation("reject", map[string]string{"review_notes": "required when rejecting"})
	}
	if note.Status != models.StatusPendingReview {
		return note, invalidTransition(ActionReject, note)
	}

	reviewer := actor.ID
	next := note
	next.Status = models.StatusRejected
	next.PublishedAt = nil
	next.ReviewerID = &reviewer
	next.ReviewNotes = comment
	return next, nil
}

// Available lists the transitions the actor could apply to the note right now.
func (m Machine) Available(actor *models.Actor, note models.Note) []Action {
	if actor == nil {
		return nil
	}
	var out []Action
	if RelationOf(actor, note) == RelationOwner &&
		(note.Status == models.StatusDraft || note.Status == models.StatusRejected) {
		out = append(out, ActionSubmit)
	}
	if actor.IsModerator() && note.Status == models.StatusPendingReview {
		out = append(out, ActionApprove, ActionReject)
	}
	return out
}

func invalidTransition(a Action, note models.Note) *Error {
	return newError(KindInvalidTransition, string(a), "cannot %s note %s in state %s", a, note.ID, note.Status)
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	s := strings.TrimSpace(*notes)
	if s == "" {
		return nil
	}
	return &s
}
