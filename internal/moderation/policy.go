package moderation

import (
	"dovakin0007.com/notes-moderation/internal/models"
)

// Relation is how an actor relates to a particular note.
type Relation int

const (
	RelationNone Relation = iota
	RelationOwner
)

type Capabilities struct {
	View     bool `json:"can_view"`
	Edit     bool `json:"can_edit"`
	Delete   bool `json:"can_delete"`
	Moderate bool `json:"can_moderate"`
}

// CapabilitiesFor maps a role and relation to the capability set for a note
// in the given status. An empty role stands for an anonymous caller.
func CapabilitiesFor(role models.Role, rel Relation, status models.Status, lockPublished bool) Capabilities {
	moderator := role.IsModerator()
	owner := rel == RelationOwner
	published := status == models.StatusPublished

	return Capabilities{
		View:     moderator || owner || published,
		Edit:     (moderator || owner) && !(published && lockPublished),
		Delete:   moderator || owner,
		Moderate: moderator,
	}
}

type Policy struct {
	// LockPublishedContent blocks title/body edits once a note is published.
	LockPublishedContent bool
}

func RelationOf(actor *models.Actor, note models.Note) Relation {
	if actor != nil && actor.ID != "" && actor.ID == note.OwnerID {
		return RelationOwner
	}
	return RelationNone
}

func roleOf(actor *models.Actor) models.Role {
	if actor == nil {
		return ""
	}
	return actor.Role
}

func (p Policy) Capabilities(actor *models.Actor, note models.Note) Capabilities {
	return CapabilitiesFor(roleOf(actor), RelationOf(actor, note), note.Status, p.LockPublishedContent)
}

func (p Policy) AuthorizeView(actor *models.Actor, note models.Note) error {
	if !p.Capabilities(actor, note).View {
		return Forbidden("view", "not allowed to view note %s", note.ID)
	}
	return nil
}

func (p Policy) AuthorizeEdit(actor *models.Actor, note models.Note) error {
	if actor == nil {
		return Unauthenticated("edit")
	}
	caps := p.Capabilities(actor, note)
	if caps.Edit {
		return nil
	}
	if caps.Delete && note.Status == models.StatusPublished {
		return Forbidden("edit", "note %s is published and its content is locked", note.ID)
	}
	return Forbidden("edit", "not allowed to edit note %s", note.ID)
}

func (p Policy) AuthorizeDelete(actor *models.Actor, note models.Note) error {
	if actor == nil {
		return Unauthenticated("delete")
	}
	if !p.Capabilities(actor, note).Delete {
		return Forbidden("delete", "not allowed to delete note %s", note.ID)
	}
	return nil
}

// AuthorizeModerate checks the moderation right alone; it does not need a note.
func (p Policy) AuthorizeModerate(op string, actor *models.Actor) error {
	if actor == nil {
		return Unauthenticated(op)
	}
	if !actor.IsModerator() {
		return Forbidden(op, "role %q may not moderate notes", actor.Role)
	}
	return nil
}
