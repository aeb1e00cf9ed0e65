package notes

import (
	"context"
	"strings"
	"time"

	"dovakin0007.com/notes-moderation/internal/database"
	"dovakin0007.com/notes-moderation/internal/events"
	"dovakin0007.com/notes-moderation/internal/metrics"
	"dovakin0007.com/notes-moderation/internal/models"
	"dovakin0007.com/notes-moderation/internal/moderation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Options struct {
	RequireApproval      bool
	LockPublishedContent bool
	PageSize             int
	PublicPageSize       int

	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	Now       func() time.Time
}

// Service runs every note operation as one read, a pure decision from the
// moderation package and at most one write.
type Service struct {
	store      database.Store
	policy     moderation.Policy
	machine    moderation.Machine
	visibility moderation.Visibility
	publisher  events.Publisher
	metrics    *metrics.Metrics
	log        zerolog.Logger
	newID      func() string
}

func NewService(store database.Store, opts Options) *Service {
	pub := opts.Publisher
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{
		store:      store,
		policy:     moderation.Policy{LockPublishedContent: opts.LockPublishedContent},
		machine:    moderation.Machine{RequireApproval: opts.RequireApproval, Now: opts.Now},
		visibility: moderation.Visibility{PageSize: opts.PageSize, PublicPageSize: opts.PublicPageSize},
		publisher:  pub,
		metrics:    opts.Metrics,
		log:        opts.Logger,
		newID:      uuid.NewString,
	}
}

// NoteView is a note together with what the caller may do with it.
type NoteView struct {
	Note         models.Note
	Capabilities moderation.Capabilities
	Actions      []moderation.Action
}

func (s *Service) view(actor *models.Actor, n models.Note) *NoteView {
	return &NoteView{
		Note:         n,
		Capabilities: s.policy.Capabilities(actor, n),
		Actions:      s.machine.Available(actor, n),
	}
}

func (s *Service) Create(ctx context.Context, actor *models.Actor, in models.CreateNoteInput) (*NoteView, error) {
	if actor == nil {
		return nil, moderation.Unauthenticated("create")
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	if err := check("create", in); err != nil {
		return nil, err
	}

	note := models.Note{
		ID:      s.newID(),
		OwnerID: actor.ID,
		Title:   in.Title,
		Body:    in.Body,
		Status:  models.StatusDraft,
		Version: 1,
	}
	created, err := s.store.CreateNote(ctx, note, *actor)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NoteCreated, *created, *actor)
	return s.view(actor, *created), nil
}

func (s *Service) Get(ctx context.Context, actor *models.Actor, id string) (*NoteView, error) {
	n, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeView(actor, *n); err != nil {
		return nil, err
	}
	return s.view(actor, *n), nil
}

func (s *Service) Update(ctx context.Context, actor *models.Actor, in models.UpdateNoteInput) (*NoteView, error) {
	if actor == nil {
		return nil, moderation.Unauthenticated("update")
	}
	in.Title = trimPtr(in.Title)
	in.Body = trimPtr(in.Body)
	if err := check("update", in); err != nil {
		return nil, err
	}
	if in.Title == nil && in.Body == nil {
		return nil, moderation.Validation("update", map[string]string{"update_mask": "nothing to update"})
	}

	cur, err := s.store.GetNote(ctx, in.NoteID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeEdit(actor, *cur); err != nil {
		return nil, err
	}

	next := *cur
	if in.Title != nil {
		next.Title = *in.Title
	}
	if in.Body != nil {
		next.Body = *in.Body
	}
	updated, err := s.store.UpdateNote(ctx, next, cur.Version)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.NoteUpdated, *updated, *actor)
	return s.view(actor, *updated), nil
}

func (s *Service) Delete(ctx context.Context, actor *models.Actor, id string) error {
	if actor == nil {
		return moderation.Unauthenticated("delete")
	}
	cur, err := s.store.GetNote(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.AuthorizeDelete(actor, *cur); err != nil {
		return err
	}
	if err := s.store.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.NoteDeleted, *cur, *actor)
	return nil
}

func (s *Service) Submit(ctx context.Context, actor *models.Actor, id string) (*NoteView, error) {
	return s.transition(ctx, actor, id, moderation.Transition{Action: moderation.ActionSubmit})
}

func (s *Service) Approve(ctx context.Context, actor *models.Actor, in models.ReviewInput) (*NoteView, error) {
	if err := check("approve", in); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, in.NoteID, moderation.Transition{Action: moderation.ActionApprove, Notes: in.Notes})
}

func (s *Service) Reject(ctx context.Context, actor *models.Actor, in models.ReviewInput) (*NoteView, error) {
	if err := check("reject", in); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, in.NoteID, moderation.Transition{Action: moderation.ActionReject, Notes: in.Notes})
}

func (s *Service) transition(ctx context.Context, actor *models.Actor, id string, t moderation.Transition) (view *NoteView, err error) {
	defer func() { s.metrics.ObserveTransition(string(t.Action), outcome(err)) }()

	if actor == nil {
		return nil, moderation.Unauthenticated(string(t.Action))
	}
	cur, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	// A caller who cannot see the note learns nothing about its state.
	if err := s.policy.AuthorizeView(actor, *cur); err != nil {
		return nil, err
	}

	next, err := s.machine.Apply(actor, *cur, t)
	if err != nil {
		s.log.Debug().Err(err).Str("note_id", id).Str("actor_id", actor.ID).Msg("transition refused")
		return nil, err
	}
	if next.ReviewerID != nil {
		if err := s.store.UpsertActor(ctx, *actor); err != nil {
			return nil, err
		}
	}
	updated, err := s.store.UpdateNote(ctx, next, cur.Version)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("note_id", id).
		Str("actor_id", actor.ID).
		Str("action", string(t.Action)).
		Str("from", string(cur.Status)).
		Str("to", string(updated.Status)).
		Msg("note transitioned")
	s.publish(ctx, eventFor(t.Action, updated.Status), *updated, *actor)
	return s.view(actor, *updated), nil
}

// List returns one page of the notes the actor may see in scope. An empty
// scope selects the default for the actor.
func (s *Service) List(ctx context.Context, actor *models.Actor, scope moderation.Scope, page int) (*models.Page, error) {
	if scope == "" {
		scope = moderation.DefaultScope(actor)
	}
	filter, err := s.visibility.Filter(actor, scope, page)
	if err != nil {
		return nil, err
	}
	notes, total, err := s.store.ListNotes(ctx, filter)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return &models.Page{
		Notes:    notes,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
		HasMore:  int64(filter.Offset()+len(notes)) < total,
	}, nil
}

// Capabilities reports what actor may do with note without loading it.
func (s *Service) Capabilities(actor *models.Actor, note models.Note) moderation.Capabilities {
	return s.policy.Capabilities(actor, note)
}

func (s *Service) publish(ctx context.Context, eventType string, n models.Note, actor models.Actor) {
	if err := s.publisher.Publish(ctx, events.NewNoteEvent(eventType, n, actor)); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Str("note_id", n.ID).Msg("failed to publish note event")
	}
}

func eventFor(a moderation.Action, status models.Status) string {
	switch {
	case status == models.StatusPublished:
		return events.NotePublished
	case a == moderation.ActionReject:
		return events.NoteRejected
	default:
		return events.NoteSubmitted
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := moderation.KindOf(err); k != 0 {
		return k.String()
	}
	return "error"
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
