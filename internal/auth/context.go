package auth

import (
	"context"

	"dovakin0007.com/notes-moderation/internal/models"
)

type actorKey struct{}

// WithActor stores the authenticated caller on ctx.
func WithActor(ctx context.Context, actor *models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the caller stored on ctx, or nil for an anonymous call.
func ActorFrom(ctx context.Context) *models.Actor {
	a, _ := ctx.Value(actorKey{}).(*models.Actor)
	return a
}
