// Package requestctx carries per-request values the transport layer
// resolves once: the request ID and the authenticated actor.
package requestctx

import (
	"context"

	"github.com/teamworkfission/timebuddyv1-sub000/internal/domain/auth"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	actorKey     ctxKey = "actor"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithActor(ctx context.Context, user auth.UserContext) context.Context {
	return context.WithValue(ctx, actorKey, user)
}

func GetActor(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(actorKey).(auth.UserContext)
	return user, ok
}
