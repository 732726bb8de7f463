// Package requestcontext carries request-scoped values without depending on
// net/http. Middleware and sweep workers put values in; services read them.
//
//	now := requestcontext.Now(ctx)
//	ctx = requestcontext.WithTime(ctx, batchTime)
package requestcontext

import (
	"context"
	"time"

	id "matchday/pkg/domain"
)

type key int

const (
	keyUserID key = iota
	keyRequestID
	keyRequestTime
)

// UserID returns the authenticated user, or the zero id when there is none.
func UserID(ctx context.Context) id.UserID {
	userID, _ := ctx.Value(keyUserID).(id.UserID)
	return userID
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(keyRequestID).(string)
	return reqID
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// Now returns the time pinned on ctx, falling back to the wall clock.
// Every decision within one request or one sweep batch uses the same instant.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the time seen by Now.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyRequestTime, t)
}
