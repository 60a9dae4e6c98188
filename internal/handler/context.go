package handler

import (
	"context"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
)

type ContextKey string

var (
	SessionCtxKey    ContextKey = "session"
	SessionIDCtxKey  ContextKey = "sessionID"
	TransferIDCtxKey ContextKey = "transferID"
)

// currentSession is nil when the request carries no live session.
func currentSession(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(SessionCtxKey).(*domain.Session)
	return s
}

func currentSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDCtxKey).(string)
	return id
}
