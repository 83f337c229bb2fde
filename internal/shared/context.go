package shared

import (
	"context"

	"github.com/salescope/salescope/internal/authz"
)

type sessionContextKey struct{}

type subjectContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// ContextWithSubject stores the resolved authorization subject in context.
func ContextWithSubject(ctx context.Context, subject *authz.Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subject)
}

// SubjectFromContext extracts the authorization subject from context.
// Returns nil when the request is unauthenticated.
func SubjectFromContext(ctx context.Context) *authz.Subject {
	subject, _ := ctx.Value(subjectContextKey{}).(*authz.Subject)
	return subject
}
