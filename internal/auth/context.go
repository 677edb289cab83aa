package auth

import "context"

type currentUserContextKey struct{}

// ContextWithCurrentUser attaches the resolved identity to the context.
func ContextWithCurrentUser(ctx context.Context, user *CurrentUser) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, currentUserContextKey{}, user)
}

// CurrentUserFromContext extracts the resolved identity, if present.
func CurrentUserFromContext(ctx context.Context) (*CurrentUser, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(currentUserContextKey{}).(*CurrentUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
