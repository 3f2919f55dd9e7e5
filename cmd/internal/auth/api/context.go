package authapi

import "context"

// Identity is the caller identity established by the session gate.
type Identity struct {
	UserID string
}

type contextKey struct{ name string }

var identityKey = contextKey{name: "authapi.identity"}

// WithIdentity returns a child context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the identity established by RequireAuth, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
