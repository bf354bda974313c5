package auth

import "context"

type contextKey string

const (
	contextKeyPerson contextKey = "auth.person"
	contextKeyRole   contextKey = "auth.role"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, person string, role Role) context.Context {
	ctx = context.WithValue(ctx, contextKeyPerson, person)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	return ctx
}

// PersonFromContext extracts the authenticated person from context.
func PersonFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if person, ok := ctx.Value(contextKeyPerson).(string); ok {
		return person
	}
	return ""
}

// RoleFromContext extracts role from context.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	if role, ok := ctx.Value(contextKeyRole).(Role); ok {
		return role
	}
	return ""
}
