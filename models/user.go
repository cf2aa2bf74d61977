package models

import "context"

// User is the authenticated principal propagated by the edge proxy or a service token.
// It is never persisted.
type User struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Source      string   `json:"source"` // "cloudflare", "token" or "dev"
	Permissions []string `json:"permissions"`
}

// HasPermission checks the permission keys granted to the user.
func (u *User) HasPermission(permission string) bool {
	if u == nil {
		return false
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

type userContextKey struct{}

// ContextWithUser stores the principal for downstream handlers and services.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the principal set by the identity middleware, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
