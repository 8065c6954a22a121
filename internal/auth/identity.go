package auth

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Role is the coarse permission level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	// ErrAuthenticationRequired is returned when an operation needs a session and none was resolved.
	ErrAuthenticationRequired = eris.New("authentication required")
	// ErrAuthorizationDenied is returned when the resolved session lacks the required role.
	ErrAuthorizationDenied = eris.New("insufficient role")
	// ErrInvalidRole is returned when a role string is not one of the known roles.
	ErrInvalidRole = eris.New("invalid role")
)

// ParseRole normalises a role name. Matching is case-insensitive.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", eris.Wrapf(ErrInvalidRole, "parsing role %q", value)
	}
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uint
	Role   Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Require is the single authorization predicate: a nil identity is rejected with
// ErrAuthenticationRequired, an identity ranked below role with ErrAuthorizationDenied.
func Require(identity *Identity, role Role) error {
	if identity == nil || identity.UserID == 0 {
		return ErrAuthenticationRequired
	}

	if identity.Role.rank() < role.rank() {
		return eris.Wrapf(ErrAuthorizationDenied, "role %s required", role)
	}

	return nil
}

type contextKey string

const identityContextKey contextKey = "afterlife/identity"

// WithIdentity stores the resolved identity in the context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// FromContext returns the identity resolved for the request, or nil for anonymous callers.
func FromContext(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	if identity, ok := ctx.Value(identityContextKey).(*Identity); ok {
		return identity
	}
	return nil
}
