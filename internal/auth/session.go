package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

const tokenIssuer = "afterlife"

// ErrInvalidSession is returned when a session token cannot be verified.
var ErrInvalidSession = eris.New("invalid session token")

// TokenOptions configures session token signing.
type TokenOptions struct {
	Secret string
	TTL    time.Duration
}

// Tokens issues and verifies signed session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type sessionClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// NewTokens constructs a token issuer.
func NewTokens(opts TokenOptions) (*Tokens, error) {
	if strings.TrimSpace(opts.Secret) == "" {
		return nil, eris.New("session secret is required")
	}
	if opts.TTL <= 0 {
		return nil, eris.New("session TTL must be greater than zero")
	}

	return &Tokens{
		secret: []byte(opts.Secret),
		ttl:    opts.TTL,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a session token for the user.
func (t *Tokens) Issue(userID uint, role Role) (string, time.Time, error) {
	if userID == 0 {
		return "", time.Time{}, eris.New("user id is required")
	}

	issuedAt := t.now()
	expiresAt := issuedAt.Add(t.ttl)

	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, eris.Wrap(err, "signing session token")
	}

	return signed, expiresAt, nil
}

// Parse verifies a token and returns the identity it names.
func (t *Tokens) Parse(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = ErrInvalidSession
		}
		return nil, eris.Wrap(ErrInvalidSession, err.Error())
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, eris.Wrap(ErrInvalidSession, "session subject is not a user id")
	}

	return &Identity{UserID: uint(userID), Role: claims.Role}, nil
}

// TokenFromRequest extracts the session token from the Authorization header or the session cookie.
func TokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}

	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}

	return ""
}

// RoleLookup returns the current role of a stored user.
type RoleLookup interface {
	RoleForUser(ctx context.Context, userID uint) (Role, error)
}

// Resolver turns a raw session token into an identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) *Identity
}

// SessionResolver verifies tokens and refreshes the role from the user store.
type SessionResolver struct {
	tokens *Tokens
	roles  RoleLookup
	logger *logrus.Logger
}

var _ Resolver = (*SessionResolver)(nil)

// NewSessionResolver constructs a resolver. roles may be nil, in which case the role embedded
// in the token is trusted.
func NewSessionResolver(tokens *Tokens, roles RoleLookup, logger *logrus.Logger) (*SessionResolver, error) {
	if tokens == nil {
		return nil, eris.New("session tokens are required")
	}

	return &SessionResolver{tokens: tokens, roles: roles, logger: logger}, nil
}

// Resolve returns the identity for token, or nil when the token is absent, invalid, expired or
// names a user that no longer exists.
func (r *SessionResolver) Resolve(ctx context.Context, token string) *Identity {
	if strings.TrimSpace(token) == "" {
		return nil
	}

	identity, err := r.tokens.Parse(token)
	if err != nil {
		r.logDebug(nil, err, "rejecting session token")
		return nil
	}

	if r.roles == nil {
		return identity
	}

	role, err := r.roles.RoleForUser(ctx, identity.UserID)
	if err != nil {
		r.logDebug(logrus.Fields{"user_id": identity.UserID}, err, "resolving session user")
		return nil
	}

	identity.Role = role
	return identity
}

func (r *SessionResolver) logDebug(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Debug(message)
}
