package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()

	tokens, err := NewTokens(TokenOptions{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	return tokens
}

func TestNewTokensValidatesOptions(t *testing.T) {
	t.Parallel()

	_, err := NewTokens(TokenOptions{TTL: time.Hour})
	assert.Error(t, err)

	_, err = NewTokens(TokenOptions{Secret: "s"})
	assert.Error(t, err)
}

func TestTokensRoundTrip(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t)

	token, expiresAt, err := tokens.Issue(42, RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	identity, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.UserID)
	assert.Equal(t, RoleAdmin, identity.Role)
}

func TestTokensRejectExpired(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tokens.Issue(1, RoleUser)
	require.NoError(t, err)

	_, err = tokens.Parse(token)
	assert.True(t, eris.Is(err, ErrInvalidSession))
}

func TestTokensRejectForeignSignature(t *testing.T) {
	t.Parallel()

	other, err := NewTokens(TokenOptions{Secret: "other-secret", TTL: time.Hour})
	require.NoError(t, err)

	token, _, err := other.Issue(1, RoleAdmin)
	require.NoError(t, err)

	_, err = newTestTokens(t).Parse(token)
	assert.Error(t, err)
}

func TestTokenFromRequestPrefersBearer(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	assert.Equal(t, "header-token", TokenFromRequest(req))
}

func TestTokenFromRequestFallsBackToCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	assert.Equal(t, "cookie-token", TokenFromRequest(req))
	assert.Equal(t, "", TokenFromRequest(httptest.NewRequest("GET", "/", nil)))
}

type stubRoles struct {
	role Role
	err  error
}

func (s stubRoles) RoleForUser(context.Context, uint) (Role, error) {
	return s.role, s.err
}

func TestSessionResolverRefreshesRole(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t)
	token, _, err := tokens.Issue(7, RoleUser)
	require.NoError(t, err)

	resolver, err := NewSessionResolver(tokens, stubRoles{role: RoleAdmin}, nil)
	require.NoError(t, err)

	identity := resolver.Resolve(context.Background(), token)
	require.NotNil(t, identity)
	assert.Equal(t, RoleAdmin, identity.Role)
}

func TestSessionResolverDropsUnknownUsers(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t)
	token, _, err := tokens.Issue(7, RoleAdmin)
	require.NoError(t, err)

	resolver, err := NewSessionResolver(tokens, stubRoles{err: eris.New("user not found")}, nil)
	require.NoError(t, err)

	assert.Nil(t, resolver.Resolve(context.Background(), token))
	assert.Nil(t, resolver.Resolve(context.Background(), "garbage"))
	assert.Nil(t, resolver.Resolve(context.Background(), ""))
}
