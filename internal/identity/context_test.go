package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBcryptCost = 4

func newTestContext() *Context {
	provider := NewMemoryProvider(testBcryptCost, 6)
	return NewContext(provider, NewMemorySessions(), NewTokenManager("test-secret", 60))
}

func TestSignInEstablishesCurrentSession(t *testing.T) {
	ctx := context.Background()
	authCtx := newTestContext()

	created, err := authCtx.CreateIdentity(ctx, "ops@example.com", "secret-pass")
	require.NoError(t, err)
	require.NoError(t, authCtx.SignOut(ctx))

	session, err := authCtx.SignIn(ctx, "ops@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, created.IdentityID, session.IdentityID)
	assert.Equal(t, session.Token, authCtx.Current().Token)

	resolved, err := authCtx.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.IdentityID, resolved.IdentityID)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	authCtx := newTestContext()

	_, err := authCtx.CreateIdentity(ctx, "ops@example.com", "secret-pass")
	require.NoError(t, err)

	_, err = authCtx.SignIn(ctx, "ops@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authCtx.SignIn(ctx, "nobody@example.com", "secret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateIdentitySwitchesCurrentSession(t *testing.T) {
	ctx := context.Background()
	authCtx := newTestContext()

	admin, err := authCtx.CreateIdentity(ctx, "admin@example.com", "secret-pass")
	require.NoError(t, err)
	require.Equal(t, admin.IdentityID, authCtx.Current().IdentityID)

	// The provider client's footgun: minting a credential on a signed-in
	// context replaces its current user.
	driver, err := authCtx.CreateIdentity(ctx, "driver@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, driver.IdentityID, authCtx.Current().IdentityID)
	assert.NotEqual(t, admin.IdentityID, authCtx.Current().IdentityID)
}

func TestCreateIdentityValidation(t *testing.T) {
	ctx := context.Background()
	authCtx := newTestContext()

	_, err := authCtx.CreateIdentity(ctx, "dup@example.com", "secret-pass")
	require.NoError(t, err)

	_, err = authCtx.CreateIdentity(ctx, "dup@example.com", "another-pass")
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = authCtx.CreateIdentity(ctx, "short@example.com", "abc")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignOutRevokesSessionAndNotifies(t *testing.T) {
	ctx := context.Background()
	authCtx := newTestContext()

	var states []*Session
	authCtx.OnAuthStateChanged(func(s *Session) { states = append(states, s) })

	session, err := authCtx.CreateIdentity(ctx, "ops@example.com", "secret-pass")
	require.NoError(t, err)
	require.NoError(t, authCtx.SignOut(ctx))

	assert.Nil(t, authCtx.Current())
	_, err = authCtx.Resolve(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.Len(t, states, 2)
	assert.NotNil(t, states[0])
	assert.Nil(t, states[1])
}

func TestSuppressMutesObservers(t *testing.T) {
	ctx := context.Background()
	authCtx := newTestContext()

	fired := 0
	authCtx.OnAuthStateChanged(func(*Session) { fired++ })

	authCtx.Suppress(true)
	_, err := authCtx.CreateIdentity(ctx, "ops@example.com", "secret-pass")
	require.NoError(t, err)
	require.NoError(t, authCtx.SignOut(ctx))
	authCtx.Suppress(false)

	assert.Zero(t, fired)

	_, err = authCtx.SignIn(ctx, "ops@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
}

func TestResolveRejectsForgedToken(t *testing.T) {
	ctx := context.Background()
	authCtx := newTestContext()

	_, err := authCtx.Resolve(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
