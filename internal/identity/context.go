package identity

import (
	"context"
	"sync"
)

// Observer receives auth-state changes on a Context. The session is nil
// on sign-out.
type Observer func(*Session)

// Context is one authentication context against the identity provider.
// A context tracks at most one current session; creating a credential
// through a context signs that context in as the new identity, which is
// exactly why provisioning must never run on the acting operator's
// context. Suppression mutes observer callbacks for the duration of a
// provisioning run so the primary context ignores transient auth-state
// noise.
type Context struct {
	provider Provider
	sessions SessionStore
	tokens   *TokenManager

	mu         sync.Mutex
	current    *Session
	observers  []Observer
	suppressed bool
}

// NewContext builds an authentication context. The session store choice
// is the context's persistence mode.
func NewContext(provider Provider, sessions SessionStore, tokens *TokenManager) *Context {
	return &Context{provider: provider, sessions: sessions, tokens: tokens}
}

// SignIn authenticates credentials and makes the resulting session this
// context's current session.
func (c *Context) SignIn(ctx context.Context, email, password string) (*Session, error) {
	id, err := c.provider.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, id, email)
}

// CreateIdentity registers a new credential and, mirroring the identity
// provider's client behavior, switches this context's current session to
// the newly created identity.
func (c *Context) CreateIdentity(ctx context.Context, email, password string) (*Session, error) {
	id, err := c.provider.CreateIdentity(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.establish(ctx, id, email)
}

// SignOut revokes and clears the current session.
func (c *Context) SignOut(ctx context.Context) error {
	c.mu.Lock()
	current := c.current
	c.current = nil
	c.mu.Unlock()

	if current != nil {
		if err := c.sessions.Delete(ctx, current.Token); err != nil {
			return err
		}
	}
	c.notify(nil)
	return nil
}

// Revoke deletes an arbitrary session token from this context's store,
// used by the auth gate to force sign-out of a rejected session. When
// the token happens to be this context's current session, the session
// is cleared as if the user signed out.
func (c *Context) Revoke(ctx context.Context, token string) error {
	c.mu.Lock()
	wasCurrent := c.current != nil && c.current.Token == token
	if wasCurrent {
		c.current = nil
	}
	c.mu.Unlock()

	if err := c.sessions.Delete(ctx, token); err != nil {
		return err
	}
	if wasCurrent {
		c.notify(nil)
	}
	return nil
}

// Resolve validates a bearer token and returns its live session.
func (c *Context) Resolve(ctx context.Context, token string) (*Session, error) {
	if _, err := c.tokens.ParseToken(token); err != nil {
		return nil, ErrSessionNotFound
	}
	return c.sessions.Get(ctx, token)
}

// Current returns this context's current session, nil when signed out.
func (c *Context) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// OnAuthStateChanged registers an observer.
func (c *Context) OnAuthStateChanged(fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Suppress toggles observer muting.
func (c *Context) Suppress(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suppressed = v
}

func (c *Context) establish(ctx context.Context, identityID, email string) (*Session, error) {
	token, expiresAt, err := c.tokens.GenerateToken(identityID, email)
	if err != nil {
		return nil, err
	}

	claims, err := c.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}

	session := Session{
		Token:      token,
		IdentityID: identityID,
		Email:      email,
		IssuedAt:   claims.IssuedAt.Time,
		ExpiresAt:  expiresAt,
	}
	if err := c.sessions.Put(ctx, session); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = &session
	c.mu.Unlock()

	c.notify(&session)
	return &session, nil
}

func (c *Context) notify(session *Session) {
	c.mu.Lock()
	if c.suppressed {
		c.mu.Unlock()
		return
	}
	observers := append([]Observer{}, c.observers...)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(session)
	}
}
