// Package auth guards the console's HTTP surface. Every protected
// route passes the gate: a bearer token is resolved to a session, the
// session's staff profile is loaded, and the profile's role decides
// which sections the request may reach. A session whose profile is
// missing or whose role is not allowed is revoked on the spot, so the
// caller lands back at sign-in instead of retrying a dead token.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/identity"
	"github.com/beyond-borders/ops-console/pkg/util"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to the request.
type Principal struct {
	Session *identity.Session
	Account domain.StaffAccount
}

// Gate resolves bearer tokens into principals.
type Gate struct {
	idents   *identity.Context
	accounts *cache.Collection[domain.StaffAccount]
	logger   *zap.Logger
}

func NewGate(idents *identity.Context, accounts *cache.Collection[domain.StaffAccount], logger *zap.Logger) *Gate {
	return &Gate{idents: idents, accounts: accounts, logger: logger}
}

// Authenticate is the base middleware for all protected routes. It
// never checks roles; pair it with RequireRole per route group.
func (g *Gate) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}

		session, err := g.idents.Resolve(c.UserContext(), token)
		if err != nil {
			return util.NewUnauthorized("session expired or invalid")
		}

		account, err := g.accounts.Fetch(c.UserContext(), session.IdentityID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				// Identity exists but no staff profile does. The token
				// is useless, so revoke it rather than letting the
				// client loop on a 401.
				g.revoke(c.UserContext(), token, session.Email, "profile_missing")
				return util.NewAuthError("no staff profile for this account", "profile_missing")
			}
			return util.ToDomainError(err)
		}

		if account.Status == domain.AccountStatusDisabled {
			g.revoke(c.UserContext(), token, session.Email, "account_disabled")
			return util.NewAuthError("account is disabled", "account_disabled")
		}

		c.Locals(principalKey, &Principal{Session: session, Account: account})
		return c.Next()
	}
}

// RequireRole restricts a route group to the given roles. A principal
// holding the wrong role is signed out, not merely refused: the console
// treats a role mismatch as a session that should never have reached
// this surface.
func (g *Gate) RequireRole(roles ...domain.Role) fiber.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		p := CurrentPrincipal(c)
		if p == nil {
			return util.NewUnauthorized("not authenticated")
		}
		if _, ok := allowed[p.Account.Role]; !ok {
			g.revoke(c.UserContext(), p.Session.Token, p.Session.Email, "role_denied")
			return util.NewAuthError("role not permitted for this section", "role_denied")
		}
		return c.Next()
	}
}

// CurrentPrincipal returns the principal set by Authenticate, or nil.
func CurrentPrincipal(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(principalKey).(*Principal)
	return p
}

func (g *Gate) revoke(ctx context.Context, token, email, reason string) {
	if err := g.idents.Revoke(ctx, token); err != nil {
		g.logger.Warn("failed to revoke session", zap.String("email", email), zap.Error(err))
		return
	}
	g.logger.Info("session revoked", zap.String("email", email), zap.String("reason", reason))
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", util.NewUnauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", util.NewUnauthorized("malformed authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
