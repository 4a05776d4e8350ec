package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/identity"
	"github.com/beyond-borders/ops-console/pkg/util"
)

type gateFixture struct {
	app    *fiber.App
	idents *identity.Context
	store  docstore.Store
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	provider := identity.NewMemoryProvider(4, 6)
	idents := identity.NewContext(provider, identity.NewMemorySessions(), identity.NewTokenManager("test-secret", 60))
	store := docstore.NewMemory()
	accounts := cache.NewCollection(store, docstore.CollectionStaffAccounts, func(a domain.StaffAccount) string { return a.ID })
	gate := NewGate(idents, accounts, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := util.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code, "message": de.Message})
		},
	})
	app.Use(gate.Authenticate())
	admin := app.Group("/admin", gate.RequireRole(domain.RoleAdmin, domain.RoleSuper))
	admin.Get("/bookings", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"role": string(CurrentPrincipal(c).Account.Role)})
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": CurrentPrincipal(c).Account.Email})
	})

	return &gateFixture{app: app, idents: idents, store: store}
}

// signUp registers an identity and, unless role is empty, a matching
// staff profile keyed by the identity id.
func (f *gateFixture) signUp(t *testing.T, email string, role domain.Role, status domain.AccountStatus) string {
	t.Helper()
	ctx := context.Background()

	session, err := f.idents.CreateIdentity(ctx, email, "secret99")
	require.NoError(t, err)

	if role != "" {
		err = f.store.Set(ctx, docstore.CollectionStaffAccounts, session.IdentityID, map[string]any{
			"email": email, "name": "Test User", "role": string(role), "status": string(status),
		})
		require.NoError(t, err)
	}
	return session.Token
}

func (f *gateFixture) request(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGateAdmitsAdmin(t *testing.T) {
	f := newGateFixture(t)
	token := f.signUp(t, "admin@example.com", domain.RoleAdmin, domain.AccountStatusActive)

	resp := f.request(t, "/admin/bookings", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateRejectsMissingToken(t *testing.T) {
	f := newGateFixture(t)

	resp := f.request(t, "/me", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateForcesSignOutOnRoleDenied(t *testing.T) {
	f := newGateFixture(t)
	token := f.signUp(t, "driver@example.com", domain.RoleDriver, domain.AccountStatusActive)

	resp := f.request(t, "/admin/bookings", token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The session is revoked, so even permitted routes now refuse it.
	resp = f.request(t, "/me", token)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateForcesSignOutOnMissingProfile(t *testing.T) {
	f := newGateFixture(t)
	token := f.signUp(t, "ghost@example.com", "", domain.AccountStatusActive)

	resp := f.request(t, "/me", token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, "/me", token)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateRejectsDisabledAccount(t *testing.T) {
	f := newGateFixture(t)
	token := f.signUp(t, "benched@example.com", domain.RoleAdmin, domain.AccountStatusDisabled)

	resp := f.request(t, "/me", token)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
