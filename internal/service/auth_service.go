package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/identity"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// AuthService coordinates the console sign-in flow: verify credentials,
// resolve the staff profile, and decide which console surface the
// session may land on.
type AuthService struct {
	idents   *identity.Context
	accounts *cache.Collection[domain.StaffAccount]
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(idents *identity.Context, accounts *cache.Collection[domain.StaffAccount], logger *zap.Logger) *AuthService {
	return &AuthService{idents: idents, accounts: accounts, logger: logger}
}

// SignInResult is the authenticated session plus the surface the role
// resolves to.
type SignInResult struct {
	Session *identity.Session
	Account domain.StaffAccount
	Surface string
}

// SignIn authenticates and resolves the caller's role. A credential
// match with no staff profile, or a disabled profile, is treated as a
// failed sign-in: the fresh session is revoked before returning.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, util.NewValidationError("email and password are required", nil)
	}

	session, err := s.idents.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, util.NewUnauthorized("invalid email or password")
		}
		return nil, util.ToDomainError(err)
	}

	account, err := s.accounts.Fetch(ctx, session.IdentityID)
	if err != nil {
		_ = s.idents.Revoke(ctx, session.Token)
		if errors.Is(err, docstore.ErrNotFound) {
			s.logger.Warn("sign-in without staff profile", zap.String("email", email))
			return nil, util.NewAuthError("no staff profile for this account", "profile_missing")
		}
		return nil, util.ToDomainError(err)
	}

	if account.Status == domain.AccountStatusDisabled {
		_ = s.idents.Revoke(ctx, session.Token)
		return nil, util.NewAuthError("account is disabled", "account_disabled")
	}

	s.logger.Info("staff signed in", zap.String("email", email), zap.String("role", string(account.Role)))
	return &SignInResult{
		Session: session,
		Account: account,
		Surface: surfaceFor(account.Role),
	}, nil
}

// SignOut revokes the given session token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.idents.Revoke(ctx, token)
}

// surfaceFor maps a role onto its console entry point.
func surfaceFor(role domain.Role) string {
	if role == domain.RoleDriver {
		return "/driver"
	}
	return "/admin"
}
