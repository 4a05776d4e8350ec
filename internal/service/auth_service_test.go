package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
)

func TestSignInResolvesSurfaceByRole(t *testing.T) {
	f := newFixture(t)
	idents := newTestIdentity()
	svc := NewAuthService(idents, f.accounts, zap.NewNop())
	ctx := context.Background()

	session, err := idents.CreateIdentity(ctx, "driver@example.com", "secret99")
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, docstore.CollectionStaffAccounts, session.IdentityID, map[string]any{
		"email": "driver@example.com", "name": "Pat Driver", "role": "driver", "status": "active",
	}))

	result, err := svc.SignIn(ctx, "Driver@Example.com ", "secret99")
	require.NoError(t, err)
	require.Equal(t, "/driver", result.Surface)
	require.Equal(t, domain.RoleDriver, result.Account.Role)
}

func TestSignInRevokesSessionWithoutProfile(t *testing.T) {
	f := newFixture(t)
	idents := newTestIdentity()
	svc := NewAuthService(idents, f.accounts, zap.NewNop())
	ctx := context.Background()

	_, err := idents.CreateIdentity(ctx, "ghost@example.com", "secret99")
	require.NoError(t, err)
	require.NoError(t, idents.SignOut(ctx))

	_, err = svc.SignIn(ctx, "ghost@example.com", "secret99")
	require.Error(t, err)
	require.Nil(t, idents.Current(), "failed sign-in must not leave a live session")
}

func TestSignInRejectsDisabledAccount(t *testing.T) {
	f := newFixture(t)
	idents := newTestIdentity()
	svc := NewAuthService(idents, f.accounts, zap.NewNop())
	ctx := context.Background()

	session, err := idents.CreateIdentity(ctx, "benched@example.com", "secret99")
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, docstore.CollectionStaffAccounts, session.IdentityID, map[string]any{
		"email": "benched@example.com", "name": "Benched", "role": "admin", "status": "disabled",
	}))
	require.NoError(t, idents.SignOut(ctx))

	_, err = svc.SignIn(ctx, "benched@example.com", "secret99")
	require.Error(t, err)
}

func TestSignInRejectsBadPassword(t *testing.T) {
	f := newFixture(t)
	idents := newTestIdentity()
	svc := NewAuthService(idents, f.accounts, zap.NewNop())
	ctx := context.Background()

	_, err := idents.CreateIdentity(ctx, "admin@example.com", "secret99")
	require.NoError(t, err)
	require.NoError(t, idents.SignOut(ctx))

	_, err = svc.SignIn(ctx, "admin@example.com", "wrong")
	require.Error(t, err)
}
