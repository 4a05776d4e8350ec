package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/events"
	"github.com/beyond-borders/ops-console/internal/identity"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// ProvisionService creates staff accounts without disturbing the
// operator's own session. The identity provider's client switches its
// current session to whatever account it just created, so provisioning
// runs against a secondary identity context with an isolated, ephemeral
// session store. The operator's primary context never sees the new
// credentials; its auth observers are muted for the duration anyway, so
// nothing downstream reacts to transient churn.
//
// Provisioning runs are serialized: the secondary context holds exactly
// one current session, and two concurrent runs would race on it.
type ProvisionService struct {
	primary    *identity.Context
	secondary  *identity.Context
	accounts   *cache.Collection[domain.StaffAccount]
	drivers    *cache.Collection[domain.DriverProfile]
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu sync.Mutex
}

// ProvisionDependencies bundles collaborators for the provisioner.
type ProvisionDependencies struct {
	Primary    *identity.Context
	Secondary  *identity.Context
	Accounts   *cache.Collection[domain.StaffAccount]
	Drivers    *cache.Collection[domain.DriverProfile]
	Dispatcher events.Dispatcher
}

// NewProvisionService builds the service.
func NewProvisionService(deps ProvisionDependencies, logger *zap.Logger) *ProvisionService {
	return &ProvisionService{
		primary:    deps.Primary,
		secondary:  deps.Secondary,
		accounts:   deps.Accounts,
		drivers:    deps.Drivers,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ProvisionInput describes a new staff account.
type ProvisionInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	License  string
	Vehicle  string
	Notes    string
	Role     domain.Role
}

func (in ProvisionInput) validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "required"
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		details["email"] = "must be a valid email"
	}
	if in.Password == "" {
		details["password"] = "required"
	}
	if in.Role != domain.RoleDriver && in.Role != domain.RoleAdmin {
		details["role"] = "must be driver or admin"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid staff account", details)
	}
	return nil
}

// Provision registers the credentials and writes the staff profile,
// keyed by the new identity's uid. Driver accounts additionally get a
// record in the drivers collection for the join resolver.
//
// The credential write and the profile writes are not atomic. If a
// profile write fails the new identity is left behind with no profile;
// the error reports the orphaned uid so an operator can clean it up,
// and the auth gate refuses the credential in the meantime.
func (s *ProvisionService) Provision(ctx context.Context, actor events.Actor, in ProvisionInput) (domain.StaffAccount, error) {
	if err := in.validate(); err != nil {
		return domain.StaffAccount{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.primary.Suppress(true)
	defer s.primary.Suppress(false)

	email := strings.ToLower(strings.TrimSpace(in.Email))
	session, err := s.secondary.CreateIdentity(ctx, email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailInUse):
			return domain.StaffAccount{}, util.NewConflict("email already registered", map[string]any{"email": email})
		case errors.Is(err, identity.ErrWeakPassword):
			return domain.StaffAccount{}, util.NewValidationError("password too short", nil)
		default:
			return domain.StaffAccount{}, util.ToDomainError(err)
		}
	}
	uid := session.IdentityID
	defer s.signOutSecondary(ctx)

	account := domain.StaffAccount{
		Email:   email,
		Name:    strings.TrimSpace(in.Name),
		Role:    in.Role,
		Phone:   strings.TrimSpace(in.Phone),
		License: in.License,
		Vehicle: in.Vehicle,
		Notes:   in.Notes,
		Status:  domain.AccountStatusActive,
	}
	created, err := s.accounts.Create(ctx, uid, account)
	if err != nil {
		s.logger.Error("staff profile write failed after identity creation",
			zap.String("uid", uid), zap.String("email", email), zap.Error(err))
		return domain.StaffAccount{}, util.NewProvisioningError(
			"identity created but staff profile write failed",
			map[string]any{"orphanedUid": uid},
			err,
		)
	}

	if in.Role == domain.RoleDriver {
		profile := domain.DriverProfile{
			Name:    created.Name,
			Email:   created.Email,
			Phone:   created.Phone,
			License: created.License,
			Vehicle: created.Vehicle,
			Notes:   created.Notes,
			Status:  domain.AccountStatusActive,
		}
		if _, err := s.drivers.Create(ctx, uid, profile); err != nil {
			s.logger.Error("driver record write failed after identity creation",
				zap.String("uid", uid), zap.String("email", email), zap.Error(err))
			return domain.StaffAccount{}, util.NewProvisioningError(
				"identity created but driver record write failed",
				map[string]any{"orphanedUid": uid},
				err,
			)
		}
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDriverProvisioned,
		EntityID:  uid,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   events.DriverProvisionedPayload{Email: email},
	})
	s.logger.Info("staff account provisioned",
		zap.String("uid", uid), zap.String("email", email), zap.String("role", string(in.Role)))
	return created, nil
}

// signOutSecondary discards the shadow session minted by CreateIdentity
// so the secondary context is clean for the next run.
func (s *ProvisionService) signOutSecondary(ctx context.Context) {
	if err := s.secondary.SignOut(ctx); err != nil {
		s.logger.Warn("secondary context sign-out failed", zap.Error(err))
	}
}
