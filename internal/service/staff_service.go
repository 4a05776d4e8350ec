package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/events"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// StaffService manages driver and admin accounts after provisioning.
// Driver data lives twice: the staffAccounts document is the
// authorization subject, the drivers document is the display record the
// join resolver reads. Updates keep the two in step.
type StaffService struct {
	accounts   *cache.Collection[domain.StaffAccount]
	drivers    *cache.Collection[domain.DriverProfile]
	tasks      *TaskService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// StaffDependencies bundles collaborators for the staff service.
type StaffDependencies struct {
	Accounts   *cache.Collection[domain.StaffAccount]
	Drivers    *cache.Collection[domain.DriverProfile]
	Tasks      *TaskService
	Dispatcher events.Dispatcher
}

// NewStaffService builds the service.
func NewStaffService(deps StaffDependencies, logger *zap.Logger) *StaffService {
	return &StaffService{
		accounts:   deps.Accounts,
		drivers:    deps.Drivers,
		tasks:      deps.Tasks,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListDrivers returns the driver snapshot.
func (s *StaffService) ListDrivers(ctx context.Context) ([]domain.DriverProfile, error) {
	if err := s.drivers.Ensure(ctx); err != nil {
		return nil, util.ToDomainError(err)
	}
	return s.drivers.Items(), nil
}

// SearchDrivers filters the cached snapshot by name, email or vehicle.
func (s *StaffService) SearchDrivers(ctx context.Context, term string) ([]domain.DriverProfile, error) {
	if err := s.drivers.Ensure(ctx); err != nil {
		return nil, util.ToDomainError(err)
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.drivers.Items(), nil
	}
	return s.drivers.Search(func(d domain.DriverProfile) bool {
		return strings.Contains(strings.ToLower(d.Name), term) ||
			strings.Contains(strings.ToLower(d.Email), term) ||
			strings.Contains(strings.ToLower(d.Vehicle), term)
	}), nil
}

// DriverDetail is the driver record with their workload attached.
type DriverDetail struct {
	Profile domain.DriverProfile `json:"profile"`
	Stats   domain.TaskStats     `json:"stats"`
	Tasks   []domain.Task        `json:"tasks"`
}

// GetDriver returns one driver with tasks and completion stats.
func (s *StaffService) GetDriver(ctx context.Context, id string) (DriverDetail, error) {
	profile, err := s.drivers.Fetch(ctx, id)
	if err != nil {
		return DriverDetail{}, mapStoreError("driver", err)
	}
	tasks, err := s.tasks.ListForDriver(ctx, id)
	if err != nil {
		return DriverDetail{}, err
	}
	return DriverDetail{
		Profile: profile,
		Stats:   domain.ComputeTaskStats(tasks),
		Tasks:   tasks,
	}, nil
}

// DriverUpdateInput describes editable driver fields. Email and role
// are fixed at provisioning time.
type DriverUpdateInput struct {
	Name    string
	Phone   string
	License string
	Vehicle string
	Notes   string
}

// UpdateDriver writes the change to both the drivers record and the
// staff account so the authorization subject and the display record
// stay consistent.
func (s *StaffService) UpdateDriver(ctx context.Context, id string, in DriverUpdateInput) (domain.DriverProfile, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.DriverProfile{}, util.NewValidationError("invalid driver", map[string]any{"name": "required"})
	}

	fields := map[string]any{
		"name":    strings.TrimSpace(in.Name),
		"phone":   strings.TrimSpace(in.Phone),
		"license": in.License,
		"vehicle": in.Vehicle,
		"notes":   in.Notes,
	}
	profile, err := s.drivers.Update(ctx, id, fields)
	if err != nil {
		return domain.DriverProfile{}, mapStoreError("driver", err)
	}
	if _, err := s.accounts.Update(ctx, id, fields); err != nil {
		return domain.DriverProfile{}, mapStoreError("staff account", err)
	}
	return profile, nil
}

// DeleteDriver removes the driver record, the staff account and every
// task assigned to the driver. The identity credentials are not
// removed; with the profile gone the auth gate revokes any session that
// still presents them.
func (s *StaffService) DeleteDriver(ctx context.Context, actor events.Actor, id string) error {
	removed, err := s.tasks.DeleteForDriver(ctx, id)
	if err != nil {
		return err
	}
	if err := s.drivers.Delete(ctx, id); err != nil {
		return util.ToDomainError(err)
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return util.ToDomainError(err)
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccountDeactivated,
		EntityID:  id,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})
	s.logger.Info("driver deleted",
		zap.String("driver_id", id), zap.Int("tasks_removed", removed))
	return nil
}

// ListAdmins returns admin and super accounts.
func (s *StaffService) ListAdmins(ctx context.Context) ([]domain.StaffAccount, error) {
	if err := s.accounts.Ensure(ctx); err != nil {
		return nil, util.ToDomainError(err)
	}
	return s.accounts.Search(func(a domain.StaffAccount) bool {
		return a.Role == domain.RoleAdmin || a.Role == domain.RoleSuper
	}), nil
}

// DeleteAdmin removes an admin account. The caller can never delete
// their own account, and super accounts cannot be deleted through the
// console at all.
func (s *StaffService) DeleteAdmin(ctx context.Context, actor events.Actor, callerID, id string) error {
	if callerID == id {
		return util.NewForbidden("cannot delete your own account")
	}
	account, err := s.accounts.Fetch(ctx, id)
	if err != nil {
		return mapStoreError("staff account", err)
	}
	if account.Role == domain.RoleSuper {
		return util.NewForbidden("super accounts cannot be deleted")
	}
	if account.Role != domain.RoleAdmin {
		return util.NewValidationError("not an admin account", map[string]any{"role": string(account.Role)})
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return util.ToDomainError(err)
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccountDeactivated,
		EntityID:  id,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})
	s.logger.Info("admin deleted", zap.String("account_id", id), zap.String("email", account.Email))
	return nil
}

// SetAccountStatus enables or disables an account. Disabling keeps the
// records but locks the account out at the gate. Drivers get the status
// mirrored onto their display record.
func (s *StaffService) SetAccountStatus(ctx context.Context, actor events.Actor, id string, status domain.AccountStatus) (domain.StaffAccount, error) {
	if status != domain.AccountStatusActive && status != domain.AccountStatusDisabled {
		return domain.StaffAccount{}, util.NewValidationError("unknown account status", map[string]any{"status": string(status)})
	}

	account, err := s.accounts.Update(ctx, id, map[string]any{"status": string(status)})
	if err != nil {
		return domain.StaffAccount{}, mapStoreError("staff account", err)
	}
	if account.Role == domain.RoleDriver {
		if _, err := s.drivers.Update(ctx, id, map[string]any{"status": string(status)}); err != nil {
			return domain.StaffAccount{}, mapStoreError("driver", err)
		}
	}

	if status == domain.AccountStatusDisabled {
		s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAccountDeactivated,
			EntityID:  id,
			Actor:     actor,
			Timestamp: time.Now().UTC(),
		})
	}
	return account, nil
}
