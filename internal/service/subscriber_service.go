package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// SubscriberService manages newsletter signups captured by the
// marketing site.
type SubscriberService struct {
	subscribers *cache.Collection[domain.Subscriber]
	logger      *zap.Logger
}

// NewSubscriberService builds the service.
func NewSubscriberService(subscribers *cache.Collection[domain.Subscriber], logger *zap.Logger) *SubscriberService {
	return &SubscriberService{subscribers: subscribers, logger: logger}
}

// List returns subscribers, newest signup first.
func (s *SubscriberService) List(ctx context.Context) ([]domain.Subscriber, error) {
	if err := s.subscribers.Ensure(ctx); err != nil {
		return nil, util.ToDomainError(err)
	}
	items := s.subscribers.Items()
	sort.Slice(items, func(i, j int) bool { return items[i].Date > items[j].Date })
	return items, nil
}

// Add registers a signup. Duplicate emails are rejected so a retried
// form post cannot double-count a subscriber.
func (s *SubscriberService) Add(ctx context.Context, email, source string) (domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return domain.Subscriber{}, util.NewValidationError("invalid subscriber", map[string]any{"email": "must be a valid email"})
	}

	if err := s.subscribers.Ensure(ctx); err != nil {
		return domain.Subscriber{}, util.ToDomainError(err)
	}
	dupes := s.subscribers.Search(func(sub domain.Subscriber) bool {
		return strings.EqualFold(sub.Email, email)
	})
	if len(dupes) > 0 {
		return domain.Subscriber{}, util.NewConflict("email already subscribed", map[string]any{"email": email})
	}

	created, err := s.subscribers.Create(ctx, "", domain.Subscriber{
		Email:  email,
		Date:   time.Now().UTC().Format(dateLayout),
		Source: source,
	})
	if err != nil {
		return domain.Subscriber{}, util.ToDomainError(err)
	}
	return created, nil
}

// Delete removes a subscriber. Deleting a missing id succeeds.
func (s *SubscriberService) Delete(ctx context.Context, id string) error {
	if err := s.subscribers.Delete(ctx, id); err != nil {
		return util.ToDomainError(err)
	}
	return nil
}
