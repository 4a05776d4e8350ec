package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/events"
	"github.com/beyond-borders/ops-console/pkg/util"
)

const dateLayout = "2006-01-02"

// phonePattern splits a dialing prefix off a raw phone string. Anything
// that does not start with +<digits> is kept whole as the local number.
var phonePattern = regexp.MustCompile(`^(\+\d{1,4})\s*(.+)$`)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParsePhone splits a raw phone string into country code and local
// number.
func ParsePhone(raw string) (countryCode, local string) {
	raw = strings.TrimSpace(raw)
	if m := phonePattern.FindStringSubmatch(raw); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return "", raw
}

// BookingService coordinates booking workflows.
type BookingService struct {
	bookings   *cache.Collection[domain.Booking]
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewBookingService builds the service.
func NewBookingService(bookings *cache.Collection[domain.Booking], dispatcher events.Dispatcher, logger *zap.Logger) *BookingService {
	return &BookingService{bookings: bookings, dispatcher: dispatcher, logger: logger}
}

// BookingInput describes booking create/update payloads.
type BookingInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	PackageName string
	StartDate   string
	EndDate     string
	Travelers   int
	Addon       string
	Status      domain.BookingStatus
	Message     string
}

func (in BookingInput) validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.FirstName) == "" {
		details["firstName"] = "required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		details["lastName"] = "required"
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		details["email"] = "must be a valid email"
	}
	if strings.TrimSpace(in.PackageName) == "" {
		details["packageName"] = "required"
	}
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		details["startDate"] = "must be YYYY-MM-DD"
	}
	if in.EndDate != "" {
		end, endErr := time.Parse(dateLayout, in.EndDate)
		switch {
		case endErr != nil:
			details["endDate"] = "must be YYYY-MM-DD"
		case err == nil && end.Before(start):
			details["endDate"] = "must not precede startDate"
		}
	}
	if in.Travelers < 1 {
		details["travelers"] = "must be at least 1"
	}
	if !in.Status.Valid() {
		details["status"] = "unknown status"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid booking", details)
	}
	return nil
}

// List returns the booking snapshot, newest travel date first.
func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	if err := s.bookings.Ensure(ctx); err != nil {
		return nil, util.ToDomainError(err)
	}
	items := s.bookings.Items()
	sort.Slice(items, func(i, j int) bool { return items[i].StartDate > items[j].StartDate })
	return items, nil
}

// Get returns one booking by id, reading through to the store.
func (s *BookingService) Get(ctx context.Context, id string) (domain.Booking, error) {
	b, err := s.bookings.Fetch(ctx, id)
	if err != nil {
		return domain.Booking{}, mapStoreError("booking", err)
	}
	return b, nil
}

// Search filters the cached snapshot by client name, email or package.
// It never queries the store.
func (s *BookingService) Search(ctx context.Context, term string) ([]domain.Booking, error) {
	if err := s.bookings.Ensure(ctx); err != nil {
		return nil, util.ToDomainError(err)
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.bookings.Items(), nil
	}
	return s.bookings.Search(func(b domain.Booking) bool {
		return strings.Contains(strings.ToLower(b.ClientName()), term) ||
			strings.Contains(strings.ToLower(b.Email), term) ||
			strings.Contains(strings.ToLower(b.PackageName), term)
	}), nil
}

// Create validates and stores a new booking.
func (s *BookingService) Create(ctx context.Context, actor events.Actor, in BookingInput) (domain.Booking, error) {
	if in.Status == "" {
		in.Status = domain.BookingStatusPending
	}
	if err := in.validate(); err != nil {
		return domain.Booking{}, err
	}

	cc, local := ParsePhone(in.Phone)
	booking := domain.Booking{
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:            strings.TrimSpace(in.Phone),
		PhoneCountryCode: cc,
		PhoneLocalNumber: local,
		PackageName:      strings.TrimSpace(in.PackageName),
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Travelers:        in.Travelers,
		Addon:            in.Addon,
		Status:           in.Status,
		Message:          in.Message,
	}

	created, err := s.bookings.Create(ctx, "", booking)
	if err != nil {
		return domain.Booking{}, util.ToDomainError(err)
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventBookingCreated,
		EntityID:  created.ID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})
	return created, nil
}

// Update validates and merges changes into an existing booking.
func (s *BookingService) Update(ctx context.Context, actor events.Actor, id string, in BookingInput) (domain.Booking, error) {
	if err := in.validate(); err != nil {
		return domain.Booking{}, err
	}

	current, err := s.bookings.Fetch(ctx, id)
	if err != nil {
		return domain.Booking{}, mapStoreError("booking", err)
	}

	cc, local := ParsePhone(in.Phone)
	updated, err := s.bookings.Update(ctx, id, map[string]any{
		"firstName":        strings.TrimSpace(in.FirstName),
		"lastName":         strings.TrimSpace(in.LastName),
		"email":            strings.ToLower(strings.TrimSpace(in.Email)),
		"phone":            strings.TrimSpace(in.Phone),
		"phoneCountryCode": cc,
		"phoneLocalNumber": local,
		"packageName":      strings.TrimSpace(in.PackageName),
		"startDate":        in.StartDate,
		"endDate":          in.EndDate,
		"travelers":        in.Travelers,
		"addon":            in.Addon,
		"status":           string(in.Status),
		"message":          in.Message,
	})
	if err != nil {
		return domain.Booking{}, mapStoreError("booking", err)
	}

	if current.Status != domain.BookingStatusCancelled && updated.Status == domain.BookingStatusCancelled {
		s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventBookingCancelled,
			EntityID:  updated.ID,
			Actor:     actor,
			Timestamp: time.Now().UTC(),
			Payload:   events.BookingCancelledPayload{ClientEmail: updated.Email},
		})
	}
	return updated, nil
}

// UpdateStatus moves a booking between lifecycle states without
// touching the rest of the record.
func (s *BookingService) UpdateStatus(ctx context.Context, actor events.Actor, id string, status domain.BookingStatus) (domain.Booking, error) {
	if !status.Valid() {
		return domain.Booking{}, util.NewValidationError("unknown booking status", map[string]any{"status": string(status)})
	}

	current, err := s.bookings.Fetch(ctx, id)
	if err != nil {
		return domain.Booking{}, mapStoreError("booking", err)
	}

	updated, err := s.bookings.Update(ctx, id, map[string]any{"status": string(status)})
	if err != nil {
		return domain.Booking{}, mapStoreError("booking", err)
	}

	if current.Status != domain.BookingStatusCancelled && status == domain.BookingStatusCancelled {
		s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventBookingCancelled,
			EntityID:  updated.ID,
			Actor:     actor,
			Timestamp: time.Now().UTC(),
			Payload:   events.BookingCancelledPayload{ClientEmail: updated.Email},
		})
	}
	return updated, nil
}

// Delete removes a booking. Deleting a missing id succeeds.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return util.ToDomainError(err)
	}
	return nil
}

// ClientGroup is one client with all of their bookings.
type ClientGroup struct {
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	Phone        string           `json:"phone"`
	BookingCount int              `json:"bookingCount"`
	LastDate     string           `json:"lastDate"`
	Bookings     []domain.Booking `json:"bookings"`
}

// Clients groups the booking snapshot by client email. Grouping is
// case-insensitive on the email; name and phone come from the group's
// most recent booking.
func (s *BookingService) Clients(ctx context.Context) ([]ClientGroup, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*ClientGroup)
	var order []string
	for _, b := range items {
		key := strings.ToLower(strings.TrimSpace(b.Email))
		g, ok := groups[key]
		if !ok {
			g = &ClientGroup{Email: key, Name: b.ClientName(), Phone: b.DisplayPhone()}
			groups[key] = g
			order = append(order, key)
		}
		g.Bookings = append(g.Bookings, b)
		g.BookingCount++
		if b.StartDate > g.LastDate {
			g.LastDate = b.StartDate
		}
	}

	out := make([]ClientGroup, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out, nil
}
