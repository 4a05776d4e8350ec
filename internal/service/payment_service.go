package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/events"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// PaymentService records money against bookings. Client and package
// details are denormalized onto the payment at record time, so payment
// rows outlive their booking.
type PaymentService struct {
	payments   *cache.Collection[domain.Payment]
	bookings   *cache.Collection[domain.Booking]
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPaymentService builds the service.
func NewPaymentService(payments *cache.Collection[domain.Payment], bookings *cache.Collection[domain.Booking], dispatcher events.Dispatcher, logger *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, bookings: bookings, dispatcher: dispatcher, logger: logger}
}

// PaymentInput describes a payment to record.
type PaymentInput struct {
	BookingID string
	Amount    float64
	Currency  string
	Method    string
	Date      string
	Reference string
	Status    domain.PaymentStatus
	Notes     string
}

func (in PaymentInput) validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.BookingID) == "" {
		details["bookingId"] = "required"
	}
	if in.Amount <= 0 {
		details["amount"] = "must be greater than zero"
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		details["date"] = "must be YYYY-MM-DD"
	}
	if strings.TrimSpace(in.Method) == "" {
		details["method"] = "required"
	}
	if !in.Status.Valid() {
		details["status"] = "unknown status"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid payment", details)
	}
	return nil
}

// List returns the payment snapshot, newest payment date first.
func (s *PaymentService) List(ctx context.Context) ([]domain.Payment, error) {
	if err := s.payments.Ensure(ctx); err != nil {
		return nil, util.ToDomainError(err)
	}
	items := s.payments.Items()
	sort.Slice(items, func(i, j int) bool { return items[i].Date > items[j].Date })
	return items, nil
}

// Record validates and stores a payment. Validation runs before any
// store traffic: a rejected payment leaves no document behind.
func (s *PaymentService) Record(ctx context.Context, actor events.Actor, in PaymentInput) (domain.Payment, error) {
	if in.Status == "" {
		in.Status = domain.PaymentStatusPending
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if err := in.validate(); err != nil {
		return domain.Payment{}, err
	}

	booking, err := s.bookings.Fetch(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Payment{}, util.NewValidationError("booking does not exist", map[string]any{"bookingId": in.BookingID})
		}
		return domain.Payment{}, util.ToDomainError(err)
	}

	payment := domain.Payment{
		BookingID:   in.BookingID,
		ClientName:  booking.ClientName(),
		ClientEmail: booking.Email,
		PackageName: booking.PackageName,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Method:      in.Method,
		Date:        in.Date,
		Reference:   in.Reference,
		Status:      in.Status,
		Notes:       in.Notes,
	}
	created, err := s.payments.Create(ctx, "", payment)
	if err != nil {
		return domain.Payment{}, util.ToDomainError(err)
	}

	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPaymentRecorded,
		EntityID:  created.ID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   events.PaymentRecordedPayload{BookingID: created.BookingID, Amount: created.Amount},
	})
	return created, nil
}

// PaymentDetail is a payment joined with its booking when the booking
// still exists.
type PaymentDetail struct {
	Payment domain.Payment  `json:"payment"`
	Booking *domain.Booking `json:"booking,omitempty"`
}

// Detail returns one payment with its booking attached. A payment whose
// booking was deleted still resolves; the booking side is simply nil.
func (s *PaymentService) Detail(ctx context.Context, id string) (PaymentDetail, error) {
	payment, err := s.payments.Fetch(ctx, id)
	if err != nil {
		return PaymentDetail{}, mapStoreError("payment", err)
	}

	detail := PaymentDetail{Payment: payment}
	booking, err := s.bookings.Fetch(ctx, payment.BookingID)
	switch {
	case err == nil:
		detail.Booking = &booking
	case errors.Is(err, docstore.ErrNotFound):
		// denormalized fields on the payment carry the display data
	default:
		return PaymentDetail{}, util.ToDomainError(err)
	}
	return detail, nil
}

// UpdateStatus moves a payment between lifecycle states.
func (s *PaymentService) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) (domain.Payment, error) {
	if !status.Valid() {
		return domain.Payment{}, util.NewValidationError("unknown payment status", map[string]any{"status": string(status)})
	}
	payment, err := s.payments.Update(ctx, id, map[string]any{"status": string(status)})
	if err != nil {
		return domain.Payment{}, mapStoreError("payment", err)
	}
	return payment, nil
}

// Delete removes a payment. Deleting a missing id succeeds.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if err := s.payments.Delete(ctx, id); err != nil {
		return util.ToDomainError(err)
	}
	return nil
}
