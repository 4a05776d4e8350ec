package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
)

func paymentInput(bookingID string, amount float64) PaymentInput {
	return PaymentInput{
		BookingID: bookingID,
		Amount:    amount,
		Method:    "bank-transfer",
		Date:      "2026-09-18",
		Status:    domain.PaymentStatusPaid,
	}
}

func TestPaymentRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookingID := f.seedBooking(t, map[string]any{
		"firstName": "John", "lastName": "Carter", "email": "john@example.com",
		"packageName": "Desert Safari", "status": "confirmed", "startDate": "2026-09-20", "travelers": 2,
	})

	for _, amount := range []float64{0, -10} {
		_, err := f.paymentSvc.Record(ctx, testActor(), paymentInput(bookingID, amount))
		require.Error(t, err)
	}

	items, err := f.payments.Query(ctx, docstore.Query{})
	require.NoError(t, err)
	require.Empty(t, items, "rejected payments leave no documents")
}

func TestPaymentDenormalizesBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookingID := f.seedBooking(t, map[string]any{
		"firstName": "John", "lastName": "Carter", "email": "john@example.com",
		"packageName": "Desert Safari", "status": "confirmed", "startDate": "2026-09-20", "travelers": 2,
	})

	created, err := f.paymentSvc.Record(ctx, testActor(), paymentInput(bookingID, 1200))
	require.NoError(t, err)
	require.Equal(t, "John Carter", created.ClientName)
	require.Equal(t, "john@example.com", created.ClientEmail)
	require.Equal(t, "Desert Safari", created.PackageName)
}

func TestPaymentRejectsUnknownBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.paymentSvc.Record(context.Background(), testActor(), paymentInput("missing", 500))
	require.Error(t, err)
}

func TestPaymentDetailSurvivesDeletedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookingID := f.seedBooking(t, map[string]any{
		"firstName": "John", "lastName": "Carter", "email": "john@example.com",
		"packageName": "Desert Safari", "status": "confirmed", "startDate": "2026-09-20", "travelers": 2,
	})

	created, err := f.paymentSvc.Record(ctx, testActor(), paymentInput(bookingID, 1200))
	require.NoError(t, err)

	require.NoError(t, f.bookingSvc.Delete(ctx, bookingID))

	detail, err := f.paymentSvc.Detail(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, detail.Booking)
	require.Equal(t, "John Carter", detail.Payment.ClientName)
}
