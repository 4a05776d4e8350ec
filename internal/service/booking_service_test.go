package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
)

func bookingInput() BookingInput {
	return BookingInput{
		FirstName:   "John",
		LastName:    "Carter",
		Email:       "John@Example.com",
		Phone:       "+44 7911 123456",
		PackageName: "Desert Safari",
		StartDate:   "2026-09-20",
		EndDate:     "2026-09-24",
		Travelers:   2,
	}
}

func TestParsePhone(t *testing.T) {
	cases := []struct {
		raw   string
		cc    string
		local string
	}{
		{"+44 7911 123456", "+44", "7911 123456"},
		{"+971501234567", "+971", "501234567"},
		{"0501234567", "", "0501234567"},
		{"  +1 555 0100  ", "+1", "555 0100"},
		{"", "", ""},
	}
	for _, tc := range cases {
		cc, local := ParsePhone(tc.raw)
		assert.Equal(t, tc.cc, cc, tc.raw)
		assert.Equal(t, tc.local, local, tc.raw)
	}
}

func TestBookingCreateNormalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.bookingSvc.Create(ctx, testActor(), bookingInput())
	require.NoError(t, err)
	require.Equal(t, "john@example.com", created.Email)
	require.Equal(t, "+44", created.PhoneCountryCode)
	require.Equal(t, "7911 123456", created.PhoneLocalNumber)
	require.Equal(t, domain.BookingStatusPending, created.Status)
}

func TestBookingValidationRejectsBadDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := bookingInput()
	in.StartDate = "20/09/2026"
	_, err := f.bookingSvc.Create(ctx, testActor(), in)
	require.Error(t, err)

	in = bookingInput()
	in.EndDate = "2026-09-01" // before start
	_, err = f.bookingSvc.Create(ctx, testActor(), in)
	require.Error(t, err)

	in = bookingInput()
	in.Travelers = 0
	_, err = f.bookingSvc.Create(ctx, testActor(), in)
	require.Error(t, err)

	items, err := f.bookings.Query(ctx, docstore.Query{})
	require.NoError(t, err)
	require.Empty(t, items, "rejected bookings leave no documents")
}

func TestBookingSearchMatchesCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookingSvc.Create(ctx, testActor(), bookingInput())
	require.NoError(t, err)
	in := bookingInput()
	in.FirstName, in.LastName, in.Email = "Maria", "Lopez", "maria@example.com"
	_, err = f.bookingSvc.Create(ctx, testActor(), in)
	require.NoError(t, err)

	matches, err := f.bookingSvc.Search(ctx, "JOHN")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "John Carter", matches[0].ClientName())
}

func TestBookingClientsGroupsByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Two bookings for John (one with different email casing), one for
	// Maria.
	_, err := f.bookingSvc.Create(ctx, testActor(), bookingInput())
	require.NoError(t, err)

	in := bookingInput()
	in.Email = "JOHN@example.COM"
	in.StartDate, in.EndDate = "2026-10-01", "2026-10-05"
	in.PackageName = "City Tour"
	_, err = f.bookingSvc.Create(ctx, testActor(), in)
	require.NoError(t, err)

	in = bookingInput()
	in.FirstName, in.LastName, in.Email = "Maria", "Lopez", "maria@example.com"
	_, err = f.bookingSvc.Create(ctx, testActor(), in)
	require.NoError(t, err)

	groups, err := f.bookingSvc.Clients(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	byEmail := map[string]ClientGroup{}
	for _, g := range groups {
		byEmail[g.Email] = g
	}
	require.Equal(t, 2, byEmail["john@example.com"].BookingCount)
	require.Equal(t, "2026-10-01", byEmail["john@example.com"].LastDate)
	require.Equal(t, 1, byEmail["maria@example.com"].BookingCount)
}

func TestBookingCancellationViaStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.bookingSvc.Create(ctx, testActor(), bookingInput())
	require.NoError(t, err)

	updated, err := f.bookingSvc.UpdateStatus(ctx, testActor(), created.ID, domain.BookingStatusCancelled)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCancelled, updated.Status)
	require.Equal(t, "Desert Safari", updated.PackageName, "status change leaves the rest of the record alone")
}
