package domain

import "time"

// BookingStatus enumerates booking lifecycle states.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether the status is one of the known set.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a client trip reservation. Records arrive either through
// the external booking-form relay or from staff via the console. Start
// and end dates are calendar strings (YYYY-MM-DD), distinct from the
// store-generated record timestamps.
type Booking struct {
	ID               string        `json:"id"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	PhoneCountryCode string        `json:"phoneCountryCode,omitempty"`
	PhoneLocalNumber string        `json:"phoneLocalNumber,omitempty"`
	PackageName      string        `json:"packageName"`
	StartDate        string        `json:"startDate"`
	EndDate          string        `json:"endDate"`
	Travelers        int           `json:"travelers"`
	Addon            string        `json:"addon,omitempty"`
	Status           BookingStatus `json:"status"`
	Message          string        `json:"message,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        *time.Time    `json:"updatedAt,omitempty"`
}

// ClientName returns the booking's client display name.
func (b Booking) ClientName() string {
	return b.FirstName + " " + b.LastName
}

// DisplayPhone prefers the parsed phone parts over the raw input.
func (b Booking) DisplayPhone() string {
	if b.PhoneCountryCode != "" {
		return b.PhoneCountryCode + " " + b.PhoneLocalNumber
	}
	if b.PhoneLocalNumber != "" {
		return b.PhoneLocalNumber
	}
	return b.Phone
}
