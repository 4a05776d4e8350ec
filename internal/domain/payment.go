package domain

import "time"

// PaymentStatus enumerates payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid reports whether the status is one of the known set.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// Payment records money received against a booking. Client name, email
// and package name are denormalized from the booking at record time so
// the row stays readable if the booking is later deleted.
type Payment struct {
	ID          string        `json:"id"`
	BookingID   string        `json:"bookingId"`
	ClientName  string        `json:"clientName"`
	ClientEmail string        `json:"clientEmail"`
	PackageName string        `json:"packageName"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency"`
	Method      string        `json:"method"`
	Date        string        `json:"date"`
	Reference   string        `json:"reference,omitempty"`
	Status      PaymentStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}
