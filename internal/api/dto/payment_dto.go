package dto

// PaymentRequest payload for recording a payment.
type PaymentRequest struct {
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
	Date      string  `json:"date"`
	Reference string  `json:"reference"`
	Status    string  `json:"status"`
	Notes     string  `json:"notes"`
}

// SubscribeRequest payload for newsletter signups.
type SubscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}
