package dto

// BookingRequest payload for creating or replacing a booking.
type BookingRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PackageName string `json:"packageName"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Travelers   int    `json:"travelers"`
	Addon       string `json:"addon"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// StatusRequest payload for status-only updates.
type StatusRequest struct {
	Status string `json:"status"`
}
