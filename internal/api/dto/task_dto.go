package dto

// TaskRequest payload for creating or replacing a task.
type TaskRequest struct {
	Title          string `json:"title"`
	DriverID       string `json:"driverId"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ClientName     string `json:"clientName"`
	ClientPhone    string `json:"clientPhone"`
	PickupLocation string `json:"pickupLocation"`
	Destination    string `json:"destination"`
	Priority       string `json:"priority"`
	Notes          string `json:"notes"`
	Status         string `json:"status"`
}
