package dto

// ProvisionRequest payload for creating a staff account.
type ProvisionRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	License  string `json:"license"`
	Vehicle  string `json:"vehicle"`
	Notes    string `json:"notes"`
}

// DriverUpdateRequest payload for editing a driver.
type DriverUpdateRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	License string `json:"license"`
	Vehicle string `json:"vehicle"`
	Notes   string `json:"notes"`
}
