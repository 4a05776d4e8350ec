package domain

import "time"

// Subscriber is a newsletter signup captured by the marketing site.
// Append-only except for explicit deletion.
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Date      string    `json:"date"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}
