package domain

import "time"

// Company es una empresa registrada en el marketplace.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Rating    *float64  `json:"rating,omitempty"`
	Jobs      []Job     `json:"jobs,omitempty"`
}
