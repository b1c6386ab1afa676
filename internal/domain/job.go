package domain

import "time"

// Job es una oferta de empleo publicada por una empresa.
type Job struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"published_at"`
}

// JobPage es una página de resultados de búsqueda de empleos.
type JobPage struct {
	Jobs       []Job `json:"jobs"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}
