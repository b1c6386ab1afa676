package domain

import "time"

// AdminInviteCode es un código de invitación de un solo uso para escalar a admin.
type AdminInviteCode struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	ExpiryDate time.Time  `json:"expiry_date"`
	CreatedBy  string     `json:"created_by"`
	Used       bool       `json:"used"`
	UsedBy     *string    `json:"used_by,omitempty"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
}

// Expired indica si el código ya venció.
func (c AdminInviteCode) Expired(now time.Time) bool {
	return now.After(c.ExpiryDate)
}
