package models

import "time"

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationDenied   = "denied"
)

// VerificationRequest tracks a user's claim to be a working mechanic.
// Status is terminal once approved or denied.
type VerificationRequest struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	UserID     int    `gorm:"not null;index" json:"user_id"`
	User       User   `gorm:"foreignKey:UserID" json:"user"`
	ProofType  string `json:"proof_type"`
	ProofText  string `gorm:"not null" json:"proof_text"`
	Status     string `gorm:"not null;default:pending" json:"status"`
	ReviewedBy *int   `json:"reviewed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
