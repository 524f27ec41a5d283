package models

import "time"

// Report flags a post or a comment for the moderation queue. Exactly one of
// PostID / CommentID is set.
type Report struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	ReporterID int    `gorm:"not null;index" json:"reporter_id"`
	Reporter   User   `gorm:"foreignKey:ReporterID" json:"reporter"`
	PostID     *int   `gorm:"index" json:"post_id,omitempty"`
	CommentID  *int   `gorm:"index" json:"comment_id,omitempty"`
	Reason     string `gorm:"not null" json:"reason"`
	Resolved   bool   `gorm:"not null;default:false" json:"resolved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReportRequest struct {
	Reason string `json:"reason"`
}
