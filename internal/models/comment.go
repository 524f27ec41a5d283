package models

import "time"

type Comment struct {
	ID       int  `gorm:"primaryKey" json:"id"`
	PostID   int  `gorm:"not null;index" json:"post_id"`
	AuthorID int  `gorm:"not null;index" json:"author_id"`
	User     User `gorm:"foreignKey:AuthorID" json:"user"`
	// ParentID is nil for top-level comments; replies link to their parent.
	ParentID *int   `gorm:"index" json:"parent_id,omitempty"`
	Body     string `gorm:"not null" json:"body"`
	Score    int    `gorm:"not null;default:0" json:"score"`
	Removed  bool   `gorm:"not null;default:false" json:"removed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}

type CreateCommentRequest struct {
	Body     string `json:"body"`
	ParentID *int   `json:"parent_id,omitempty"`
}
