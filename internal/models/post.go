package models

import "time"

type Post struct {
	ID         int      `gorm:"primaryKey" json:"id"`
	AuthorID   int      `gorm:"not null;index" json:"author_id"`
	User       User     `gorm:"foreignKey:AuthorID" json:"user"`
	CategoryID int      `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`
	Title      string   `gorm:"not null" json:"title"`
	Body       string   `gorm:"not null" json:"body"`

	// Score is a cache over the votes table; it is only ever updated in the
	// same transaction as the vote row it reflects.
	Score   int  `gorm:"not null;default:0" json:"score"`
	Removed bool `gorm:"not null;default:false" json:"removed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	CategorySlug string `json:"category"`
	Title        string `json:"title"`
	Body         string `json:"body"`
}
