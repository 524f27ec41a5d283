package models

import "time"

type Store struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	URL         string `gorm:"not null" json:"url"`
	Category    string `gorm:"index" json:"category"`
	SubmittedBy int    `gorm:"not null" json:"submitted_by"`
	Submitter   User   `gorm:"foreignKey:SubmittedBy" json:"submitter"`

	CreatedAt time.Time `json:"created_at"`

	// Computed from store_votes on read; nil Reliability means no ratings yet,
	// which callers must render distinctly from 0%.
	PositiveVotes int      `gorm:"-" json:"positive_votes"`
	TotalVotes    int      `gorm:"-" json:"total_votes"`
	Reliability   *float64 `gorm:"-" json:"reliability,omitempty"`
}

// StoreVote is one user's current rating of a store, upserted by
// (user, store).
type StoreVote struct {
	ID       int  `gorm:"primaryKey" json:"id"`
	StoreID  int  `gorm:"not null;uniqueIndex:idx_store_vote" json:"store_id"`
	UserID   int  `gorm:"not null;uniqueIndex:idx_store_vote" json:"user_id"`
	Positive bool `gorm:"not null" json:"positive"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubmitStoreRequest struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

type StoreVoteRequest struct {
	Positive bool `json:"positive"`
}
