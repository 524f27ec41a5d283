package models

import "time"

// Vote is one user's current vote on a post or a comment. Exactly one of
// PostID / CommentID is set; the composite unique indexes make one-row-per-
// (voter, target) structural rather than a matter of discipline. Postgres
// treats NULLs as distinct, so the two indexes do not collide.
type Vote struct {
	ID        int  `gorm:"primaryKey" json:"id"`
	UserID    int  `gorm:"not null;uniqueIndex:idx_vote_user_post;uniqueIndex:idx_vote_user_comment" json:"user_id"`
	PostID    *int `gorm:"uniqueIndex:idx_vote_user_post" json:"post_id,omitempty"`
	CommentID *int `gorm:"uniqueIndex:idx_vote_user_comment" json:"comment_id,omitempty"`
	// Value is -1 or +1. A retracted vote is a deleted row, never a zero.
	Value int `gorm:"not null" json:"value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VoteRequest struct {
	Value int `json:"value"`
}
