package forum

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wrenchforum/backend/internal/models"
)

// VotePost records the actor's vote on a post and returns the new score.
//
// Semantics: value 0 retracts any prior vote; re-casting the current value is
// a no-op; anything else upserts the single (voter, post) row. The vote row
// and the cached score change in one transaction with the post row locked, so
// no reader can observe them out of step.
func (s *Service) VotePost(actor *models.User, postID, value int) (int, error) {
	if !CheckPermission(actor, ActionVoteContent) {
		return 0, ErrPermissionDenied
	}
	if value < -1 || value > 1 {
		return 0, ErrInvalidVote
	}

	var score int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if post.Removed {
			return ErrTargetRemoved
		}
		if post.AuthorID == actor.ID {
			return ErrSelfVote
		}

		delta, err := s.applyVote(tx, value,
			tx.Where("user_id = ? AND post_id = ?", actor.ID, postID),
			models.Vote{UserID: actor.ID, PostID: &postID, Value: value})
		if err != nil {
			return err
		}
		if delta != 0 {
			err = tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
			if err != nil {
				return err
			}
		}
		score = post.Score + delta
		return nil
	})
	return score, err
}

// VoteComment is VotePost for comments.
func (s *Service) VoteComment(actor *models.User, commentID, value int) (int, error) {
	if !CheckPermission(actor, ActionVoteContent) {
		return 0, ErrPermissionDenied
	}
	if value < -1 || value > 1 {
		return 0, ErrInvalidVote
	}

	var score int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&comment, commentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if comment.Removed {
			return ErrTargetRemoved
		}
		if comment.AuthorID == actor.ID {
			return ErrSelfVote
		}

		delta, err := s.applyVote(tx, value,
			tx.Where("user_id = ? AND comment_id = ?", actor.ID, commentID),
			models.Vote{UserID: actor.ID, CommentID: &commentID, Value: value})
		if err != nil {
			return err
		}
		if delta != 0 {
			err = tx.Model(&models.Comment{}).Where("id = ?", commentID).
				UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
			if err != nil {
				return err
			}
		}
		score = comment.Score + delta
		return nil
	})
	return score, err
}

// applyVote upserts/deletes the vote row under the caller's transaction and
// returns the score delta it caused.
func (s *Service) applyVote(tx *gorm.DB, value int, scope *gorm.DB, fresh models.Vote) (int, error) {
	var existing models.Vote
	err := scope.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if value == 0 {
			// Nothing to retract.
			return 0, nil
		}
		if err := tx.Create(&fresh).Error; err != nil {
			return 0, err
		}
		return value, nil
	case err != nil:
		return 0, err
	}

	switch value {
	case existing.Value:
		// Idempotent re-cast.
		return 0, nil
	case 0:
		if err := tx.Delete(&existing).Error; err != nil {
			return 0, err
		}
		return -existing.Value, nil
	default:
		if err := tx.Model(&existing).Update("value", value).Error; err != nil {
			return 0, err
		}
		return value - existing.Value, nil
	}
}

// PostScore returns the cached score, which always equals the sum of the
// live vote rows for the post.
func (s *Service) PostScore(postID int) (int, error) {
	var post models.Post
	if err := s.db.Select("id", "score").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return post.Score, nil
}

// CommentScore is PostScore for comments.
func (s *Service) CommentScore(commentID int) (int, error) {
	var comment models.Comment
	if err := s.db.Select("id", "score").First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return comment.Score, nil
}
