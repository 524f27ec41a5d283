package forum

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wrenchforum/backend/internal/models"
)

// Report resolution actions.
const (
	ReportDismiss      = "dismiss"
	ReportRemoveTarget = "remove_target"
)

// ReportPost files a report against a post. Any non-banned account may
// report.
func (s *Service) ReportPost(actor *models.User, postID int, reason string) (*models.Report, error) {
	return s.report(actor, &postID, nil, reason)
}

// ReportComment files a report against a comment.
func (s *Service) ReportComment(actor *models.User, commentID int, reason string) (*models.Report, error) {
	return s.report(actor, nil, &commentID, reason)
}

func (s *Service) report(actor *models.User, postID, commentID *int, reason string) (*models.Report, error) {
	if !CheckPermission(actor, ActionReportContent) {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyReason
	}

	if postID != nil {
		var post models.Post
		if err := s.db.First(&post, *postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	} else {
		var comment models.Comment
		if err := s.db.First(&comment, *commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	report := models.Report{
		ReporterID: actor.ID,
		PostID:     postID,
		CommentID:  commentID,
		Reason:     reason,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ModQueue lists open reports oldest first, so nothing starves at the back
// of the queue.
func (s *Service) ModQueue(actor *models.User) ([]models.Report, error) {
	if !CheckPermission(actor, ActionModerate) {
		return nil, ErrPermissionDenied
	}
	var reports []models.Report
	err := s.db.Preload("Reporter").
		Where("resolved = ?", false).
		Order("created_at asc").
		Find(&reports).Error
	return reports, err
}

// ResolveReport closes a report. With ReportRemoveTarget the reported
// content is hidden in the same transaction, so a crash can never leave the
// content removed with the report still open, or the other way round.
// Resolution is terminal.
func (s *Service) ResolveReport(actor *models.User, reportID int, action string) error {
	if !CheckPermission(actor, ActionModerate) {
		return ErrPermissionDenied
	}
	if action != ReportDismiss && action != ReportRemoveTarget {
		return ErrInvalidAction
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&report, reportID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if report.Resolved {
			return ErrAlreadyResolved
		}

		if action == ReportRemoveTarget {
			// Idempotent here: the report may point at content a moderator
			// already removed directly.
			if report.PostID != nil {
				err = tx.Model(&models.Post{}).Where("id = ?", *report.PostID).
					Update("removed", true).Error
			} else if report.CommentID != nil {
				err = tx.Model(&models.Comment{}).Where("id = ?", *report.CommentID).
					Update("removed", true).Error
			}
			if err != nil {
				return err
			}
		}

		if err := tx.Model(&report).Update("resolved", true).Error; err != nil {
			return err
		}
		s.log.Info().Int("report_id", report.ID).Str("action", action).
			Int("moderator_id", actor.ID).Msg("report resolved")
		return nil
	})
}

// Ban flags a user. Their content stays up, but every mutating action is
// denied from the next permission check on. Moderators cannot ban admins or
// themselves.
func (s *Service) Ban(actor *models.User, userID int) error {
	if !CheckPermission(actor, ActionModerate) {
		return ErrPermissionDenied
	}
	if actor.ID == userID {
		return ErrCannotBanSelf
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var target models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&target, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if target.Role.IsAdmin() && !actor.Role.IsAdmin() {
			return ErrCannotBanAdmin
		}
		if target.Banned {
			return ErrAlreadyBanned
		}
		if err := tx.Model(&target).Update("banned", true).Error; err != nil {
			return err
		}
		s.log.Info().Int("user_id", userID).Int("moderator_id", actor.ID).Msg("user banned")
		return nil
	})
}

// Unban reverses a ban.
func (s *Service) Unban(actor *models.User, userID int) error {
	if !CheckPermission(actor, ActionModerate) {
		return ErrPermissionDenied
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var target models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&target, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !target.Banned {
			return ErrNotBanned
		}
		if err := tx.Model(&target).Update("banned", false).Error; err != nil {
			return err
		}
		s.log.Info().Int("user_id", userID).Int("moderator_id", actor.ID).Msg("user unbanned")
		return nil
	})
}

// BannedUsers lists currently banned accounts for the mod queue page.
func (s *Service) BannedUsers(actor *models.User) ([]models.User, error) {
	if !CheckPermission(actor, ActionModerate) {
		return nil, ErrPermissionDenied
	}
	var users []models.User
	err := s.db.Where("banned = ?", true).Order("created_at desc").Find(&users).Error
	return users, err
}
