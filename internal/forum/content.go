package forum

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wrenchforum/backend/internal/models"
)

// Post sort orders for ListPosts.
const (
	SortNew = "new"
	SortTop = "top"
)

// Categories returns the static category list, alphabetised.
func (s *Service) Categories() ([]models.Category, error) {
	var cats []models.Category
	err := s.db.Order("name asc").Find(&cats).Error
	return cats, err
}

// CreatePost creates a post in the given category. Only verified mechanics
// and above may post. New posts start at score 0; authors cannot vote on
// their own content.
func (s *Service) CreatePost(actor *models.User, categorySlug, title, body string) (*models.Post, error) {
	if !CheckPermission(actor, ActionCreatePost) {
		return nil, ErrPermissionDenied
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 300 {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	var cat models.Category
	if err := s.db.Where("slug = ?", categorySlug).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCategory
		}
		return nil, err
	}

	post := models.Post{
		AuthorID:   actor.ID,
		CategoryID: cat.ID,
		Title:      title,
		Body:       body,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	s.db.Preload("User").Preload("Category").First(&post, post.ID)
	return &post, nil
}

// CreateComment adds a comment to a post, optionally as a reply. Commenting
// is open to any non-banned account, including unverified ones. The parent,
// if given, must be a live comment on the same post, and attaching to it must
// not create a cycle in the reply tree.
func (s *Service) CreateComment(actor *models.User, postID int, parentID *int, body string) (*models.Comment, error) {
	if !CheckPermission(actor, ActionCreateComment) {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.Removed {
		return nil, ErrTargetRemoved
	}

	if parentID != nil {
		var parent models.Comment
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownParent
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, ErrCrossPostParent
		}
		if parent.Removed {
			return nil, ErrTargetRemoved
		}
		// Walk the parent chain before attaching. A fresh comment cannot close
		// a cycle itself, but a corrupted chain must be rejected at write time
		// rather than discovered during read-time traversal.
		if err := s.checkParentChain(postID, *parentID); err != nil {
			return nil, err
		}
	}

	comment := models.Comment{
		PostID:   postID,
		AuthorID: actor.ID,
		ParentID: parentID,
		Body:     body,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	s.db.Preload("User").First(&comment, comment.ID)
	return &comment, nil
}

// checkParentChain follows parent links from the given comment up to a root.
// Revisiting an id means the stored tree is cyclic, which is a data
// integrity failure for the whole thread.
func (s *Service) checkParentChain(postID, commentID int) error {
	seen := map[int]bool{}
	next := &commentID
	for next != nil {
		id := *next
		if seen[id] {
			s.log.Error().Int("post_id", postID).Int("comment_id", id).
				Msg("cycle detected in comment parent chain")
			return ErrCommentCycle
		}
		seen[id] = true

		var c models.Comment
		if err := s.db.Select("id", "parent_id").First(&c, id).Error; err != nil {
			return err
		}
		next = c.ParentID
	}
	return nil
}

// ListPosts returns visible posts, newest or highest-scored first. Ties on
// score break toward the most recent post. An unknown category slug is an
// error rather than an empty listing.
func (s *Service) ListPosts(categorySlug, sort string) ([]models.Post, error) {
	q := s.db.Preload("User").Preload("Category").Where("removed = ?", false)

	if categorySlug != "" {
		var cat models.Category
		if err := s.db.Where("slug = ?", categorySlug).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownCategory
			}
			return nil, err
		}
		q = q.Where("category_id = ?", cat.ID)
	}

	switch sort {
	case SortTop:
		q = q.Order("score desc").Order("created_at desc")
	default:
		q = q.Order("created_at desc")
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetThread returns a post with its comments assembled into a reply tree.
// Removed posts and comments stay visible to moderators for audit; everyone
// else gets ErrNotFound for a removed post, and a removed comment drops out
// of their tree together with its whole reply subtree.
func (s *Service) GetThread(viewer *models.User, postID int) (*models.Post, []*models.Comment, error) {
	isMod := viewer != nil && viewer.Role.CanModerate()

	var post models.Post
	if err := s.db.Preload("User").Preload("Category").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if post.Removed && !isMod {
		return nil, nil, ErrNotFound
	}

	// The tree is always assembled over the full comment set, removed rows
	// included, so an unreachable node really is corruption and not just a
	// moderation side effect. Visibility is applied afterwards.
	var comments []*models.Comment
	err := s.db.Preload("User").Where("post_id = ?", postID).
		Order("score desc").Order("created_at asc").Find(&comments).Error
	if err != nil {
		return nil, nil, err
	}

	tree, err := s.threadComments(postID, comments)
	if err != nil {
		return nil, nil, err
	}
	if !isMod {
		tree = pruneRemoved(tree)
	}
	return &post, tree, nil
}

// threadComments rebuilds the reply tree from flat parent links. Comments
// that cannot be reached from a root (cyclic or dangling parents) mean the
// thread is corrupt; that is surfaced, not silently repaired.
func (s *Service) threadComments(postID int, comments []*models.Comment) ([]*models.Comment, error) {
	byParent := map[int][]*models.Comment{}
	var roots []*models.Comment
	for _, c := range comments {
		c.Replies = nil
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	reached := 0
	stack := append([]*models.Comment{}, roots...)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reached++
		c.Replies = byParent[c.ID]
		stack = append(stack, c.Replies...)
	}

	if reached != len(comments) {
		s.log.Error().Int("post_id", postID).
			Int("total", len(comments)).Int("reachable", reached).
			Msg("comment tree has unreachable nodes")
		return nil, ErrCommentCycle
	}
	return roots, nil
}

// pruneRemoved drops removed comments and everything beneath them. A live
// reply under a removed parent has no visible anchor, so the subtree goes
// with it; the rows stay in the table for moderator view.
func pruneRemoved(comments []*models.Comment) []*models.Comment {
	var kept []*models.Comment
	for _, c := range comments {
		if c.Removed {
			continue
		}
		c.Replies = pruneRemoved(c.Replies)
		kept = append(kept, c)
	}
	return kept
}

// RemovePost hides a post from public listings. The row, its score and its
// comments are all retained for audit.
func (s *Service) RemovePost(actor *models.User, postID int) error {
	return s.setPostRemoved(actor, postID, true)
}

// RestorePost reverses a removal.
func (s *Service) RestorePost(actor *models.User, postID int) error {
	return s.setPostRemoved(actor, postID, false)
}

func (s *Service) setPostRemoved(actor *models.User, postID int, removed bool) error {
	if !CheckPermission(actor, ActionModerate) {
		return ErrPermissionDenied
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, postID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if post.Removed == removed {
			if removed {
				return ErrAlreadyRemoved
			}
			return ErrNotRemoved
		}
		return tx.Model(&post).Update("removed", removed).Error
	})
}

// RemoveComment hides a comment; replies stay in place.
func (s *Service) RemoveComment(actor *models.User, commentID int) error {
	if !CheckPermission(actor, ActionModerate) {
		return ErrPermissionDenied
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&comment, commentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if comment.Removed {
			return ErrAlreadyRemoved
		}
		return tx.Model(&comment).Update("removed", true).Error
	})
}

// GetPost fetches a single post regardless of visibility for moderator use.
func (s *Service) GetPost(actor *models.User, postID int) (*models.Post, error) {
	if !CheckPermission(actor, ActionModerate) {
		return nil, ErrPermissionDenied
	}
	var post models.Post
	if err := s.db.Preload("User").Preload("Category").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}
