package forum

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wrenchforum/backend/internal/models"
)

// SubmitStore adds a parts retailer to the directory. Gated to verified
// mechanics and above, the same capability that rating uses.
func (s *Service) SubmitStore(actor *models.User, name, url, category string) (*models.Store, error) {
	if !CheckPermission(actor, ActionSubmitStore) {
		return nil, ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyStoreName
	}
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyStoreURL
	}

	var count int64
	if err := s.db.Model(&models.Store{}).Where("lower(name) = lower(?)", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateStore
	}

	store := models.Store{
		Name:        name,
		URL:         url,
		Category:    category,
		SubmittedBy: actor.ID,
	}
	if err := s.db.Create(&store).Error; err != nil {
		if dup := asDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, err
	}
	return &store, nil
}

// RateStore upserts the actor's positive/negative rating of a store and
// returns the new reliability score. One row per (voter, store): re-rating
// replaces the previous rating, never duplicates it.
func (s *Service) RateStore(actor *models.User, storeID int, positive bool) (*float64, error) {
	if !CheckPermission(actor, ActionRateStore) {
		return nil, ErrPermissionDenied
	}

	var reliability *float64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var store models.Store
		if err := tx.First(&store, storeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		vote := models.StoreVote{StoreID: storeID, UserID: actor.ID, Positive: positive}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"positive", "updated_at"}),
		}).Create(&vote).Error
		if err != nil {
			return err
		}

		var err2 error
		reliability, _, _, err2 = storeReliability(tx, storeID)
		return err2
	})
	return reliability, err
}

// ListStores returns the directory, optionally filtered by category, with
// vote counts and reliability attached. Reliability is nil when a store has
// no ratings yet; callers must not render that as 0%.
func (s *Service) ListStores(category string) ([]models.Store, error) {
	q := s.db.Preload("Submitter").Order("name asc")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var stores []models.Store
	if err := q.Find(&stores).Error; err != nil {
		return nil, err
	}
	for i := range stores {
		rel, pos, total, err := storeReliability(s.db, stores[i].ID)
		if err != nil {
			return nil, err
		}
		stores[i].Reliability = rel
		stores[i].PositiveVotes = pos
		stores[i].TotalVotes = total
	}
	return stores, nil
}

// StoreCategories lists the distinct categories in use.
func (s *Service) StoreCategories() ([]string, error) {
	var cats []string
	err := s.db.Model(&models.Store{}).Distinct("category").
		Where("category <> ''").Order("category asc").Pluck("category", &cats).Error
	return cats, err
}

func storeReliability(db *gorm.DB, storeID int) (*float64, int, int, error) {
	var pos, total int64
	err := db.Model(&models.StoreVote{}).
		Where("store_id = ? AND positive = ?", storeID, true).Count(&pos).Error
	if err != nil {
		return nil, 0, 0, err
	}
	err = db.Model(&models.StoreVote{}).Where("store_id = ?", storeID).Count(&total).Error
	if err != nil {
		return nil, 0, 0, err
	}
	if total == 0 {
		return nil, 0, 0, nil
	}
	rel := float64(pos) / float64(total)
	return &rel, int(pos), int(total), nil
}
