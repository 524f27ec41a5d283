package forum

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wrenchforum/backend/internal/models"
)

// Register creates a new account with the unverified role.
func (s *Service) Register(email, username, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)

	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !validUsername(username) {
		return nil, ErrInvalidUsername
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleUnverified,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if dup := asDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, err
	}

	s.log.Info().Int("user_id", user.ID).Str("username", username).Msg("user registered")
	return &user, nil
}

// Authenticate checks email/password and returns the user. Banned users
// authenticate successfully; every mutating operation denies them later at
// its permission check, so they keep read access to their own history.
func (s *Service) Authenticate(email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(id int) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SubmitVerification opens a verification request for an unverified user.
// At most one pending request per user exists at a time.
func (s *Service) SubmitVerification(actor *models.User, proofType, proofText string) (*models.VerificationRequest, error) {
	if actor == nil || actor.Banned {
		return nil, ErrPermissionDenied
	}
	if actor.Role.CanPost() {
		return nil, ErrAlreadyVerified
	}
	if len(strings.TrimSpace(proofText)) < 50 {
		return nil, ErrProofTooShort
	}

	var pending int64
	err := s.db.Model(&models.VerificationRequest{}).
		Where("user_id = ? AND status = ?", actor.ID, models.VerificationPending).
		Count(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, ErrPendingRequestExists
	}

	req := models.VerificationRequest{
		UserID:    actor.ID,
		ProofType: proofType,
		ProofText: proofText,
		Status:    models.VerificationPending,
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ResolveVerification approves or denies a pending request. Resolution is
// terminal. Approval flips the requester from unverified to verified
// mechanic; moderators and admins keep the role they already hold.
func (s *Service) ResolveVerification(actor *models.User, requestID int, approve bool) error {
	if !CheckPermission(actor, ActionResolveVerification) {
		return ErrPermissionDenied
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var req models.VerificationRequest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, requestID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.Status != models.VerificationPending {
			return ErrAlreadyResolved
		}

		status := models.VerificationDenied
		if approve {
			status = models.VerificationApproved
		}
		err = tx.Model(&req).Updates(map[string]any{
			"status":      status,
			"reviewed_by": actor.ID,
		}).Error
		if err != nil {
			return err
		}

		if approve {
			err = tx.Model(&models.User{}).
				Where("id = ? AND role = ?", req.UserID, models.RoleUnverified).
				Update("role", models.RoleVerifiedMechanic).Error
			if err != nil {
				return err
			}
		}

		s.log.Info().Int("request_id", req.ID).Int("user_id", req.UserID).
			Bool("approved", approve).Msg("verification resolved")
		return nil
	})
}

// PendingVerifications lists open requests for the admin panel, oldest first.
func (s *Service) PendingVerifications(actor *models.User) ([]models.VerificationRequest, error) {
	if !CheckPermission(actor, ActionResolveVerification) {
		return nil, ErrPermissionDenied
	}
	var reqs []models.VerificationRequest
	err := s.db.Preload("User").
		Where("status = ?", models.VerificationPending).
		Order("created_at asc").
		Find(&reqs).Error
	return reqs, err
}

func validEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	return domain != "" && strings.Contains(domain, ".")
}

func validUsername(username string) bool {
	if len(username) < 3 || len(username) > 20 {
		return false
	}
	for _, c := range username {
		if !isAlnum(c) && c != '_' {
			return false
		}
	}
	return true
}

func isAlnum(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
