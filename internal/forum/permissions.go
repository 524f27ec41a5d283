package forum

import "github.com/wrenchforum/backend/internal/models"

// Action enumerates every kind of mutation a user can attempt. All service
// methods consult CheckPermission before touching the database, so the
// capability table lives in exactly one place.
type Action int

const (
	ActionCreatePost Action = iota
	ActionCreateComment
	ActionVoteContent
	ActionReportContent
	ActionSubmitStore
	ActionRateStore
	ActionModerate
	ActionResolveVerification
)

// CheckPermission is the capability table from the README. A banned user is
// denied every action here; they may still authenticate and read.
func CheckPermission(u *models.User, a Action) bool {
	if u == nil || u.Banned {
		return false
	}
	switch a {
	case ActionCreateComment, ActionVoteContent, ActionReportContent:
		// Open to any authenticated account, including unverified ones.
		return true
	case ActionCreatePost:
		return u.Role.CanPost()
	case ActionSubmitStore, ActionRateStore:
		return u.Role.CanVoteStores()
	case ActionModerate:
		return u.Role.CanModerate()
	case ActionResolveVerification:
		return u.Role.IsAdmin()
	default:
		return false
	}
}
