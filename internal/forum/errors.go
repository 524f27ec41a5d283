package forum

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for every way a forum operation can be refused. Handlers
// map these to HTTP statuses with KindOf; the messages are safe to show to
// end users.
var (
	// Permission
	ErrPermissionDenied = errors.New("permission denied")
	ErrSelfVote         = errors.New("you cannot vote on your own content")
	ErrCannotBanAdmin   = errors.New("moderators cannot ban an admin")
	ErrCannotBanSelf    = errors.New("you cannot ban yourself")

	// Not found
	ErrNotFound = errors.New("not found")

	// Conflict
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrDuplicateStore       = errors.New("a store with that name already exists")
	ErrAlreadyVerified      = errors.New("account is already verified")
	ErrPendingRequestExists = errors.New("a verification request is already pending")
	ErrAlreadyResolved      = errors.New("already resolved")
	ErrAlreadyRemoved       = errors.New("already removed")
	ErrNotRemoved           = errors.New("not removed")
	ErrAlreadyBanned        = errors.New("user is already banned")
	ErrNotBanned            = errors.New("user is not banned")

	// Validation
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidUsername    = errors.New("username must be 3-20 letters, digits or underscores")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmptyTitle         = errors.New("title must be between 1 and 300 characters")
	ErrEmptyBody          = errors.New("body cannot be empty")
	ErrEmptyReason        = errors.New("report reason cannot be empty")
	ErrProofTooShort      = errors.New("verification details must be at least 50 characters")
	ErrInvalidVote        = errors.New("vote value must be -1, 0 or 1")
	ErrInvalidAction      = errors.New("unknown report action")
	ErrEmptyStoreName     = errors.New("store name cannot be empty")
	ErrEmptyStoreURL      = errors.New("store url cannot be empty")
	ErrTargetRemoved      = errors.New("content has been removed")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownParent      = errors.New("parent comment not found")
	ErrCrossPostParent    = errors.New("parent comment belongs to a different post")

	// Integrity. Unrecoverable for the affected record, logged for operators.
	ErrCommentCycle = errors.New("comment thread contains a parent cycle")
)

// Kind buckets errors for HTTP mapping and logging.
type Kind int

const (
	KindUnknown Kind = iota
	KindPermission
	KindNotFound
	KindConflict
	KindValidation
	KindIntegrity
)

var kinds = map[Kind][]error{
	KindPermission: {ErrPermissionDenied, ErrSelfVote, ErrCannotBanAdmin, ErrCannotBanSelf},
	KindNotFound:   {ErrNotFound, ErrUnknownCategory, ErrUnknownParent},
	KindConflict: {
		ErrDuplicateEmail, ErrDuplicateUsername, ErrDuplicateStore,
		ErrAlreadyVerified, ErrPendingRequestExists, ErrAlreadyResolved,
		ErrAlreadyRemoved, ErrNotRemoved, ErrAlreadyBanned, ErrNotBanned,
	},
	KindValidation: {
		ErrInvalidCredentials, ErrInvalidEmail, ErrInvalidUsername, ErrWeakPassword,
		ErrEmptyTitle, ErrEmptyBody, ErrEmptyReason, ErrProofTooShort,
		ErrInvalidVote, ErrInvalidAction, ErrEmptyStoreName, ErrEmptyStoreURL,
		ErrTargetRemoved, ErrCrossPostParent,
	},
	KindIntegrity: {ErrCommentCycle},
}

// asDuplicate maps a postgres unique violation onto the matching duplicate
// sentinel, or returns nil for anything else. The pre-insert checks catch
// most duplicates; this covers two inserts racing past them, which would
// otherwise surface as an internal error.
func asDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrDuplicateEmail
	case strings.Contains(pgErr.ConstraintName, "username"):
		return ErrDuplicateUsername
	case strings.Contains(pgErr.ConstraintName, "stores"):
		return ErrDuplicateStore
	}
	return nil
}

// KindOf classifies err into one of the Kind buckets.
func KindOf(err error) Kind {
	for kind, sentinels := range kinds {
		for _, s := range sentinels {
			if errors.Is(err, s) {
				return kind
			}
		}
	}
	return KindUnknown
}
