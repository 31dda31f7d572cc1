package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency. Handlers map these
// to HTTP status codes; anything else is a generic server fault.

var (
	// Roster errors
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrEmptyNickname   = errors.New("nickname must not be empty")

	// Book and session errors
	ErrBookNotFound = errors.New("book not found")

	// Room errors
	ErrItemNotFound      = errors.New("decoration not found in catalog")
	ErrItemAlreadyOwned  = errors.New("decoration already owned")
	ErrItemNotOwned      = errors.New("decoration not owned")
	ErrInsufficientCoins = errors.New("not enough coins")
)
