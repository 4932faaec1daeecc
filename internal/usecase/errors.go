package usecase

import "errors"

// Service-level failure kinds. Store-level kinds (not found, slot not
// available, already terminal) live in the repository package; handlers map
// both sets to HTTP statuses with errors.Is.
var (
	ErrAlreadyInitialized = errors.New("slot inventory already initialized")
	ErrNoSlotAvailable    = errors.New("no visitor slot available")
	ErrWrongSlotKind      = errors.New("wrong slot kind")
	ErrInvalidWindow      = errors.New("invalid booking window")
	ErrBookingFailed      = errors.New("booking failed")
	ErrNotAllowed         = errors.New("not allowed")
)
