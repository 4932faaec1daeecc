package repository

import "errors"

// Store-level failure kinds. Conditional updates report which guard failed
// so the service layer can retry with a fresh candidate or surface the
// conflict to the caller.
var (
	ErrNotFound         = errors.New("record not found")
	ErrSlotNotAvailable = errors.New("slot not available")
	ErrAlreadyTerminal  = errors.New("booking already terminal")
)
