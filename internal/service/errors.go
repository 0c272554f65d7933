package service

import "errors"

// Sentinel errors shared by the core services. Handlers map these onto
// API error codes; everything else surfaces as an internal error.
var (
	// ErrNotFound covers missing or soft-deleted targets.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden is deliberately unspecific so callers cannot probe
	// classroom membership through error messages.
	ErrForbidden = errors.New("forbidden")
	// ErrEmptyTarget is returned when a distribution resolves to zero
	// students.
	ErrEmptyTarget = errors.New("assignment target set is empty")
	// ErrTargetNotInRoster is returned when a selected student id is not
	// enrolled; ids are never silently dropped.
	ErrTargetNotInRoster = errors.New("selected student is not in the classroom roster")
	// ErrGradeOutOfRange is returned for grades outside [0, 100].
	ErrGradeOutOfRange = errors.New("grade out of range")
	// ErrRoleMismatch is returned when a referenced user does not carry
	// the role the operation requires.
	ErrRoleMismatch = errors.New("user role mismatch")
	// ErrDistributionFailed signals a rolled-back fan-out; the caller may
	// retry the whole create.
	ErrDistributionFailed = errors.New("assignment distribution failed")
)
