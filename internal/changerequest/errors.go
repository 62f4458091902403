package changerequest

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoChanges is returned when the submitted form matches the student's
	// current profile, so there is nothing to request.
	ErrNoChanges = errors.New("no changes requested")

	// ErrPendingExists blocks a second submission while one is still awaiting
	// review.
	ErrPendingExists = errors.New("a pending request already exists for this student")

	// ErrRequestNotFound is returned when the request id does not exist.
	ErrRequestNotFound = errors.New("change request not found")

	// ErrAlreadyProcessed is returned when a transition is attempted on a
	// request that is no longer pending.
	ErrAlreadyProcessed = errors.New("change request already processed")
)

// CooldownError reports that an approved change inside the cooldown window
// blocks a new submission, and how long the parent still has to wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	days := int(e.Remaining.Hours()/24) + 1
	return fmt.Sprintf("cooldown active: profile can be changed again in %d day(s)", days)
}
