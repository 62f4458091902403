package changerequest

import "time"

// CooldownWindow is how long a parent must wait after an approved change
// before submitting another request.
const CooldownWindow = 60 * 24 * time.Hour

// CooldownRemaining inspects a student's request history and reports how long
// the cooldown still has to run at the given instant. A zero duration means a
// new submission is allowed.
//
// Only approved requests count: pending and rejected ones never block. When
// several approved requests fall inside the window, the most recent one
// determines the remaining time.
func CooldownRemaining(history []Request, now time.Time) time.Duration {
	var remaining time.Duration
	for _, req := range history {
		if req.Status != StatusApproved {
			continue
		}
		if until := req.RequestedAt.Add(CooldownWindow).Sub(now); until > remaining {
			remaining = until
		}
	}
	return remaining
}
