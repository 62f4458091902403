package changerequest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownRemaining(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	approvedAt := func(daysAgo int) Request {
		return Request{
			Status:      StatusApproved,
			RequestedAt: now.AddDate(0, 0, -daysAgo),
		}
	}

	t.Run("ApprovedInsideWindow_Blocks", func(t *testing.T) {
		history := []Request{approvedAt(30)}

		remaining := CooldownRemaining(history, now)

		assert.Greater(t, remaining, time.Duration(0))
		assert.Equal(t, 30*24*time.Hour, remaining)
	})

	t.Run("ApprovedOutsideWindow_Allows", func(t *testing.T) {
		history := []Request{approvedAt(61)}

		assert.Equal(t, time.Duration(0), CooldownRemaining(history, now))
	})

	t.Run("RejectedAndPendingNeverBlock", func(t *testing.T) {
		history := []Request{
			{Status: StatusRejected, RequestedAt: now.AddDate(0, 0, -5)},
			{Status: StatusPending, RequestedAt: now.AddDate(0, 0, -1)},
		}

		assert.Equal(t, time.Duration(0), CooldownRemaining(history, now))
	})

	t.Run("MostRecentApprovedWins", func(t *testing.T) {
		history := []Request{approvedAt(50), approvedAt(10)}

		assert.Equal(t, 50*24*time.Hour, CooldownRemaining(history, now))
	})

	t.Run("EmptyHistory_Allows", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), CooldownRemaining(nil, now))
	})
}

func TestCooldownError_Message(t *testing.T) {
	err := &CooldownError{Remaining: 30*24*time.Hour + time.Hour}
	assert.Contains(t, err.Error(), "31 day(s)")
}
