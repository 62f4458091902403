package attendance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("EmptyHistory", func(t *testing.T) {
		summary := Summarize(nil)

		assert.Equal(t, 0, summary.TotalDays)
		assert.Equal(t, float64(0), summary.Percentage)
	})

	t.Run("AllPresent", func(t *testing.T) {
		summary := Summarize([]Record{
			{Status: StatusPresent},
			{Status: StatusPresent},
		})

		assert.Equal(t, 2, summary.PresentDays)
		assert.Equal(t, 0, summary.AbsentDays)
		assert.Equal(t, float64(100), summary.Percentage)
	})

	t.Run("RoundsToOneDecimal", func(t *testing.T) {
		summary := Summarize([]Record{
			{Status: StatusPresent},
			{Status: StatusPresent},
			{Status: StatusAbsent},
		})

		assert.Equal(t, 3, summary.TotalDays)
		assert.Equal(t, 66.7, summary.Percentage)
	})
}

type stubRepo struct {
	Repository
	marked *Record
}

func (s *stubRepo) Mark(ctx context.Context, studentID int, date, status string) (*Record, error) {
	s.marked = &Record{StudentID: studentID, Date: date, Status: status}
	return s.marked, nil
}

func TestService_Mark(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		_, err := svc.Mark(ctx, 1, "2026-03-15", "Late")

		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Nil(t, repo.marked)
	})

	t.Run("AcceptsPresent", func(t *testing.T) {
		rec, err := svc.Mark(ctx, 1, "2026-03-15", StatusPresent)

		require.NoError(t, err)
		assert.Equal(t, StatusPresent, rec.Status)
	})
}
