package changerequest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikelabs-llc/schoolgate-pass/internal/student"
)

func TestComputeDelta(t *testing.T) {
	email := "parent@example.com"
	phone := "+420123456789"
	current := &student.Student{
		Name:        "Amara Obi",
		ParentEmail: &email,
		ParentPhone: &phone,
	}

	t.Run("SameEmailIsNoChange", func(t *testing.T) {
		delta := ComputeDelta(current, SubmissionForm{ParentEmail: email})

		assert.True(t, delta.IsEmpty())
	})

	t.Run("DifferentEmailIsChange", func(t *testing.T) {
		delta := ComputeDelta(current, SubmissionForm{ParentEmail: "new@example.com"})

		require.NotNil(t, delta.ParentEmail)
		assert.Equal(t, "new@example.com", *delta.ParentEmail)
		assert.Nil(t, delta.ParentPhone)
	})

	t.Run("SamePhoneIsNoChange", func(t *testing.T) {
		delta := ComputeDelta(current, SubmissionForm{ParentPhone: phone})

		assert.True(t, delta.IsEmpty())
	})

	t.Run("NameAndPasswordAlwaysCount", func(t *testing.T) {
		delta := ComputeDelta(current, SubmissionForm{
			ParentName:  "New Guardian",
			NewPassword: "secret123",
		})

		require.NotNil(t, delta.ParentName)
		require.NotNil(t, delta.NewPassword)
		assert.Equal(t, "New Guardian", *delta.ParentName)
		assert.Equal(t, "secret123", *delta.NewPassword)
	})

	t.Run("NilCurrentFieldsTreatedAsEmpty", func(t *testing.T) {
		blank := &student.Student{Name: "No Contacts"}

		delta := ComputeDelta(blank, SubmissionForm{ParentEmail: "first@example.com"})

		require.NotNil(t, delta.ParentEmail)
	})

	t.Run("EmptyFormIsEmptyDelta", func(t *testing.T) {
		assert.True(t, ComputeDelta(current, SubmissionForm{}).IsEmpty())
	})
}
