package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager("test-secret-key-for-testing")

	t.Run("StaffTokenRoundTrip", func(t *testing.T) {
		name := "Ms. Adeyemi"
		profile := &Profile{
			ID:          "b6f6a0e2-0000-4000-8000-000000000001",
			Email:       "adeyemi@school.example",
			DisplayName: &name,
		}

		token, err := tm.GenerateStaffToken(profile)
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, RoleStaff, claims.Role)
		assert.Equal(t, profile.ID, claims.ProfileID)
		assert.Equal(t, "Ms. Adeyemi", claims.Subject)
		assert.Zero(t, claims.StudentID)
	})

	t.Run("StaffSubjectFallsBackToEmail", func(t *testing.T) {
		profile := &Profile{
			ID:    "b6f6a0e2-0000-4000-8000-000000000002",
			Email: "noname@school.example",
		}

		token, err := tm.GenerateStaffToken(profile)
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "noname@school.example", claims.Subject)
	})

	t.Run("ParentTokenRoundTrip", func(t *testing.T) {
		token, err := tm.GenerateParentToken(7, "AB12CD34")
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, RoleParent, claims.Role)
		assert.Equal(t, 7, claims.StudentID)
		assert.Equal(t, "AB12CD34", claims.Subject)
		assert.Empty(t, claims.ProfileID)
	})

	t.Run("WrongSecretRejected", func(t *testing.T) {
		other := NewTokenManager("a-different-secret")
		token, err := other.GenerateParentToken(7, "AB12CD34")
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("GarbageRejected", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	first, err := GenerateRefreshToken()
	require.NoError(t, err)
	second, err := GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}
