package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikelabs-llc/schoolgate-pass/internal/student"
)

func ptr(s string) *string { return &s }

func TestBuildShareLinks(t *testing.T) {
	t.Run("AllChannels", func(t *testing.T) {
		links := BuildShareLinks(&student.Student{
			Name:           "Amara Obi",
			ParentEmail:    ptr("parent@example.com"),
			ParentPhone:    ptr("+420 123 456 789"),
			ParentPassword: ptr("p4rent99"),
			ChildUID:       ptr("AB12CD34"),
			AccessURL:      ptr("https://portal.school.example/parent-auth?uid=AB12CD34"),
		})

		require.NotEmpty(t, links.Email)
		assert.Contains(t, links.Email, "mailto:parent@example.com?subject=")
		assert.Contains(t, links.Email, "AB12CD34")

		require.NotEmpty(t, links.WhatsApp)
		assert.Contains(t, links.WhatsApp, "https://wa.me/420123456789?text=")
		assert.NotContains(t, links.WhatsApp, "+", "phone must be digits only")

		assert.Contains(t, links.CredentialsText, "Child ID: AB12CD34")
		assert.Contains(t, links.CredentialsText, "Password: p4rent99")
	})

	t.Run("MissingPhoneOmitsWhatsApp", func(t *testing.T) {
		links := BuildShareLinks(&student.Student{
			Name:           "Amara Obi",
			ParentEmail:    ptr("parent@example.com"),
			ParentPassword: ptr("p4rent99"),
			ChildUID:       ptr("AB12CD34"),
			AccessURL:      ptr("https://portal.school.example/parent-auth?uid=AB12CD34"),
		})

		assert.NotEmpty(t, links.Email)
		assert.Empty(t, links.WhatsApp)
	})

	t.Run("NoAccessURLOmitsChannelLinks", func(t *testing.T) {
		links := BuildShareLinks(&student.Student{
			Name:        "Amara Obi",
			ParentEmail: ptr("parent@example.com"),
			ParentPhone: ptr("+420123456789"),
		})

		assert.Empty(t, links.Email)
		assert.Empty(t, links.WhatsApp)
		assert.NotEmpty(t, links.CredentialsText)
	})
}
