package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mikelabs-llc/schoolgate-pass/internal/student"
)

// ShareLinks carries prebuilt deep links staff can hand to a parent.
type ShareLinks struct {
	Email           string `json:"email,omitempty"`
	WhatsApp        string `json:"whatsapp,omitempty"`
	CredentialsText string `json:"credentials_text"`
}

// BuildShareLinks renders mailto: and wa.me links embedding the student's
// access URL and parent credentials. A channel link is omitted when the
// contact detail it needs is missing.
func BuildShareLinks(stud *student.Student) ShareLinks {
	childUID := deref(stud.ChildUID)
	password := deref(stud.ParentPassword)
	accessURL := deref(stud.AccessURL)

	links := ShareLinks{
		CredentialsText: fmt.Sprintf("Child ID: %s\nPassword: %s\nLink: %s", childUID, password, accessURL),
	}

	if accessURL == "" {
		return links
	}

	if email := deref(stud.ParentEmail); email != "" {
		subject := fmt.Sprintf("Access to %s's School Records", stud.Name)
		body := fmt.Sprintf("Dear Parent,\n\n"+
			"You can now access %s's school records including attendance and fee payments using the link below.\n\n"+
			"Access Link: %s\n\n"+
			"Login Credentials:\n"+
			"Child ID: %s\n"+
			"Password: %s\n\n"+
			"Please keep these credentials secure and do not share them with others.\n\n"+
			"Best regards,\nSchool Administration",
			stud.Name, accessURL, childUID, password)
		links.Email = fmt.Sprintf("mailto:%s?subject=%s&body=%s",
			email, url.QueryEscape(subject), url.QueryEscape(body))
	}

	if phone := cleanPhone(deref(stud.ParentPhone)); phone != "" {
		message := fmt.Sprintf("Hello! You can now access %s's school records:\n\n"+
			"Link: %s\n"+
			"Child ID: %s\n"+
			"Password: %s\n\n"+
			"View attendance and fee payments anytime. Keep credentials secure.",
			stud.Name, accessURL, childUID, password)
		links.WhatsApp = fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
	}

	return links
}

// cleanPhone strips everything except digits; wa.me rejects formatted numbers.
func cleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
