package changerequest

import "github.com/mikelabs-llc/schoolgate-pass/internal/student"

// Delta is the set of proposed fields that actually differ from the student's
// current record. Nil means no change requested for that field.
type Delta struct {
	ParentName  *string
	ParentEmail *string
	ParentPhone *string
	NewPassword *string
}

func (d Delta) IsEmpty() bool {
	return d.ParentName == nil && d.ParentEmail == nil && d.ParentPhone == nil && d.NewPassword == nil
}

// ComputeDelta compares the submitted form against the student's current
// contact fields. Email and phone count as changes only when they differ from
// the current value; name and password have no stored baseline, so any
// non-empty value is a requested change.
func ComputeDelta(current *student.Student, form SubmissionForm) Delta {
	var d Delta

	if form.ParentName != "" {
		d.ParentName = &form.ParentName
	}
	if form.ParentEmail != "" && form.ParentEmail != strValue(current.ParentEmail) {
		d.ParentEmail = &form.ParentEmail
	}
	if form.ParentPhone != "" && form.ParentPhone != strValue(current.ParentPhone) {
		d.ParentPhone = &form.ParentPhone
	}
	if form.NewPassword != "" {
		d.NewPassword = &form.NewPassword
	}

	return d
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
