package changerequest

import (
	"time"

	"github.com/uptrace/bun"
)

// Status values a request moves through. Pending is the only non-terminal
// state; approved and rejected are final.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Request is a parent-submitted profile change awaiting teacher review. Each
// proposed field is nil when no change to it was requested. ApprovedAt,
// ApprovedBy and Notes are set exactly once, when the request leaves pending.
type Request struct {
	bun.BaseModel `bun:"table:profile_change_requests,alias:pcr"`

	ID          int        `bun:"id,pk,autoincrement" json:"id"`
	StudentID   int        `bun:"student_id,notnull" json:"student_id"`
	ParentName  *string    `bun:"parent_name" json:"parent_name"`
	ParentEmail *string    `bun:"parent_email" json:"parent_email"`
	ParentPhone *string    `bun:"parent_phone" json:"parent_phone"`
	NewPassword *string    `bun:"new_password" json:"new_password"`
	Status      string     `bun:"status,notnull,default:'pending'" json:"status"`
	RequestedAt time.Time  `bun:"requested_at,notnull,default:current_timestamp" json:"requested_at"`
	ApprovedAt  *time.Time `bun:"approved_at" json:"approved_at"`
	ApprovedBy  *string    `bun:"approved_by" json:"approved_by"`
	Notes       *string    `bun:"notes" json:"notes"`
}

// QueueEntry is a request joined with the display fields of its student, as
// shown in the teacher review queue.
type QueueEntry struct {
	Request      `bun:",extend"`
	StudentName  string  `bun:"student_name,scanonly" json:"student_name"`
	StudentClass string  `bun:"student_class,scanonly" json:"student_class"`
	CurrentEmail *string `bun:"current_email,scanonly" json:"current_email"`
}

// Summary is the per-status count bar above the review queue.
type Summary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// SubmissionForm carries the values a parent typed into the change dialog.
// Empty strings mean the field was left untouched.
type SubmissionForm struct {
	ParentName  string `json:"parent_name"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
	ParentPhone string `json:"parent_phone"`
	NewPassword string `json:"new_password" validate:"omitempty,min=6"`
}
