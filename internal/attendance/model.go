package attendance

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// Record marks one student present or absent on one day. A student has at
// most one record per day; re-marking updates it in place.
type Record struct {
	bun.BaseModel `bun:"table:attendance,alias:a"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	StudentID int       `bun:"student_id,notnull" json:"student_id"`
	Date      string    `bun:"date,notnull,type:date" json:"date"`
	Status    string    `bun:"status,notnull" json:"status"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Summary aggregates a student's attendance history.
type Summary struct {
	TotalDays   int     `json:"total_days"`
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
	Percentage  float64 `json:"percentage"`
}

// MarkRequest is the staff request body for marking attendance.
type MarkRequest struct {
	StudentID int    `json:"student_id" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=Present Absent"`
}
