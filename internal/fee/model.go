package fee

import (
	"time"

	"github.com/uptrace/bun"
)

// Payment is a fee payment recorded against a student.
type Payment struct {
	bun.BaseModel `bun:"table:fee_payments,alias:fp"`

	ID          int       `bun:"id,pk,autoincrement" json:"id"`
	StudentID   int       `bun:"student_id,notnull" json:"student_id" validate:"required,gt=0"`
	Amount      float64   `bun:"amount,notnull" json:"amount" validate:"required,gt=0"`
	Method      *string   `bun:"method" json:"method"`
	PaymentDate string    `bun:"payment_date,notnull,type:date" json:"payment_date" validate:"required,datetime=2006-01-02"`
	Notes       *string   `bun:"notes" json:"notes"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Statement is a student's payment history with the totals shown on both
// dashboards. Balance is against the active term's fee; it is zero when no
// term is active.
type Statement struct {
	Payments  []Payment `json:"payments"`
	TotalPaid float64   `json:"total_paid"`
	TermFee   float64   `json:"term_fee"`
	Balance   float64   `json:"balance"`
}
