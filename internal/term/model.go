package term

import (
	"time"

	"github.com/uptrace/bun"
)

// Term is a school term with the fee owed for it. At most one term is active
// at a time; the active one drives the outstanding-balance calculation.
type Term struct {
	bun.BaseModel `bun:"table:terms,alias:t"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name" validate:"required"`
	StartDate string    `bun:"start_date,notnull,type:date" json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string    `bun:"end_date,notnull,type:date" json:"end_date" validate:"required,datetime=2006-01-02"`
	FeeAmount float64   `bun:"fee_amount,notnull,default:0" json:"fee_amount" validate:"gte=0"`
	IsActive  bool      `bun:"is_active,notnull,default:false" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
