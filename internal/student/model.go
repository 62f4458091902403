package student

import (
	"time"

	"github.com/uptrace/bun"
)

// Student is a pupil record. The parent-facing credential pair
// (child_uid/parent_password) is issued by the teacher and stored in the
// clear; parents authenticate against it directly.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID              int       `bun:"id,pk,autoincrement" json:"id"`
	Name            string    `bun:"name,notnull" json:"name" validate:"required"`
	Class           string    `bun:"class,notnull" json:"class" validate:"required"`
	ParentEmail     *string   `bun:"parent_email" json:"parent_email"`
	ParentPhone     *string   `bun:"parent_phone" json:"parent_phone"`
	ParentPassword  *string   `bun:"parent_password" json:"parent_password"`
	ChildUID        *string   `bun:"child_uid,unique" json:"child_uid"`
	AccessURL       *string   `bun:"access_url" json:"access_url"`
	ProfilePhotoURL *string   `bun:"profile_photo_url" json:"profile_photo_url"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Patch is a partial column update applied to a student row, typically when a
// profile change request is approved. Nil fields are left untouched.
type Patch struct {
	ParentEmail     *string
	ParentPhone     *string
	ParentPassword  *string
	ProfilePhotoURL *string
}

func (p Patch) IsEmpty() bool {
	return p.ParentEmail == nil && p.ParentPhone == nil && p.ParentPassword == nil && p.ProfilePhotoURL == nil
}

// Columns returns the patch as column name to value pairs.
func (p Patch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.ParentEmail != nil {
		cols["parent_email"] = *p.ParentEmail
	}
	if p.ParentPhone != nil {
		cols["parent_phone"] = *p.ParentPhone
	}
	if p.ParentPassword != nil {
		cols["parent_password"] = *p.ParentPassword
	}
	if p.ProfilePhotoURL != nil {
		cols["profile_photo_url"] = *p.ProfilePhotoURL
	}
	return cols
}
