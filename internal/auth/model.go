package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// Profile is a staff account (teacher or admin). Staff passwords are bcrypt
// hashed, unlike the parent credential pair which the portal keeps in the
// clear on the student row.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID          string    `bun:"id,pk" json:"id"`
	Email       string    `bun:"email,unique,notnull" json:"email" validate:"required,email"`
	DisplayName *string   `bun:"display_name" json:"display_name"`
	Role        string    `bun:"role,notnull,default:'teacher'" json:"role"`
	Password    string    `bun:"password,notnull" json:"-"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// RefreshToken stores staff refresh tokens in the database.
type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rt"`

	ID        int       `bun:"id,pk,autoincrement"`
	ProfileID string    `bun:"profile_id,notnull"`
	Token     string    `bun:"token,unique,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// RegisterRequest is the request body for staff registration.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the request body for staff login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse is the response for successful staff authentication.
type AuthResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	Profile      *Profile `json:"profile"`
}

// ParentLoginRequest is the parent portal credential pair.
type ParentLoginRequest struct {
	ChildUID string `json:"child_uid" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ParentLoginResponse carries the parent session token and the student the
// session is scoped to.
type ParentLoginResponse struct {
	AccessToken string      `json:"accessToken"`
	Student     interface{} `json:"student"`
}
