package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// RoleStaff marks tokens issued to teachers through the staff login.
	RoleStaff = "staff"
	// RoleParent marks tokens issued through the child-uid/password login.
	RoleParent = "parent"

	accessTokenTTL = 15 * time.Minute
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the access token payload for both session kinds. StudentID is
// only meaningful for parent sessions, ProfileID only for staff.
type Claims struct {
	Role      string `json:"role"`
	ProfileID string `json:"profile_id,omitempty"`
	StudentID int    `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates portal access tokens.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateStaffToken issues an access token for a staff profile. The subject
// is the identity recorded as approver on reviewed requests.
func (tm *TokenManager) GenerateStaffToken(profile *Profile) (string, error) {
	subject := profile.Email
	if profile.DisplayName != nil && *profile.DisplayName != "" {
		subject = *profile.DisplayName
	}
	return tm.sign(Claims{
		Role:      RoleStaff,
		ProfileID: profile.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// GenerateParentToken issues an access token scoped to one student.
func (tm *TokenManager) GenerateParentToken(studentID int, childUID string) (string, error) {
	return tm.sign(Claims{
		Role:      RoleParent,
		StudentID: studentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   childUID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func (tm *TokenManager) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies an access token.
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateRefreshToken returns a random opaque refresh token.
func GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
