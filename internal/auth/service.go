package auth

import (
	"context"
	"errors"
	"time"

	"github.com/mikelabs-llc/schoolgate-pass/internal/student"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// ErrInvalidParentCredentials keeps the parent error distinct so the
	// handler can phrase it in terms of child ID and password.
	ErrInvalidParentCredentials = errors.New("invalid child ID or password")
)

const refreshTokenTTL = 7 * 24 * time.Hour

type Service struct {
	repo     *Repository
	students student.Repository
	tokens   *TokenManager
}

func NewService(repo *Repository, students student.Repository, tokens *TokenManager) *Service {
	return &Service{
		repo:     repo,
		students: students,
		tokens:   tokens,
	}
}

// Register creates a new staff account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	existing, _ := s.repo.GetProfileByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Role:     "teacher",
		Password: string(hashedPassword),
	}
	if req.DisplayName != "" {
		profile.DisplayName = &req.DisplayName
	}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, profile)
}

// Login authenticates a staff member and returns tokens.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	profile, err := s.repo.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, profile)
}

// RefreshAccessToken generates a new access token from a stored refresh token.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	refreshToken, err := s.repo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	profile, err := s.repo.GetProfileByID(ctx, refreshToken.ProfileID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.generateTokenPair(ctx, profile)
}

// Logout invalidates a refresh token.
func (s *Service) Logout(ctx context.Context, refreshTokenString string) error {
	return s.repo.DeleteRefreshToken(ctx, refreshTokenString)
}

// LogoutAll invalidates all refresh tokens for a profile.
func (s *Service) LogoutAll(ctx context.Context, profileID string) error {
	return s.repo.DeleteAllProfileTokens(ctx, profileID)
}

// ParentLogin checks the child-uid/password pair directly against the student
// row. The comparison is a plain string match: parent credentials are issued
// by the teacher and stored unhashed, as in the portal this schema came from.
func (s *Service) ParentLogin(ctx context.Context, req ParentLoginRequest) (*ParentLoginResponse, error) {
	stud, err := s.students.GetByChildUID(ctx, req.ChildUID)
	if err != nil {
		return nil, ErrInvalidParentCredentials
	}

	if stud.ParentPassword == nil || *stud.ParentPassword != req.Password {
		return nil, ErrInvalidParentCredentials
	}

	token, err := s.tokens.GenerateParentToken(stud.ID, req.ChildUID)
	if err != nil {
		return nil, err
	}

	return &ParentLoginResponse{
		AccessToken: token,
		Student:     stud,
	}, nil
}

func (s *Service) generateTokenPair(ctx context.Context, profile *Profile) (*AuthResponse, error) {
	accessToken, err := s.tokens.GenerateStaffToken(profile)
	if err != nil {
		return nil, err
	}

	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(refreshTokenTTL)
	if err := s.repo.CreateRefreshToken(ctx, profile.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      profile,
	}, nil
}
