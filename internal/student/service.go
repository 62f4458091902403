package student

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidInput    = errors.New("invalid input")
)

const credentialAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Credentials is the parent access pair issued for a student.
type Credentials struct {
	ChildUID string `json:"child_uid"`
	Password string `json:"password"`
}

type Service interface {
	CreateStudent(ctx context.Context, student *Student) (*Student, error)
	GetAllStudents(ctx context.Context) ([]Student, error)
	GetStudentByID(ctx context.Context, id int) (*Student, error)
	UpdateStudent(ctx context.Context, student *Student) error
	DeleteStudent(ctx context.Context, id int) error
	SetProfilePhoto(ctx context.Context, id int, photoURL string) error
	GenerateCredentials() (Credentials, error)
}

// Notifier announces issued credential pairs. Publishing is best-effort and
// never fails the registration.
type Notifier interface {
	PublishCredentialsIssued(ctx context.Context, studentID int, childUID string) error
}

type service struct {
	repo          Repository
	notifier      Notifier
	portalBaseURL string
}

func NewService(repo Repository, portalBaseURL string, notifier Notifier) Service {
	return &service{
		repo:          repo,
		notifier:      notifier,
		portalBaseURL: strings.TrimRight(portalBaseURL, "/"),
	}
}

// CreateStudent registers a student. A credential pair is generated when the
// teacher did not provide one, and the parent access URL is derived from the
// child UID.
func (s *service) CreateStudent(ctx context.Context, student *Student) (*Student, error) {
	if student.ChildUID == nil || *student.ChildUID == "" || student.ParentPassword == nil || *student.ParentPassword == "" {
		creds, err := s.GenerateCredentials()
		if err != nil {
			return nil, err
		}
		if student.ChildUID == nil || *student.ChildUID == "" {
			student.ChildUID = &creds.ChildUID
		}
		if student.ParentPassword == nil || *student.ParentPassword == "" {
			student.ParentPassword = &creds.Password
		}
	}

	student.AccessURL = s.accessURL(*student.ChildUID)
	created, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && created.ChildUID != nil {
		// Best-effort: registration succeeded regardless.
		_ = s.notifier.PublishCredentialsIssued(ctx, created.ID, *created.ChildUID)
	}
	return created, nil
}

func (s *service) GetAllStudents(ctx context.Context) ([]Student, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetStudentByID(ctx context.Context, id int) (*Student, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateStudent(ctx context.Context, student *Student) error {
	if student.ID <= 0 {
		return ErrInvalidInput
	}
	if student.ChildUID != nil && *student.ChildUID != "" {
		student.AccessURL = s.accessURL(*student.ChildUID)
	}
	return s.repo.Update(ctx, student)
}

func (s *service) DeleteStudent(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) SetProfilePhoto(ctx context.Context, id int, photoURL string) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.ApplyPatch(ctx, id, Patch{ProfilePhotoURL: &photoURL})
}

// GenerateCredentials issues a fresh child UID (8 upper-case alphanumeric
// characters) and parent password (8 lower-case alphanumeric characters).
func (s *service) GenerateCredentials() (Credentials, error) {
	uid, err := randomToken(8)
	if err != nil {
		return Credentials{}, err
	}
	password, err := randomToken(8)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		ChildUID: strings.ToUpper(uid),
		Password: password,
	}, nil
}

func (s *service) accessURL(childUID string) *string {
	url := fmt.Sprintf("%s/parent-auth?uid=%s", s.portalBaseURL, childUID)
	return &url
}

func randomToken(length int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(credentialAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate credential: %w", err)
		}
		b.WriteByte(credentialAlphabet[n.Int64()])
	}
	return b.String(), nil
}
