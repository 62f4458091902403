package student

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	Repository
	created *Student
}

func (f *fakeRepo) Create(ctx context.Context, s *Student) (*Student, error) {
	s.ID = 1
	f.created = s
	return s, nil
}

func TestService_CreateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("GeneratesCredentialsWhenAbsent", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, "https://portal.school.example/", nil)

		created, err := svc.CreateStudent(ctx, &Student{Name: "Amara Obi", Class: "JSS 2"})

		require.NoError(t, err)
		require.NotNil(t, created.ChildUID)
		assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), *created.ChildUID)
		require.NotNil(t, created.ParentPassword)
		assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{8}$`), *created.ParentPassword)
		require.NotNil(t, created.AccessURL)
		assert.Equal(t, "https://portal.school.example/parent-auth?uid="+*created.ChildUID, *created.AccessURL)
	})

	t.Run("KeepsProvidedCredentials", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, "https://portal.school.example", nil)

		uid := "AB12CD34"
		password := "p4rent99"
		created, err := svc.CreateStudent(ctx, &Student{
			Name:           "Amara Obi",
			Class:          "JSS 2",
			ChildUID:       &uid,
			ParentPassword: &password,
		})

		require.NoError(t, err)
		assert.Equal(t, "AB12CD34", *created.ChildUID)
		assert.Equal(t, "p4rent99", *created.ParentPassword)
		assert.Equal(t, "https://portal.school.example/parent-auth?uid=AB12CD34", *created.AccessURL)
	})
}

func TestService_GenerateCredentials(t *testing.T) {
	svc := NewService(&fakeRepo{}, "https://portal.school.example", nil)

	first, err := svc.GenerateCredentials()
	require.NoError(t, err)
	second, err := svc.GenerateCredentials()
	require.NoError(t, err)

	assert.Len(t, first.ChildUID, 8)
	assert.Len(t, first.Password, 8)
	assert.NotEqual(t, first.ChildUID, second.ChildUID)
}

func TestService_InputValidation(t *testing.T) {
	svc := NewService(&fakeRepo{}, "https://portal.school.example", nil)
	ctx := context.Background()

	_, err := svc.GetStudentByID(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, svc.DeleteStudent(ctx, -1), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetProfilePhoto(ctx, 0, "key"), ErrInvalidInput)
}
