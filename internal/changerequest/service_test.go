package changerequest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikelabs-llc/schoolgate-pass/internal/metrics"
	"github.com/mikelabs-llc/schoolgate-pass/internal/student"
)

type fakeRepository struct {
	requests map[int]*Request
	nextID   int

	lastPatch      *student.Patch
	transitionErrs []error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{requests: make(map[int]*Request), nextID: 1}
}

func (f *fakeRepository) ListForStudent(ctx context.Context, studentID, limit int) ([]Request, error) {
	var out []Request
	for _, req := range f.requests {
		if req.StudentID == studentID {
			out = append(out, *req)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepository) ListAll(ctx context.Context) ([]QueueEntry, error) {
	var out []QueueEntry
	for _, req := range f.requests {
		out = append(out, QueueEntry{Request: *req})
	}
	return out, nil
}

func (f *fakeRepository) Create(ctx context.Context, request *Request) (*Request, error) {
	request.ID = f.nextID
	f.nextID++
	request.Status = StatusPending
	request.RequestedAt = time.Now()
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id int) (*Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRepository) Transition(ctx context.Context, id int, newStatus string, approvedBy string, notes *string, patch student.Patch) error {
	if len(f.transitionErrs) > 0 {
		err := f.transitionErrs[0]
		f.transitionErrs = f.transitionErrs[1:]
		if err != nil {
			return err
		}
	}
	req, ok := f.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	if req.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	now := time.Now()
	req.Status = newStatus
	req.ApprovedAt = &now
	req.ApprovedBy = &approvedBy
	req.Notes = notes
	f.lastPatch = &patch
	return nil
}

type fakeStudents struct {
	students map[int]*student.Student
}

func (f *fakeStudents) Create(ctx context.Context, s *student.Student) (*student.Student, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStudents) GetAll(ctx context.Context) ([]student.Student, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStudents) GetByID(ctx context.Context, id int) (*student.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeStudents) GetByChildUID(ctx context.Context, childUID string) (*student.Student, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStudents) Update(ctx context.Context, s *student.Student) error {
	return errors.New("not implemented")
}

func (f *fakeStudents) ApplyPatch(ctx context.Context, id int, patch student.Patch) error {
	return errors.New("not implemented")
}

func (f *fakeStudents) Delete(ctx context.Context, id int) error {
	return errors.New("not implemented")
}

type fakeNotifier struct {
	published []string
	err       error
}

func (f *fakeNotifier) PublishRequestResolved(ctx context.Context, requestID, studentID int, outcome string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, outcome)
	return nil
}

func newTestService(repo Repository, students student.Repository, notifier Notifier) Service {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewService(repo, students, notifier, logger, metrics.NewMock())
}

func testStudent(id int) *student.Student {
	email := "parent@example.com"
	phone := "+420123456789"
	return &student.Student{
		ID:          id,
		Name:        "Amara Obi",
		Class:       "JSS 2",
		ParentEmail: &email,
		ParentPhone: &phone,
	}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := newFakeRepository()
		students := &fakeStudents{students: map[int]*student.Student{1: testStudent(1)}}
		svc := newTestService(repo, students, &fakeNotifier{})

		history, err := svc.Submit(ctx, 1, SubmissionForm{ParentEmail: "new@example.com"})

		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, StatusPending, history[0].Status)
		require.NotNil(t, history[0].ParentEmail)
		assert.Equal(t, "new@example.com", *history[0].ParentEmail)
	})

	t.Run("UnknownStudent", func(t *testing.T) {
		repo := newFakeRepository()
		students := &fakeStudents{students: map[int]*student.Student{}}
		svc := newTestService(repo, students, &fakeNotifier{})

		_, err := svc.Submit(ctx, 42, SubmissionForm{ParentEmail: "new@example.com"})

		assert.ErrorIs(t, err, student.ErrStudentNotFound)
	})

	t.Run("NoChanges", func(t *testing.T) {
		repo := newFakeRepository()
		students := &fakeStudents{students: map[int]*student.Student{1: testStudent(1)}}
		svc := newTestService(repo, students, &fakeNotifier{})

		_, err := svc.Submit(ctx, 1, SubmissionForm{ParentEmail: "parent@example.com"})

		assert.ErrorIs(t, err, ErrNoChanges)
		assert.Empty(t, repo.requests)
	})

	t.Run("CooldownBlocks", func(t *testing.T) {
		repo := newFakeRepository()
		repo.requests[9] = &Request{
			ID:          9,
			StudentID:   1,
			Status:      StatusApproved,
			RequestedAt: time.Now().AddDate(0, 0, -30),
		}
		repo.nextID = 10
		students := &fakeStudents{students: map[int]*student.Student{1: testStudent(1)}}
		svc := newTestService(repo, students, &fakeNotifier{})

		_, err := svc.Submit(ctx, 1, SubmissionForm{ParentEmail: "new@example.com"})

		var cooldownErr *CooldownError
		require.ErrorAs(t, err, &cooldownErr)
		assert.Greater(t, cooldownErr.Remaining, time.Duration(0))
	})

	t.Run("PendingExists", func(t *testing.T) {
		repo := newFakeRepository()
		repo.requests[9] = &Request{
			ID:          9,
			StudentID:   1,
			Status:      StatusPending,
			RequestedAt: time.Now().AddDate(0, 0, -1),
		}
		repo.nextID = 10
		students := &fakeStudents{students: map[int]*student.Student{1: testStudent(1)}}
		svc := newTestService(repo, students, &fakeNotifier{})

		_, err := svc.Submit(ctx, 1, SubmissionForm{ParentEmail: "new@example.com"})

		assert.ErrorIs(t, err, ErrPendingExists)
	})
}

func TestService_Approve(t *testing.T) {
	ctx := context.Background()

	pendingRequest := func(repo *fakeRepository) *Request {
		email := "new@example.com"
		password := "secret123"
		name := "New Guardian"
		req := &Request{
			ID:          1,
			StudentID:   1,
			ParentName:  &name,
			ParentEmail: &email,
			NewPassword: &password,
			Status:      StatusPending,
			RequestedAt: time.Now(),
		}
		repo.requests[1] = req
		repo.nextID = 2
		return req
	}

	t.Run("PatchesAcceptedFields", func(t *testing.T) {
		repo := newFakeRepository()
		pendingRequest(repo)
		notifier := &fakeNotifier{}
		svc := newTestService(repo, &fakeStudents{}, notifier)

		err := svc.Approve(ctx, 1, "teacher@school.example", "ok")

		require.NoError(t, err)
		assert.Equal(t, StatusApproved, repo.requests[1].Status)

		require.NotNil(t, repo.lastPatch)
		require.NotNil(t, repo.lastPatch.ParentEmail)
		assert.Equal(t, "new@example.com", *repo.lastPatch.ParentEmail)
		require.NotNil(t, repo.lastPatch.ParentPassword)
		assert.Equal(t, "secret123", *repo.lastPatch.ParentPassword)
		assert.Nil(t, repo.lastPatch.ParentPhone)

		assert.Equal(t, []string{StatusApproved}, notifier.published)
	})

	t.Run("AlreadyProcessed", func(t *testing.T) {
		repo := newFakeRepository()
		req := pendingRequest(repo)
		req.Status = StatusRejected
		svc := newTestService(repo, &fakeStudents{}, &fakeNotifier{})

		err := svc.Approve(ctx, 1, "teacher@school.example", "")

		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := newFakeRepository()
		svc := newTestService(repo, &fakeStudents{}, &fakeNotifier{})

		err := svc.Approve(ctx, 404, "teacher@school.example", "")

		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("TransitionFailureStaysPending", func(t *testing.T) {
		repo := newFakeRepository()
		pendingRequest(repo)
		repo.transitionErrs = []error{errors.New("db down")}
		svc := newTestService(repo, &fakeStudents{}, &fakeNotifier{})

		err := svc.Approve(ctx, 1, "teacher@school.example", "")

		require.Error(t, err)
		assert.Equal(t, StatusPending, repo.requests[1].Status)
	})

	t.Run("NotifierFailureDoesNotFailApproval", func(t *testing.T) {
		repo := newFakeRepository()
		pendingRequest(repo)
		svc := newTestService(repo, &fakeStudents{}, &fakeNotifier{err: errors.New("broker down")})

		err := svc.Approve(ctx, 1, "teacher@school.example", "")

		require.NoError(t, err)
		assert.Equal(t, StatusApproved, repo.requests[1].Status)
	})
}

func TestService_Reject(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepository()
	email := "new@example.com"
	repo.requests[1] = &Request{
		ID:          1,
		StudentID:   1,
		ParentEmail: &email,
		Status:      StatusPending,
		RequestedAt: time.Now(),
	}
	repo.nextID = 2
	notifier := &fakeNotifier{}
	svc := newTestService(repo, &fakeStudents{}, notifier)

	err := svc.Reject(ctx, 1, "teacher@school.example", "outdated contact")

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, repo.requests[1].Status)
	require.NotNil(t, repo.requests[1].Notes)
	assert.Equal(t, "outdated contact", *repo.requests[1].Notes)

	// Rejection never touches the student row.
	require.NotNil(t, repo.lastPatch)
	assert.True(t, repo.lastPatch.IsEmpty())

	assert.Equal(t, []string{StatusRejected}, notifier.published)
}

func TestService_ReviewQueue(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepository()
	repo.requests[1] = &Request{ID: 1, StudentID: 1, Status: StatusPending}
	repo.requests[2] = &Request{ID: 2, StudentID: 2, Status: StatusApproved}
	repo.requests[3] = &Request{ID: 3, StudentID: 2, Status: StatusRejected}
	repo.requests[4] = &Request{ID: 4, StudentID: 3, Status: StatusApproved}
	repo.nextID = 5
	svc := newTestService(repo, &fakeStudents{}, &fakeNotifier{})

	queue, err := svc.ReviewQueue(ctx)

	require.NoError(t, err)
	assert.Len(t, queue.Requests, 4)
	assert.Equal(t, Summary{Pending: 1, Approved: 2, Rejected: 1}, queue.Summary)
}
