package handler

import (
	"context"
	"sync"

	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/campusconnect-nz/campus-api/internal/service"
	"github.com/google/uuid"
)

type memoryCourses struct {
	mu      sync.Mutex
	courses []model.Course
	err     error
}

func (m *memoryCourses) List(context.Context, string) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]model.Course{}, m.courses...), nil
}

func (m *memoryCourses) FindByID(_ context.Context, id string) (model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Course{}, repository.ErrNotFound
}

func (m *memoryCourses) Create(_ context.Context, course model.Course) (model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.Code == course.Code {
			return model.Course{}, repository.ErrConflict
		}
	}
	course.ID = uuid.NewString()
	m.courses = append(m.courses, course)
	return course, nil
}

func (m *memoryCourses) Update(_ context.Context, course model.Course) (model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.courses {
		if c.ID == course.ID {
			course.CreatedBy = c.CreatedBy
			m.courses[i] = course
			return course, nil
		}
	}
	return model.Course{}, repository.ErrNotFound
}

func (m *memoryCourses) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.courses {
		if c.ID == id {
			m.courses = append(m.courses[:i], m.courses[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memoryReviews struct {
	mu      sync.Mutex
	reviews []model.Review
}

func (m *memoryReviews) ListByCourse(_ context.Context, courseID string) ([]model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Review{}
	for _, r := range m.reviews {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryReviews) FindByID(_ context.Context, id string) (model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Review{}, repository.ErrNotFound
}

func (m *memoryReviews) Create(_ context.Context, review model.Review) (model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.CourseID == review.CourseID && r.UserID == review.UserID {
			return model.Review{}, repository.ErrConflict
		}
	}
	review.ID = uuid.NewString()
	m.reviews = append(m.reviews, review)
	return review, nil
}

func (m *memoryReviews) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.reviews {
		if r.ID == id {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memoryNotes struct {
	mu    sync.Mutex
	notes []model.Note
}

func (m *memoryNotes) List(_ context.Context, courseID string) ([]model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Note{}
	for _, n := range m.notes {
		if courseID == "" || n.CourseID == courseID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memoryNotes) FindByID(_ context.Context, id string) (model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Note{}, repository.ErrNotFound
}

func (m *memoryNotes) Create(_ context.Context, note model.Note) (model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, note)
	return note, nil
}

func (m *memoryNotes) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.notes {
		if n.ID == id {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// stubAuth returns err from every call, or a fixed session/user.
type stubAuth struct {
	err     error
	session service.Session
	user    model.User
	calls   []string
}

func (s *stubAuth) record(name string) error {
	s.calls = append(s.calls, name)
	return s.err
}

func (s *stubAuth) Signup(context.Context, string, string, string) (service.Session, error) {
	return s.session, s.record("Signup")
}

func (s *stubAuth) Login(context.Context, string, string) (service.Session, error) {
	return s.session, s.record("Login")
}

func (s *stubAuth) VerifyEmail(context.Context, string) (service.Session, error) {
	return s.session, s.record("VerifyEmail")
}

func (s *stubAuth) ResendVerification(context.Context, string) error {
	return s.record("ResendVerification")
}

func (s *stubAuth) ForgotPassword(context.Context, string) error {
	return s.record("ForgotPassword")
}

func (s *stubAuth) ResetPassword(context.Context, string, string) error {
	return s.record("ResetPassword")
}

func (s *stubAuth) Me(context.Context, string) (model.User, error) {
	return s.user, s.record("Me")
}

func (s *stubAuth) UpdateProfile(context.Context, string, string) (model.User, error) {
	return s.user, s.record("UpdateProfile")
}

type stubAdmin struct {
	users       []model.User
	err         error
	gotLimit    int
	gotOffset   int
	changedRole model.Role
}

func (s *stubAdmin) ListUsers(_ context.Context, limit, offset int) ([]model.User, error) {
	s.gotLimit, s.gotOffset = limit, offset
	return s.users, s.err
}

func (s *stubAdmin) ChangeRole(_ context.Context, id string, role model.Role) (model.User, error) {
	if s.err != nil {
		return model.User{}, s.err
	}
	s.changedRole = role
	return model.User{ID: id, Role: role}, nil
}
