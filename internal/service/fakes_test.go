package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/repository"
)

// fakeUserRepo is an in-memory directory with a uniqueness check on email.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	nextID  int
	findErr error
	updErr  error

	// createHook runs before insert, letting tests inject a racing writer
	createHook func()
}

func newFakeUserRepo(t *testing.T) *fakeUserRepo {
	t.Helper()
	return &fakeUserRepo{byID: map[string]*model.User{}}
}

func clone(u *model.User) *model.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	email = model.NormalizeEmail(email)
	for _, u := range r.byID {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if r.createHook != nil {
		hook := r.createHook
		r.createHook = nil
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = model.NormalizeEmail(user.Email)
	for _, u := range r.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.byID[user.ID] = clone(user)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updErr != nil {
		return nil, r.updErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Image != nil {
		u.Image = upd.Image
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Address != nil {
		u.Address = upd.Address
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	if upd.EmailVerifiedAt != nil {
		u.EmailVerifiedAt = upd.EmailVerifiedAt
	}
	if upd.LastLoginAt != nil {
		u.LastLoginAt = upd.LastLoginAt
	}
	if upd.AuthProvider != nil {
		u.AuthProvider = *upd.AuthProvider
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = upd.PasswordHash
	}
	if upd.NotificationPreferences != nil {
		u.NotificationPreferences = *upd.NotificationPreferences
	}
	u.UpdatedAt = time.Now().UTC()
	return clone(u), nil
}

func (r *fakeUserRepo) List(_ context.Context, f repository.UserFilter) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Active != nil && u.IsActive != *f.Active {
			continue
		}
		if f.Provider != "" && u.AuthProvider != f.Provider {
			continue
		}
		out = append(out, *clone(u))
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, f repository.UserFilter) (int, error) {
	users, err := r.List(ctx, f)
	return len(users), err
}

func (r *fakeUserRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) SendWelcomeEmail(_ context.Context, email, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return m.err
}

func ptr[T any](v T) *T { return &v }
