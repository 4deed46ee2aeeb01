package userService

import (
	"ExpenseTracker/internal/api/user"
	userRepository "ExpenseTracker/internal/api/user/repository"
	"ExpenseTracker/internal/entity"
	"ExpenseTracker/pkg/media"
	"ExpenseTracker/pkg/utils"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeUserRepo struct {
	users map[string]entity.User
}

func (r *fakeUserRepo) NewClient(bool) (userRepository.Client, error) {
	return userRepository.Client{
		Users:    r,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return entity.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return entity.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

type fakeMedia struct {
	presignPrefix string
}

func (fakeMedia) Resolve(ref media.ImageRef, folder string) (string, error) {
	if ref.IsPending() {
		return "https://cdn.example.com/" + folder + "/" + ref.Pending.Filename, nil
	}
	return ref.Remote, nil
}

func (m fakeMedia) PresignUrl(fileUrl string) (string, error) {
	return m.presignPrefix + fileUrl, nil
}

func (fakeMedia) DeleteFile(string) error { return nil }

func newTestService() (IUserService, *fakeUserRepo) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := &fakeUserRepo{users: map[string]entity.User{
		"u1": {ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		"u2": {ID: "u2", Name: "Brin", Email: "brin@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}}

	return NewUserService(logger, repo, fakeMedia{}, utils.New()), repo
}

func TestGetUser(t *testing.T) {
	service, _ := newTestService()

	u, err := service.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Ada" {
		t.Errorf("name = %q, want Ada", u.Name)
	}

	if _, err := service.GetUser(context.Background(), "missing"); !errors.Is(err, user.ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestGetUserPresignsAvatar(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	stored := "https://cdn.example.com/users/ada.png"
	repo := &fakeUserRepo{users: map[string]entity.User{
		"u1": {ID: "u1", Name: "Ada", Email: "ada@example.com", ImageURL: stored},
	}}
	service := NewUserService(logger, repo, fakeMedia{presignPrefix: "https://signed.example/"}, utils.New())

	u, err := service.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "https://signed.example/" + stored; u.ImageURL != want {
		t.Errorf("image url = %q, want presigned %q", u.ImageURL, want)
	}
	if repo.users["u1"].ImageURL != stored {
		t.Errorf("stored url changed to %q", repo.users["u1"].ImageURL)
	}
}

func TestUpdateUser(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		service, repo := newTestService()

		updated, err := service.UpdateUser(context.Background(), "u1", user.UpdateUserRequest{
			Name: "Ada L.",
		}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Name != "Ada L." || updated.Email != "ada@example.com" {
			t.Errorf("updated user = %+v", updated)
		}
		if got := repo.users["u1"].Name; got != "Ada L." {
			t.Errorf("stored name = %q, want Ada L.", got)
		}
	})

	t.Run("email change to a free address", func(t *testing.T) {
		service, repo := newTestService()

		_, err := service.UpdateUser(context.Background(), "u1", user.UpdateUserRequest{
			Email: "ada.l@example.com",
		}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := repo.users["u1"].Email; got != "ada.l@example.com" {
			t.Errorf("stored email = %q", got)
		}
	})

	t.Run("email owned by another user is rejected", func(t *testing.T) {
		service, repo := newTestService()

		_, err := service.UpdateUser(context.Background(), "u1", user.UpdateUserRequest{
			Email: "brin@example.com",
		}, nil)
		if !errors.Is(err, user.ErrEmailAlreadyInUse) {
			t.Fatalf("error = %v, want ErrEmailAlreadyInUse", err)
		}
		if got := repo.users["u1"].Email; got != "ada@example.com" {
			t.Errorf("stored email changed: %q", got)
		}
	})

	t.Run("passthrough avatar url", func(t *testing.T) {
		service, repo := newTestService()

		_, err := service.UpdateUser(context.Background(), "u1", user.UpdateUserRequest{
			ImageURL: "https://cdn.example.com/users/ada.png",
		}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := repo.users["u1"].ImageURL; got != "https://cdn.example.com/users/ada.png" {
			t.Errorf("stored image url = %q", got)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.UpdateUser(context.Background(), "missing", user.UpdateUserRequest{Name: "X"}, nil)
		if !errors.Is(err, user.ErrUserNotFound) {
			t.Fatalf("error = %v, want ErrUserNotFound", err)
		}
	})
}
