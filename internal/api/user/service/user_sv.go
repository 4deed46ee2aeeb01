package userService

import (
	"ExpenseTracker/internal/api/user"
	"ExpenseTracker/internal/entity"
	contextPkg "ExpenseTracker/pkg/context"
	"ExpenseTracker/pkg/media"
	"errors"
	"mime/multipart"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *userService) GetUser(ctx context.Context, userID string) (entity.User, error) {
	repo, err := s.userRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.User{}, err
	}

	stored, err := repo.Users.GetByID(ctx, userID)
	if err != nil {
		return entity.User{}, err
	}

	if stored.ImageURL != "" {
		signed, err := s.media.PresignUrl(stored.ImageURL)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"user_id":    userID,
				"error":      err.Error(),
			}).Warn("Failed to presign avatar URL")
		} else {
			stored.ImageURL = signed
		}
	}

	return stored, nil
}

// UpdateUser applies a partial profile update. Empty request fields keep
// the stored values. When a new email is supplied it must not belong to
// another account.
func (s *userService) UpdateUser(ctx context.Context, userID string, req user.UpdateUserRequest, avatar *multipart.FileHeader) (entity.User, error) {
	requestID := contextPkg.GetRequestID(ctx)

	imageURL, err := s.resolveAvatar(ctx, req.ImageURL, avatar)
	if err != nil {
		return entity.User{}, err
	}

	repo, err := s.userRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.User{}, err
	}

	stored, err := repo.Users.GetByID(ctx, userID)
	if err != nil {
		return entity.User{}, err
	}

	if req.Name != "" {
		stored.Name = req.Name
	}
	if imageURL != "" {
		stored.ImageURL = imageURL
	}

	if req.Email != "" && req.Email != stored.Email {
		existing, err := repo.Users.GetByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			return entity.User{}, err
		}
		if err == nil && existing.ID != userID {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"user_id":    userID,
			}).Warn("Email already in use by another user")
			return entity.User{}, user.ErrEmailAlreadyInUse
		}
		stored.Email = req.Email
	}

	if err := repo.Users.Update(ctx, stored); err != nil {
		return entity.User{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
	}).Info("User profile updated")

	return stored, nil
}

func (s *userService) resolveAvatar(ctx context.Context, remoteURL string, file *multipart.FileHeader) (string, error) {
	ref := media.ImageRef{Remote: remoteURL, Pending: file}
	if ref.IsZero() {
		return "", nil
	}

	if ref.IsPending() {
		if err := s.utils.ValidateImageFile(file); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"filename":   file.Filename,
				"error":      err.Error(),
			}).Warn("Invalid avatar file")
			return "", err
		}
	}

	url, err := s.media.Resolve(ref, "users")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to upload avatar")
		return "", user.ErrUpdateUser
	}

	return url, nil
}
