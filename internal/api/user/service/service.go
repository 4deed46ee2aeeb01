package userService

import (
	"ExpenseTracker/internal/api/user"
	userRepository "ExpenseTracker/internal/api/user/repository"
	"ExpenseTracker/internal/entity"
	"ExpenseTracker/pkg/media"
	"ExpenseTracker/pkg/utils"
	"mime/multipart"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IUserService interface {
	GetUser(ctx context.Context, userID string) (entity.User, error)
	UpdateUser(ctx context.Context, userID string, req user.UpdateUserRequest, avatar *multipart.FileHeader) (entity.User, error)
}

type userService struct {
	log            *logrus.Logger
	userRepository userRepository.Repository
	media          media.ItfMedia
	utils          utils.IUtils
}

func NewUserService(
	log *logrus.Logger,
	ur userRepository.Repository,
	md media.ItfMedia,
	utils utils.IUtils,
) IUserService {
	return &userService{
		log:            log,
		userRepository: ur,
		media:          md,
		utils:          utils,
	}
}
