package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lunatwin-backend/internal/data/repos"
	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/platform/apierr"
	"github.com/yungbote/lunatwin-backend/internal/platform/ctxutil"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrInvalidToken)
	}
	return us.load(ctx, nil, userID)
}

func (us *userService) UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", ErrInvalidToken)
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, apierr.BadRequest("invalid_name", errors.New("first name required"))
	}

	var out *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userRepo.UpdateName(ctx, tx, userID, firstName, lastName); err != nil {
			return fmt.Errorf("update name: %w", err)
		}
		u, err := us.load(ctx, tx, userID)
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) load(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, apierr.NotFound("user_not_found", ErrUserNotFound)
	}
	return users[0], nil
}
