package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lovesinghal31/backendcourse/internal/domain/entities"
	"github.com/lovesinghal31/backendcourse/internal/domain/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrDuplicateUser = errors.New("username or email already taken")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()

	// Hash password before saving
	if err := userEntity.HashPassword(); err != nil {
		return nil, err
	}

	userModel := mapToModel(userEntity)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	// Read back the created user to ensure data integrity
	return r.FindById(ctx, userEntity.Id)
}

func (r *UserRepository) FindById(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var userModel UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mapToEntity(&userModel), nil
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*entities.User, error) {
	var userModel UserModel
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mapToEntity(&userModel), nil
}

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entities.User, error) {
	var userModel UserModel
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mapToEntity(&userModel), nil
}

func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		Update("password", string(hashed)).Error
}

func (r *UserRepository) UpdateDetails(ctx context.Context, id uuid.UUID, fullName, email string) (*entities.User, error) {
	err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"full_name": fullName, "email": email}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return r.FindById(ctx, id)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*entities.User, error) {
	err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		Update("avatar", url).Error
	if err != nil {
		return nil, err
	}

	return r.FindById(ctx, id)
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) (*entities.User, error) {
	err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		Update("cover_image", url).Error
	if err != nil {
		return nil, err
	}

	return r.FindById(ctx, id)
}

func (r *UserRepository) GetChannelProfile(ctx context.Context, username string, viewerId uuid.UUID) (*entities.ChannelProfile, error) {
	var userModel UserModel
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var subscriberCount int64
	err = r.db.WithContext(ctx).
		Model(&SubscriptionModel{}).
		Where("channel_id = ?", userModel.Id).
		Count(&subscriberCount).Error
	if err != nil {
		return nil, err
	}

	var subscribedTo int64
	err = r.db.WithContext(ctx).
		Model(&SubscriptionModel{}).
		Where("subscriber_id = ?", userModel.Id).
		Count(&subscribedTo).Error
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerId != uuid.Nil {
		var viewerEdge int64
		err = r.db.WithContext(ctx).
			Model(&SubscriptionModel{}).
			Where("channel_id = ? AND subscriber_id = ?", userModel.Id, viewerId).
			Count(&viewerEdge).Error
		if err != nil {
			return nil, err
		}
		isSubscribed = viewerEdge > 0
	}

	return &entities.ChannelProfile{
		Id:              userModel.Id,
		Username:        userModel.Username,
		FullName:        userModel.FullName,
		Avatar:          userModel.Avatar,
		CoverImage:      userModel.CoverImage,
		SubscriberCount: subscriberCount,
		SubscribedTo:    subscribedTo,
		IsSubscribed:    isSubscribed,
	}, nil
}

func (r *UserRepository) GetWatchHistory(ctx context.Context, id uuid.UUID) ([]entities.WatchEntry, error) {
	var models []WatchHistoryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		Order("watched_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]entities.WatchEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, entities.WatchEntry{VideoId: m.VideoId, WatchedAt: m.WatchedAt})
	}
	return entries, nil
}

func mapToModel(user *entities.User) *UserModel {
	return &UserModel{
		Id:           user.Id,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Password:     user.Password,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		RefreshToken: user.RefreshToken,
	}
}

func mapToEntity(userModel *UserModel) *entities.User {
	return &entities.User{
		Id:           userModel.Id,
		CreatedAt:    userModel.CreatedAt,
		UpdatedAt:    userModel.UpdatedAt,
		Username:     userModel.Username,
		Email:        userModel.Email,
		FullName:     userModel.FullName,
		Password:     userModel.Password,
		Avatar:       userModel.Avatar,
		CoverImage:   userModel.CoverImage,
		RefreshToken: userModel.RefreshToken,
	}
}
