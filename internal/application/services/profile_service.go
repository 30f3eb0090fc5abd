package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/lovesinghal31/backendcourse/internal/application/command"
	"github.com/lovesinghal31/backendcourse/internal/application/common"
	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
	"github.com/lovesinghal31/backendcourse/internal/application/mapper"
	"github.com/lovesinghal31/backendcourse/internal/application/query"
	"github.com/lovesinghal31/backendcourse/internal/domain/repositories"
	"github.com/lovesinghal31/backendcourse/internal/infrastructure"
	"github.com/lovesinghal31/backendcourse/internal/infrastructure/db/postgres"
)

type ProfileService struct {
	userRepo repositories.UserRepository
	storage  interfaces.ObjectStorage
	cache    *infrastructure.ProfileCache
}

func NewProfileService(
	userRepo repositories.UserRepository,
	storage interfaces.ObjectStorage,
	cache *infrastructure.ProfileCache,
) interfaces.ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		storage:  storage,
		cache:    cache,
	}
}

func (s *ProfileService) GetCurrentUser(ctx context.Context, userId uuid.UUID) (*query.UserQueryResult, error) {
	cached, err := s.cache.Get(ctx, userId.String())
	if err != nil {
		log.Printf("profile cache read failed: %v", err)
	}
	if cached != nil {
		return &query.UserQueryResult{Result: cached}, nil
	}

	user, err := s.userRepo.FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NewNotFoundError("user does not exist")
	}

	result := mapper.NewUserResultFromEntity(user)
	if err := s.cache.Set(ctx, userId.String(), result); err != nil {
		log.Printf("failed to cache user profile: %v", err)
	}

	return &query.UserQueryResult{Result: result}, nil
}

func (s *ProfileService) UpdateAccountDetails(ctx context.Context, userId uuid.UUID, cmd *command.UpdateAccountCommand) (*query.UserQueryResult, error) {
	if cmd.FullName == "" || cmd.Email == "" {
		return nil, common.NewValidationError("full name and email are required")
	}

	user, err := s.userRepo.UpdateDetails(ctx, userId, cmd.FullName, cmd.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrDuplicateUser) {
			return nil, common.NewConflictError("email already in use")
		}
		return nil, err
	}
	if user == nil {
		return nil, common.NewNotFoundError("user does not exist")
	}

	s.invalidateProfile(ctx, userId)
	return &query.UserQueryResult{Result: mapper.NewUserResultFromEntity(user)}, nil
}

func (s *ProfileService) UpdateAvatar(ctx context.Context, userId uuid.UUID, localPath string) (*query.UserQueryResult, error) {
	return s.updateImage(ctx, userId, localPath, true)
}

func (s *ProfileService) UpdateCoverImage(ctx context.Context, userId uuid.UUID, localPath string) (*query.UserQueryResult, error) {
	return s.updateImage(ctx, userId, localPath, false)
}

func (s *ProfileService) updateImage(ctx context.Context, userId uuid.UUID, localPath string, avatar bool) (*query.UserQueryResult, error) {
	if localPath == "" {
		if avatar {
			return nil, common.NewValidationError("avatar file is required")
		}
		return nil, common.NewValidationError("cover image file is required")
	}

	url, err := s.storage.Upload(ctx, localPath)
	removeTempFiles(localPath)
	if err != nil {
		return nil, common.NewValidationError("image upload failed")
	}

	if avatar {
		u, err := s.userRepo.UpdateAvatar(ctx, userId, url)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, common.NewNotFoundError("user does not exist")
		}
		s.invalidateProfile(ctx, userId)
		return &query.UserQueryResult{Result: mapper.NewUserResultFromEntity(u)}, nil
	}

	u, err := s.userRepo.UpdateCoverImage(ctx, userId, url)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, common.NewNotFoundError("user does not exist")
	}
	s.invalidateProfile(ctx, userId)
	return &query.UserQueryResult{Result: mapper.NewUserResultFromEntity(u)}, nil
}

func (s *ProfileService) GetChannelProfile(ctx context.Context, username string, viewerId uuid.UUID) (*query.ChannelProfileResult, error) {
	if username == "" {
		return nil, common.NewValidationError("username is required")
	}

	profile, err := s.userRepo.GetChannelProfile(ctx, username, viewerId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, common.NewNotFoundError("channel does not exist")
	}

	return &query.ChannelProfileResult{
		Id:              profile.Id,
		Username:        profile.Username,
		FullName:        profile.FullName,
		Avatar:          profile.Avatar,
		CoverImage:      profile.CoverImage,
		SubscriberCount: profile.SubscriberCount,
		SubscribedTo:    profile.SubscribedTo,
		IsSubscribed:    profile.IsSubscribed,
	}, nil
}

func (s *ProfileService) GetWatchHistory(ctx context.Context, userId uuid.UUID) (*query.WatchHistoryResult, error) {
	entries, err := s.userRepo.GetWatchHistory(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]query.WatchHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, query.WatchHistoryEntry{
			VideoId:   entry.VideoId,
			WatchedAt: entry.WatchedAt,
		})
	}

	return &query.WatchHistoryResult{Result: result}, nil
}

func (s *ProfileService) invalidateProfile(ctx context.Context, userId uuid.UUID) {
	if err := s.cache.Delete(ctx, userId.String()); err != nil {
		log.Printf("failed to invalidate cached profile: %v", err)
	}
}
