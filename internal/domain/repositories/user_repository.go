package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/lovesinghal31/backendcourse/internal/domain/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	FindById(ctx context.Context, id uuid.UUID) (*entities.User, error)
	// FindByIdentifier matches the identifier against username or email.
	FindByIdentifier(ctx context.Context, identifier string) (*entities.User, error)
	// FindByUsernameOrEmail returns any user holding either value.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entities.User, error)
	// UpdateRefreshToken overwrites the single live refresh token; an empty
	// token clears it.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	// UpdatePassword hashes and stores the new password.
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) error
	UpdateDetails(ctx context.Context, id uuid.UUID, fullName, email string) (*entities.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, url string) (*entities.User, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, url string) (*entities.User, error)
	GetChannelProfile(ctx context.Context, username string, viewerId uuid.UUID) (*entities.ChannelProfile, error)
	GetWatchHistory(ctx context.Context, id uuid.UUID) ([]entities.WatchEntry, error)
}
