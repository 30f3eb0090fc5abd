package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/lovesinghal31/backendcourse/internal/application/command"
	"github.com/lovesinghal31/backendcourse/internal/application/query"
)

// SessionService orchestrates the OTP-gated registration and login flows
// and the lifetime of the access/refresh token pair.
type SessionService interface {
	RequestRegistration(ctx context.Context, cmd *command.RegisterUserCommand) (*command.RegisterUserCommandResult, error)
	VerifyRegistration(ctx context.Context, cmd *command.VerifyRegistrationCommand) (*command.VerifyRegistrationCommandResult, error)
	RequestLogin(ctx context.Context, cmd *command.LoginUserCommand) (*command.LoginUserCommandResult, error)
	VerifyLogin(ctx context.Context, cmd *command.VerifyLoginCommand) (*command.VerifyLoginCommandResult, error)
	Refresh(ctx context.Context, cmd *command.RefreshSessionCommand) (*command.RefreshSessionCommandResult, error)
	Logout(ctx context.Context, userId uuid.UUID) error
	ChangePassword(ctx context.Context, userId uuid.UUID, cmd *command.ChangePasswordCommand) error
}

// ProfileService covers the authenticated profile operations.
type ProfileService interface {
	GetCurrentUser(ctx context.Context, userId uuid.UUID) (*query.UserQueryResult, error)
	UpdateAccountDetails(ctx context.Context, userId uuid.UUID, cmd *command.UpdateAccountCommand) (*query.UserQueryResult, error)
	UpdateAvatar(ctx context.Context, userId uuid.UUID, localPath string) (*query.UserQueryResult, error)
	UpdateCoverImage(ctx context.Context, userId uuid.UUID, localPath string) (*query.UserQueryResult, error)
	GetChannelProfile(ctx context.Context, username string, viewerId uuid.UUID) (*query.ChannelProfileResult, error)
	GetWatchHistory(ctx context.Context, userId uuid.UUID) (*query.WatchHistoryResult, error)
}
