package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lovesinghal31/backendcourse/internal/application/command"
	"github.com/lovesinghal31/backendcourse/internal/application/common"
	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
	"github.com/lovesinghal31/backendcourse/internal/application/mapper"
	"github.com/lovesinghal31/backendcourse/internal/domain/entities"
	"github.com/lovesinghal31/backendcourse/internal/domain/repositories"
	"github.com/lovesinghal31/backendcourse/internal/infrastructure/db/postgres"
)

// SessionService drives the identity state machine: an OTP challenge is
// issued on request, verified exactly once, and only a verified login mints
// the access/refresh pair. The refresh token persisted on the user row is
// the single source of truth for the active session.
type SessionService struct {
	userRepo   repositories.UserRepository
	challenges repositories.ChallengeStore
	tokens     interfaces.TokenIssuer
	mailer     interfaces.Mailer
	storage    interfaces.ObjectStorage
	limiter    RateLimiter
	otpExpiry  time.Duration
}

// RateLimiter guards OTP issuance and verification per key.
type RateLimiter interface {
	Allow(key string) bool
}

func NewSessionService(
	userRepo repositories.UserRepository,
	challenges repositories.ChallengeStore,
	tokens interfaces.TokenIssuer,
	mailer interfaces.Mailer,
	storage interfaces.ObjectStorage,
	limiter RateLimiter,
	otpExpiry time.Duration,
) interfaces.SessionService {
	return &SessionService{
		userRepo:   userRepo,
		challenges: challenges,
		tokens:     tokens,
		mailer:     mailer,
		storage:    storage,
		limiter:    limiter,
		otpExpiry:  otpExpiry,
	}
}

func (s *SessionService) RequestRegistration(ctx context.Context, cmd *command.RegisterUserCommand) (*command.RegisterUserCommandResult, error) {
	if cmd.FullName == "" || cmd.Email == "" || cmd.Username == "" || cmd.Password == "" {
		removeTempFiles(cmd.AvatarPath, cmd.CoverImagePath)
		return nil, common.NewValidationError("all fields are required")
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, cmd.Username, cmd.Email)
	if err != nil {
		removeTempFiles(cmd.AvatarPath, cmd.CoverImagePath)
		return nil, err
	}
	if existing != nil {
		// The uploaded temp files would otherwise be orphaned.
		removeTempFiles(cmd.AvatarPath, cmd.CoverImagePath)
		return nil, common.NewConflictError("user with email or username already exists")
	}

	if cmd.AvatarPath == "" {
		removeTempFiles(cmd.CoverImagePath)
		return nil, common.NewValidationError("avatar file is required")
	}

	if !s.limiter.Allow(cmd.Email) {
		removeTempFiles(cmd.AvatarPath, cmd.CoverImagePath)
		return nil, common.NewTooManyRequestsError("too many OTP requests, please try again later")
	}

	challenge, err := entities.NewRegistrationChallenge(cmd.Email, &entities.RegistrationPayload{
		FullName:       cmd.FullName,
		Email:          cmd.Email,
		Username:       cmd.Username,
		Password:       cmd.Password,
		AvatarPath:     cmd.AvatarPath,
		CoverImagePath: cmd.CoverImagePath,
	}, s.otpExpiry)
	if err != nil {
		removeTempFiles(cmd.AvatarPath, cmd.CoverImagePath)
		return nil, err
	}

	if err := s.dispatchChallenge(ctx, challenge); err != nil {
		removeTempFiles(cmd.AvatarPath, cmd.CoverImagePath)
		return nil, err
	}

	return &command.RegisterUserCommandResult{Message: "OTP sent to " + cmd.Email}, nil
}

func (s *SessionService) VerifyRegistration(ctx context.Context, cmd *command.VerifyRegistrationCommand) (*command.VerifyRegistrationCommandResult, error) {
	payload, err := s.consumeChallenge(ctx, cmd.Email, cmd.OTP, entities.ChallengeRegistration)
	if err != nil {
		return nil, err
	}
	reg := payload.Registration

	avatarURL, err := s.storage.Upload(ctx, reg.AvatarPath)
	if err != nil {
		removeTempFiles(reg.AvatarPath, reg.CoverImagePath)
		return nil, common.NewValidationError("avatar file upload failed")
	}

	// Cover image failure is non-fatal; the profile simply has no cover.
	coverURL, err := s.storage.Upload(ctx, reg.CoverImagePath)
	if err != nil {
		log.Printf("cover image upload failed for %s: %v", reg.Email, err)
		coverURL = ""
	}

	removeTempFiles(reg.AvatarPath, reg.CoverImagePath)

	newUser := entities.NewUser(reg.Username, reg.Email, reg.FullName, reg.Password, avatarURL, coverURL)
	validatedUser, err := entities.NewValidatedUser(newUser)
	if err != nil {
		return nil, common.NewValidationError(err.Error())
	}

	createdUser, err := s.userRepo.Create(ctx, validatedUser)
	if err != nil {
		if errors.Is(err, postgres.ErrDuplicateUser) {
			return nil, common.NewConflictError("user with email or username already exists")
		}
		return nil, err
	}
	if createdUser == nil {
		return nil, common.NewInternalError("something went wrong while registering the user")
	}

	return &command.VerifyRegistrationCommandResult{
		Result: mapper.NewUserResultFromEntity(createdUser),
	}, nil
}

func (s *SessionService) RequestLogin(ctx context.Context, cmd *command.LoginUserCommand) (*command.LoginUserCommandResult, error) {
	identifier := cmd.Email
	if identifier == "" {
		identifier = cmd.Username
	}
	if identifier == "" {
		return nil, common.NewValidationError("username or email is required")
	}

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NewNotFoundError("user does not exist")
	}

	if err := user.CheckPassword(cmd.Password); err != nil {
		return nil, common.NewUnauthorizedError("invalid user credentials")
	}

	if !s.limiter.Allow(user.Email) {
		return nil, common.NewTooManyRequestsError("too many OTP requests, please try again later")
	}

	challenge, err := entities.NewLoginChallenge(user.Email, user.Id, s.otpExpiry)
	if err != nil {
		return nil, err
	}

	if err := s.dispatchChallenge(ctx, challenge); err != nil {
		return nil, err
	}

	return &command.LoginUserCommandResult{Message: "OTP sent to " + user.Email}, nil
}

func (s *SessionService) VerifyLogin(ctx context.Context, cmd *command.VerifyLoginCommand) (*command.VerifyLoginCommandResult, error) {
	payload, err := s.consumeChallenge(ctx, cmd.Email, cmd.OTP, entities.ChallengeLogin)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindById(ctx, payload.Login.UserId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NewNotFoundError("user does not exist")
	}

	accessToken, refreshToken, err := s.rotateTokens(ctx, user.Id)
	if err != nil {
		return nil, err
	}

	return &command.VerifyLoginCommandResult{
		User:         mapper.NewUserResultFromEntity(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *SessionService) Refresh(ctx context.Context, cmd *command.RefreshSessionCommand) (*command.RefreshSessionCommandResult, error) {
	if cmd.RefreshToken == "" {
		return nil, common.NewUnauthorizedError("unauthorized request")
	}

	userId, err := s.tokens.VerifyRefreshToken(cmd.RefreshToken)
	if err != nil {
		return nil, common.NewUnauthorizedError(err.Error())
	}

	user, err := s.userRepo.FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NewUnauthorizedError("invalid refresh token")
	}

	// The stored value is the single live token. Any mismatch means this
	// token was rotated out or revoked, so treat it as reuse.
	if user.RefreshToken != cmd.RefreshToken {
		return nil, common.NewUnauthorizedError("refresh token is expired or used")
	}

	accessToken, refreshToken, err := s.rotateTokens(ctx, user.Id)
	if err != nil {
		return nil, err
	}

	return &command.RefreshSessionCommandResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *SessionService) Logout(ctx context.Context, userId uuid.UUID) error {
	return s.userRepo.UpdateRefreshToken(ctx, userId, "")
}

func (s *SessionService) ChangePassword(ctx context.Context, userId uuid.UUID, cmd *command.ChangePasswordCommand) error {
	if cmd.NewPassword == "" {
		return common.NewValidationError("new password is required")
	}

	user, err := s.userRepo.FindById(ctx, userId)
	if err != nil {
		return err
	}
	if user == nil {
		return common.NewNotFoundError("user does not exist")
	}

	if err := user.CheckPassword(cmd.OldPassword); err != nil {
		return common.NewValidationError("invalid old password")
	}

	return s.userRepo.UpdatePassword(ctx, userId, cmd.NewPassword)
}

// rotateTokens mints a fresh pair and overwrites the persisted refresh
// token. This is the revocation mechanism: the previous refresh token stops
// matching even though its signature is still valid.
func (s *SessionService) rotateTokens(ctx context.Context, userId uuid.UUID) (string, string, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userId)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(userId)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, userId, refreshToken); err != nil {
		return "", "", fmt.Errorf("persist refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// dispatchChallenge stores the challenge and emails the code. Issuance only
// counts once the mail is accepted; on dispatch failure the entry is evicted
// so a retry starts clean.
func (s *SessionService) dispatchChallenge(ctx context.Context, challenge *entities.OTPChallenge) error {
	if err := s.challenges.Put(ctx, challenge); err != nil {
		return err
	}

	subject := "Your OTP Code"
	body := fmt.Sprintf("<strong>Your OTP code is: %s</strong><p>It expires in %d minutes.</p>",
		challenge.Code, int(s.otpExpiry.Minutes()))

	if err := s.mailer.Send(ctx, challenge.Email, subject, body); err != nil {
		if delErr := s.challenges.Delete(ctx, challenge.Email); delErr != nil {
			log.Printf("failed to evict challenge for %s after send failure: %v", challenge.Email, delErr)
		}
		return common.NewInternalError("failed to send OTP email")
	}

	return nil
}

// consumeChallenge maps store-level outcomes to the boundary taxonomy and
// releases temp files held by an expired or mismatched-purpose challenge.
func (s *SessionService) consumeChallenge(ctx context.Context, email, code string, purpose entities.ChallengePurpose) (*entities.OTPChallenge, error) {
	if email == "" || code == "" {
		return nil, common.NewValidationError("email and otp are required")
	}

	if !s.limiter.Allow("verify:" + email) {
		return nil, common.NewTooManyRequestsError("too many verification attempts, please try again later")
	}

	challenge, err := s.challenges.Consume(ctx, email, code)
	switch {
	case errors.Is(err, repositories.ErrChallengeNotFound):
		return nil, common.NewNotFoundError("OTP expired or not found")
	case errors.Is(err, repositories.ErrChallengeExpired):
		if challenge != nil && challenge.Registration != nil {
			removeTempFiles(challenge.Registration.AvatarPath, challenge.Registration.CoverImagePath)
		}
		return nil, common.NewGoneError("OTP has expired")
	case errors.Is(err, repositories.ErrCodeMismatch):
		return nil, common.NewUnauthorizedError("invalid OTP")
	case err != nil:
		return nil, err
	}

	if challenge.Purpose != purpose {
		if challenge.Registration != nil {
			removeTempFiles(challenge.Registration.AvatarPath, challenge.Registration.CoverImagePath)
		}
		return nil, common.NewValidationError("OTP does not belong to this flow")
	}

	return challenge, nil
}

// RemoveChallengeFiles is the eviction hook for the challenge store sweep:
// abandoned registration challenges must not leak their temp uploads.
func RemoveChallengeFiles(challenge *entities.OTPChallenge) {
	if challenge == nil || challenge.Registration == nil {
		return
	}
	removeTempFiles(challenge.Registration.AvatarPath, challenge.Registration.CoverImagePath)
}

func removeTempFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove temp file %s: %v", path, err)
		}
	}
}
