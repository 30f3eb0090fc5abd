package command

import "github.com/lovesinghal31/backendcourse/internal/application/common"

// LoginUserCommand accepts either username or email as the identifier.
type LoginUserCommand struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUserCommandResult struct {
	Message string `json:"message"`
}

type VerifyLoginCommand struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyLoginCommandResult struct {
	User         *common.UserResult `json:"user"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
}
