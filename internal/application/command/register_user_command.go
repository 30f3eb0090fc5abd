package command

import "github.com/lovesinghal31/backendcourse/internal/application/common"

// RegisterUserCommand carries the registration form fields plus the local
// temp paths of the uploaded images. AvatarPath is required; CoverImagePath
// may be empty.
type RegisterUserCommand struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	AvatarPath     string `json:"-"`
	CoverImagePath string `json:"-"`
}

type RegisterUserCommandResult struct {
	Message string `json:"message"`
}

type VerifyRegistrationCommand struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyRegistrationCommandResult struct {
	Result *common.UserResult `json:"result"`
}
