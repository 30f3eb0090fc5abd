package command

type RefreshSessionCommand struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshSessionCommandResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordCommand struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type UpdateAccountCommand struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
