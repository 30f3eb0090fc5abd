package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserNormalizesUsername(t *testing.T) {
	user := NewUser("  JohnDoe ", " john@example.com ", "John Doe", "secret", "https://cdn/avatar.png", "")

	assert.Equal(t, "johndoe", user.Username)
	assert.Equal(t, "john@example.com", user.Email)
}

func TestNewValidatedUser(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*User)
		wantErr string
	}{
		{name: "valid", mutate: func(u *User) {}},
		{name: "missing username", mutate: func(u *User) { u.Username = "" }, wantErr: "username"},
		{name: "missing email", mutate: func(u *User) { u.Email = "" }, wantErr: "email"},
		{name: "missing full name", mutate: func(u *User) { u.FullName = "" }, wantErr: "full name"},
		{name: "missing password", mutate: func(u *User) { u.Password = "" }, wantErr: "password"},
		{name: "missing avatar", mutate: func(u *User) { u.Avatar = "" }, wantErr: "avatar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := NewUser("johndoe", "john@example.com", "John Doe", "secret", "https://cdn/avatar.png", "")
			tt.mutate(user)

			validated, err := NewValidatedUser(user)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, user, validated.GetUser())
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	user := NewUser("johndoe", "john@example.com", "John Doe", "secret", "https://cdn/avatar.png", "")

	require.NoError(t, user.HashPassword())
	assert.NotEqual(t, "secret", user.Password)

	assert.NoError(t, user.CheckPassword("secret"))
	assert.Error(t, user.CheckPassword("wrong"))
}
