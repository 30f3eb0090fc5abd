package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	Id           uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Username     string
	Email        string
	FullName     string
	Password     string
	Avatar       string
	CoverImage   string
	RefreshToken string
}

func NewUser(username, email, fullName, password, avatar, coverImage string) *User {
	return &User{
		Id:         uuid.New(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		Username:   strings.ToLower(strings.TrimSpace(username)),
		Email:      strings.TrimSpace(email),
		FullName:   fullName,
		Password:   password,
		Avatar:     avatar,
		CoverImage: coverImage,
	}
}

func (u *User) validate() error {
	if u.Username == "" {
		return errors.New("username must not be empty")
	}
	if u.Email == "" {
		return errors.New("email must not be empty")
	}
	if u.FullName == "" {
		return errors.New("full name must not be empty")
	}
	if u.Password == "" {
		return errors.New("password must not be empty")
	}
	if u.Avatar == "" {
		return errors.New("avatar must not be empty")
	}
	if u.CreatedAt.After(u.UpdatedAt) {
		return errors.New("created_at must be before updated_at")
	}
	return nil
}

func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) SetRefreshToken(token string) {
	u.RefreshToken = token
	u.UpdatedAt = time.Now()
}

func (u *User) UpdateDetails(fullName, email string) error {
	u.FullName = fullName
	u.Email = strings.TrimSpace(email)
	u.UpdatedAt = time.Now()
	return u.validate()
}
