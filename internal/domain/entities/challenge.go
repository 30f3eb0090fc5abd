package entities

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

type ChallengePurpose string

const (
	ChallengeRegistration ChallengePurpose = "registration"
	ChallengeLogin        ChallengePurpose = "login"
)

// RegistrationPayload carries the candidate user fields between the OTP
// request and its verification. The user record does not exist yet; the
// uploaded files sit in the local temp directory until verification.
type RegistrationPayload struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	AvatarPath     string `json:"avatar_path"`
	CoverImagePath string `json:"cover_image_path,omitempty"`
}

type LoginPayload struct {
	UserId uuid.UUID `json:"user_id"`
}

// OTPChallenge is an ephemeral record keyed by email. At most one challenge
// is live per email; issuing a new one overwrites the previous, so only the
// most recent code verifies.
type OTPChallenge struct {
	Email        string               `json:"email"`
	Code         string               `json:"code"`
	Purpose      ChallengePurpose     `json:"purpose"`
	Registration *RegistrationPayload `json:"registration,omitempty"`
	Login        *LoginPayload        `json:"login,omitempty"`
	ExpiresAt    time.Time            `json:"expires_at"`
}

func NewRegistrationChallenge(email string, payload *RegistrationPayload, ttl time.Duration) (*OTPChallenge, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	return &OTPChallenge{
		Email:        email,
		Code:         code,
		Purpose:      ChallengeRegistration,
		Registration: payload,
		ExpiresAt:    time.Now().Add(ttl),
	}, nil
}

func NewLoginChallenge(email string, userId uuid.UUID, ttl time.Duration) (*OTPChallenge, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	return &OTPChallenge{
		Email:     email,
		Code:      code,
		Purpose:   ChallengeLogin,
		Login:     &LoginPayload{UserId: userId},
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (c *OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
