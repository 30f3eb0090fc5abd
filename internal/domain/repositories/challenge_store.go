package repositories

import (
	"context"
	"errors"

	"github.com/lovesinghal31/backendcourse/internal/domain/entities"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeExpired  = errors.New("challenge expired")
	ErrCodeMismatch      = errors.New("wrong OTP code")
)

// ChallengeStore keeps at most one OTP challenge per email. Put replaces any
// prior entry unconditionally. Consume is atomic per key: of two concurrent
// calls with the correct code, exactly one receives the challenge.
type ChallengeStore interface {
	Put(ctx context.Context, challenge *entities.OTPChallenge) error
	// Consume verifies and evicts in one step. It returns
	// ErrChallengeNotFound when no entry exists, ErrChallengeExpired (with
	// the stale challenge, after evicting it) when the TTL has passed, and
	// ErrCodeMismatch (keeping the entry) on a wrong code.
	Consume(ctx context.Context, email, code string) (*entities.OTPChallenge, error)
	Delete(ctx context.Context, email string) error
}
