package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/lovesinghal31/backendcourse/internal/domain/entities"
	"github.com/lovesinghal31/backendcourse/internal/domain/repositories"
)

// MemoryChallengeStore keeps OTP challenges in a mutex-guarded map. Expiry is
// checked lazily on Consume, and a background sweep evicts abandoned entries
// so they do not accumulate; the onEvict hook lets the caller release
// resources (temp upload files) tied to a swept challenge.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*entities.OTPChallenge
	onEvict    func(*entities.OTPChallenge)
	stop       chan struct{}
	stopOnce   sync.Once
}

var _ repositories.ChallengeStore = (*MemoryChallengeStore)(nil)

func NewMemoryChallengeStore(sweepEvery time.Duration, onEvict func(*entities.OTPChallenge)) *MemoryChallengeStore {
	s := &MemoryChallengeStore{
		challenges: make(map[string]*entities.OTPChallenge),
		onEvict:    onEvict,
		stop:       make(chan struct{}),
	}

	if sweepEvery > 0 {
		go s.sweep(sweepEvery)
	}
	return s
}

func (s *MemoryChallengeStore) Put(ctx context.Context, challenge *entities.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.Email] = challenge
	return nil
}

func (s *MemoryChallengeStore) Consume(ctx context.Context, email, code string) (*entities.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[email]
	if !ok {
		return nil, repositories.ErrChallengeNotFound
	}
	if challenge.Expired(time.Now()) {
		delete(s.challenges, email)
		return challenge, repositories.ErrChallengeExpired
	}
	if challenge.Code != code {
		return nil, repositories.ErrCodeMismatch
	}

	delete(s.challenges, email)
	return challenge, nil
}

func (s *MemoryChallengeStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, email)
	return nil
}

func (s *MemoryChallengeStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryChallengeStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired(time.Now())
		}
	}
}

func (s *MemoryChallengeStore) evictExpired(now time.Time) {
	s.mu.Lock()
	var evicted []*entities.OTPChallenge
	for email, challenge := range s.challenges {
		if challenge.Expired(now) {
			delete(s.challenges, email)
			evicted = append(evicted, challenge)
		}
	}
	s.mu.Unlock()

	// Hook runs outside the lock; it may touch the filesystem.
	if s.onEvict != nil {
		for _, challenge := range evicted {
			s.onEvict(challenge)
		}
	}
}
