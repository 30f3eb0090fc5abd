package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/lovesinghal31/backendcourse/internal/domain/entities"
	"github.com/lovesinghal31/backendcourse/internal/domain/repositories"
)

// consumeScript implements the atomic verify-and-evict step. The entry is
// deleted on success and on read-time expiry detection, kept on mismatch.
// The stored expiry is compared explicitly so an expired-but-not-yet-evicted
// entry is reported as expired rather than missing.
var consumeScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  return {'NOTFOUND', ''}
end
local ch = cjson.decode(v)
if tonumber(ARGV[2]) > tonumber(ch.expires_at_unix) then
  redis.call('DEL', KEYS[1])
  return {'EXPIRED', v}
end
if ch.code ~= ARGV[1] then
  return {'MISMATCH', ''}
end
redis.call('DEL', KEYS[1])
return {'OK', v}
`)

// RedisChallengeStore keeps OTP challenges as JSON values under
// "challenge:<email>". The Redis TTL is set past the logical expiry so that
// Consume can still distinguish an expired challenge from a missing one for
// a grace period; after that Redis evicts the key on its own.
type RedisChallengeStore struct {
	client *redis.Client
}

var _ repositories.ChallengeStore = (*RedisChallengeStore)(nil)

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

type storedChallenge struct {
	Email         string                        `json:"email"`
	Code          string                        `json:"code"`
	Purpose       entities.ChallengePurpose     `json:"purpose"`
	Registration  *entities.RegistrationPayload `json:"registration,omitempty"`
	Login         *entities.LoginPayload        `json:"login,omitempty"`
	ExpiresAtUnix int64                         `json:"expires_at_unix"`
}

func (s *RedisChallengeStore) Put(ctx context.Context, challenge *entities.OTPChallenge) error {
	stored := storedChallenge{
		Email:         challenge.Email,
		Code:          challenge.Code,
		Purpose:       challenge.Purpose,
		Registration:  challenge.Registration,
		Login:         challenge.Login,
		ExpiresAtUnix: challenge.ExpiresAt.Unix(),
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	ttl := time.Until(challenge.ExpiresAt) + time.Hour
	return s.client.Set(ctx, challengeKey(challenge.Email), data, ttl).Err()
}

func (s *RedisChallengeStore) Consume(ctx context.Context, email, code string) (*entities.OTPChallenge, error) {
	now := time.Now().Unix()
	res, err := consumeScript.Run(ctx, s.client, []string{challengeKey(email)}, code, now).Slice()
	if err != nil {
		return nil, fmt.Errorf("challenge consume script: %w", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("challenge consume script: unexpected reply %v", res)
	}

	status, _ := res[0].(string)
	switch status {
	case "NOTFOUND":
		return nil, repositories.ErrChallengeNotFound
	case "EXPIRED":
		challenge, err := decodeChallenge(res[1])
		if err != nil {
			return nil, err
		}
		return challenge, repositories.ErrChallengeExpired
	case "MISMATCH":
		return nil, repositories.ErrCodeMismatch
	case "OK":
		return decodeChallenge(res[1])
	default:
		return nil, fmt.Errorf("challenge consume script: unknown status %q", status)
	}
}

func (s *RedisChallengeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, challengeKey(email)).Err()
}

func challengeKey(email string) string {
	return "challenge:" + email
}

func decodeChallenge(raw interface{}) (*entities.OTPChallenge, error) {
	data, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("challenge consume script: non-string payload %T", raw)
	}

	var stored storedChallenge
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, err
	}

	return &entities.OTPChallenge{
		Email:        stored.Email,
		Code:         stored.Code,
		Purpose:      stored.Purpose,
		Registration: stored.Registration,
		Login:        stored.Login,
		ExpiresAt:    time.Unix(stored.ExpiresAtUnix, 0),
	}, nil
}
