package infrastructure

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lovesinghal31/backendcourse/internal/config"
)

var ErrTokenExpired = errors.New("token has expired")

// JWTService mints HS256 access/refresh tokens with independent secrets and
// expirations. The access token authorizes individual requests; the refresh
// token is additionally persisted on the user row so that rotation
// invalidates any previously issued value.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTService(cfg *config.Config) *JWTService {
	return &JWTService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

func (j *JWTService) GenerateAccessToken(userId uuid.UUID) (string, error) {
	return j.generate(userId, j.accessSecret, j.accessTTL)
}

func (j *JWTService) GenerateRefreshToken(userId uuid.UUID) (string, error) {
	return j.generate(userId, j.refreshSecret, j.refreshTTL)
}

func (j *JWTService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return j.verify(token, j.accessSecret)
}

func (j *JWTService) VerifyRefreshToken(token string) (uuid.UUID, error) {
	return j.verify(token, j.refreshSecret)
}

func (j *JWTService) generate(userId uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTService) verify(tokenString string, secret []byte) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errors.New("invalid token claims")
	}

	rawId, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("token is missing the user_id claim")
	}

	userId, err := uuid.Parse(rawId)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user_id claim: %w", err)
	}

	return userId, nil
}
