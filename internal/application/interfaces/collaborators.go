package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// TokenIssuer mints and verifies the signed access/refresh pair. Access and
// refresh tokens use independent secrets and expirations.
type TokenIssuer interface {
	GenerateAccessToken(userId uuid.UUID) (string, error)
	GenerateRefreshToken(userId uuid.UUID) (string, error)
	VerifyAccessToken(token string) (uuid.UUID, error)
	VerifyRefreshToken(token string) (uuid.UUID, error)
}

// Mailer dispatches a message to the user out of band. A failure must be
// surfaced to the caller, never swallowed.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ObjectStorage uploads a local file and returns its public URL. An empty
// localPath is skipped and yields no URL.
type ObjectStorage interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
