package interfaces

import (
	"context"

	"lm-gateway/internal/domain/entities"
)

// CredentialSource retrieves the gateway's secrets from their backing store.
// Failure is fatal for the caller; there is no fallback source.
type CredentialSource interface {
	Load(ctx context.Context) (entities.Credentials, error)
}

// CredentialStore exposes the cached, process-wide credentials. Current must
// be safe to call concurrently with Refresh.
type CredentialStore interface {
	Current() entities.Credentials
	Refresh(ctx context.Context) error
}
