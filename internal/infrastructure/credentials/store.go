package credentials

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"lm-gateway/internal/domain/entities"
	"lm-gateway/internal/domain/interfaces"
	"lm-gateway/pkg/retry"
)

// startupRetry schedules the initial vault load. Transient vault or identity
// hiccups at boot are retried; a persistent failure is still fatal.
var startupRetry = retry.DefaultConfig

// Store caches the credentials loaded from a CredentialSource for the life of
// the process. Reads are lock-guarded copies; Refresh swaps the whole set
// under the same lock, so it is safe to call concurrently with reads.
type Store struct {
	mu     sync.RWMutex
	source interfaces.CredentialSource
	creds  entities.Credentials
	logger *logrus.Logger
}

// NewStore creates a Store and performs the initial load. A load failure is
// fatal for startup; there is no fallback source.
func NewStore(ctx context.Context, source interfaces.CredentialSource, logger *logrus.Logger) (*Store, error) {
	var creds entities.Credentials
	err := retry.Do(ctx, startupRetry, func() error {
		var loadErr error
		creds, loadErr = source.Load(ctx)
		if loadErr != nil {
			logger.WithError(loadErr).Warn("Credential load attempt failed")
		}
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Credentials loaded")
	return &Store{
		source: source,
		creds:  creds,
		logger: logger,
	}, nil
}

// Current returns the cached credentials.
func (s *Store) Current() entities.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Refresh reloads the credentials from the source. On failure the previously
// cached set stays in place.
func (s *Store) Refresh(ctx context.Context) error {
	creds, err := s.source.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Credential refresh failed")
		return err
	}

	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()

	s.logger.Info("Credentials refreshed")
	return nil
}
