package credentials

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/sirupsen/logrus"

	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/infrastructure/config"
)

// secretReader is the slice of the azsecrets client the source uses.
// Narrowed for testability.
type secretReader interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// KeyVaultSource loads the gateway credentials from Azure Key Vault using the
// ambient identity (managed identity in the deployed environment).
type KeyVaultSource struct {
	client secretReader
	cfg    config.KeyVaultConfig
	logger *logrus.Logger
}

// NewKeyVaultSource creates a KeyVaultSource for the configured vault.
func NewKeyVaultSource(cfg config.KeyVaultConfig, logger *logrus.Logger) (*KeyVaultSource, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, apperrors.NewCredentialError("cannot acquire azure credential", err)
	}

	client, err := azsecrets.NewClient(cfg.VaultURL, cred, nil)
	if err != nil {
		return nil, apperrors.NewCredentialError("cannot create key vault client", err)
	}

	return &KeyVaultSource{client: client, cfg: cfg, logger: logger}, nil
}

// Load retrieves every configured secret. Any missing secret fails the whole
// load; partial credential sets are never returned.
func (s *KeyVaultSource) Load(ctx context.Context) (entities.Credentials, error) {
	var creds entities.Credentials

	secrets := []struct {
		name   string
		target *string
	}{
		{s.cfg.LMAccessIDSecret, &creds.LMAccessID},
		{s.cfg.LMAccessKeySecret, &creds.LMAccessKey},
		{s.cfg.SnowClientIDSecret, &creds.SnowClientID},
		{s.cfg.SnowClientSecretSecret, &creds.SnowClientSecret},
	}

	for _, secret := range secrets {
		resp, err := s.client.GetSecret(ctx, secret.name, "", nil)
		if err != nil {
			return entities.Credentials{}, apperrors.NewCredentialError(
				fmt.Sprintf("cannot load secret %q from key vault", secret.name), err)
		}
		if resp.Value == nil || *resp.Value == "" {
			return entities.Credentials{}, apperrors.NewCredentialError(
				fmt.Sprintf("secret %q is empty", secret.name), nil)
		}
		*secret.target = *resp.Value
		s.logger.WithField("secret", secret.name).Debug("Secret loaded")
	}

	return creds, nil
}
