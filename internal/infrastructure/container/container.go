package container

import (
	"context"

	"lm-gateway/internal/application/usecases"
	"lm-gateway/internal/domain/interfaces"
	"lm-gateway/internal/domain/services"
	"lm-gateway/internal/infrastructure/adapters"
	"lm-gateway/internal/infrastructure/config"
	"lm-gateway/internal/infrastructure/credentials"
	"lm-gateway/internal/infrastructure/health"
	"lm-gateway/internal/infrastructure/logicmonitor"
	"lm-gateway/internal/infrastructure/ticketing"
	"lm-gateway/internal/transport/rest"

	"github.com/sirupsen/logrus"
)

// Container manages dependency injection.
type Container struct {
	config *config.Config
	logger *logrus.Logger

	// Infrastructure adapters
	clock            interfaces.Clock
	credentialStore  interfaces.CredentialStore
	signer           interfaces.RequestSigner
	monitoringClient interfaces.MonitoringClient
	ticketingClient  interfaces.TicketingClient

	// Services
	healthService *health.HealthService
	matcher       *services.InterfaceMatcher

	// Use cases
	selectInterfacesUseCase  *usecases.SelectInterfacesUseCase
	resolveNeighborsUseCase  *usecases.ResolveNeighborsUseCase
	suppressionUseCase       *usecases.CreateSuppressionUseCase
	replaceAttachmentUseCase *usecases.ReplaceAttachmentUseCase

	// Transport
	handler *rest.Handler
}

// NewContainer creates a new Container. Credential loading happens here, at
// startup; a vault that cannot deliver the secrets fails container
// construction outright.
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	if err := container.initializeInfrastructure(ctx); err != nil {
		return nil, err
	}

	if err := container.initializeServices(); err != nil {
		return nil, err
	}

	if err := container.initializeUseCases(); err != nil {
		return nil, err
	}

	container.initializeTransport()

	return container, nil
}

// initializeInfrastructure initializes the infrastructure components.
func (c *Container) initializeInfrastructure(ctx context.Context) error {
	c.clock = adapters.NewRealClock()

	source, err := credentials.NewKeyVaultSource(c.config.KeyVault, c.logger)
	if err != nil {
		return err
	}

	store, err := credentials.NewStore(ctx, source, c.logger)
	if err != nil {
		return err
	}
	c.credentialStore = store

	c.signer = logicmonitor.NewLMv1Signer(c.credentialStore, c.clock)
	c.monitoringClient = logicmonitor.NewClient(c.config.LogicMonitor, c.signer, c.logger)
	c.ticketingClient = ticketing.NewClient(c.config.ServiceNow, c.credentialStore, c.logger)

	return nil
}

// initializeServices initializes the domain services.
func (c *Container) initializeServices() error {
	c.healthService = health.NewHealthService(c.clock, c.logger)
	c.healthService.SetCredentialsLoaded(true)

	c.matcher = services.NewInterfaceMatcher(c.config.Matching.InterfaceKeywords)

	return nil
}

// initializeUseCases initializes the use cases.
func (c *Container) initializeUseCases() error {
	c.selectInterfacesUseCase = usecases.NewSelectInterfacesUseCase(
		c.monitoringClient,
		c.matcher,
		c.config.Matching.InterfaceDatasources,
		c.logger,
	)

	c.resolveNeighborsUseCase = usecases.NewResolveNeighborsUseCase(
		c.monitoringClient,
		c.matcher,
		c.config.Matching.InterfaceDatasources,
		c.config.Matching.CDPDatasources,
		c.config.Matching.DomainSuffix,
		c.logger,
	)

	c.suppressionUseCase = usecases.NewCreateSuppressionUseCase(c.monitoringClient, c.logger)

	c.replaceAttachmentUseCase = usecases.NewReplaceAttachmentUseCase(c.ticketingClient, c.logger)

	return nil
}

// initializeTransport wires the HTTP handler.
func (c *Container) initializeTransport() {
	c.handler = rest.NewHandler(
		c.selectInterfacesUseCase,
		c.resolveNeighborsUseCase,
		c.suppressionUseCase,
		c.replaceAttachmentUseCase,
		c.credentialStore,
		c.healthService,
		c.logger,
	)
}

// GetHandler returns the API handler.
func (c *Container) GetHandler() *rest.Handler {
	return c.handler
}

// GetHealthService returns the health service.
func (c *Container) GetHealthService() *health.HealthService {
	return c.healthService
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	return c.config
}
