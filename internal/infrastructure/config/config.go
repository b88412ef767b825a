package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lm-gateway/internal/domain/errors"
)

// Config holds the application configuration.
type Config struct {
	Server       ServerConfig
	LogicMonitor LogicMonitorConfig
	KeyVault     KeyVaultConfig
	ServiceNow   ServiceNowConfig
	Matching     MatchingRules
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// LogicMonitorConfig holds the monitoring platform API configuration.
type LogicMonitorConfig struct {
	BaseURL string
	// PageSize is the page size used for every paginated list call.
	PageSize int
	// RequestTimeout bounds each outbound call. The original integration ran
	// without one; the finite default is a deliberate hardening addition.
	RequestTimeout time.Duration
}

// KeyVaultConfig holds the secret store configuration.
type KeyVaultConfig struct {
	VaultURL string
	// Secret names under which the credentials are stored in the vault.
	LMAccessIDSecret       string
	LMAccessKeySecret      string
	SnowClientIDSecret     string
	SnowClientSecretSecret string
}

// ServiceNowConfig holds the change-management system configuration.
type ServiceNowConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// MatchingRules holds the datasource allow-lists and interface keywords the
// resolution engine filters by. Loadable from a yaml file; defaults mirror
// the deployed ruleset.
type MatchingRules struct {
	InterfaceDatasources []string `yaml:"interface_datasources"`
	CDPDatasources       []string `yaml:"cdp_datasources"`
	InterfaceKeywords    []string `yaml:"interface_keywords"`
	// DomainSuffix is stripped from CDP-reported neighbor device names before
	// the neighbor is looked up.
	DomainSuffix string `yaml:"domain_suffix"`
}

// DefaultMatchingRules returns the built-in ruleset.
func DefaultMatchingRules() MatchingRules {
	return MatchingRules{
		InterfaceDatasources: []string{
			"SNMP_Network_Interfaces_acc_sw",
			"SNMP_Network_Interfaces",
		},
		CDPDatasources: []string{"CDP_Neighbors"},
		InterfaceKeywords: []string{
			"Gig", "Ethernet", "Port-channel", "Serial", "T1",
			"StackSub", "StackPort", "tunnel", "ae", "interface",
		},
		DomainSuffix: ".genpact.com",
	}
}

// ConfigLoader is an interface for loading configuration.
type ConfigLoader interface {
	Load() (*Config, error)
}

// EnvironmentConfigLoader loads configuration from environment variables,
// plus an optional yaml matching-rules file.
type EnvironmentConfigLoader struct{}

// NewEnvironmentConfigLoader creates a new EnvironmentConfigLoader.
func NewEnvironmentConfigLoader() ConfigLoader {
	return &EnvironmentConfigLoader{}
}

// Load loads and validates the configuration.
func (l *EnvironmentConfigLoader) Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		LogicMonitor: LogicMonitorConfig{
			BaseURL:        getEnvOrDefault("LM_BASE_URL", "https://genpact.logicmonitor.com/santaba/rest"),
			PageSize:       getEnvIntOrDefault("LM_PAGE_SIZE", 1000),
			RequestTimeout: getEnvDurationOrDefault("LM_REQUEST_TIMEOUT", 30*time.Second),
		},
		KeyVault: KeyVaultConfig{
			VaultURL:               getEnvOrDefault("KEY_VAULT_URL", "https://secretmanagement1.vault.azure.net/"),
			LMAccessIDSecret:       getEnvOrDefault("LM_ACCESS_ID_SECRET", "LM-access-id"),
			LMAccessKeySecret:      getEnvOrDefault("LM_ACCESS_KEY_SECRET", "LM-access-key"),
			SnowClientIDSecret:     getEnvOrDefault("SNOW_CLIENT_ID_SECRET", "snow-client-id"),
			SnowClientSecretSecret: getEnvOrDefault("SNOW_CLIENT_SECRET_SECRET", "snow-client-secret"),
		},
		ServiceNow: ServiceNowConfig{
			BaseURL:        getEnvOrDefault("SNOW_BASE_URL", "https://genpactdevelop.service-now.com"),
			RequestTimeout: getEnvDurationOrDefault("SNOW_REQUEST_TIMEOUT", 30*time.Second),
		},
		Matching: DefaultMatchingRules(),
	}

	if path := os.Getenv("MATCHING_RULES_FILE"); path != "" {
		rules, err := loadMatchingRules(path)
		if err != nil {
			return nil, err
		}
		config.Matching = *rules
	}

	if err := l.validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// loadMatchingRules reads a MatchingRules yaml file. Fields left empty in the
// file fall back to the built-in defaults.
func loadMatchingRules(path string) (*MatchingRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("cannot read matching rules file %s", path), err)
	}

	rules := DefaultMatchingRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("cannot parse matching rules file %s", path), err)
	}
	return &rules, nil
}

// validate validates the configuration.
func (l *EnvironmentConfigLoader) validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.NewValidationError("server port not configured", nil)
	}
	if config.LogicMonitor.BaseURL == "" {
		return errors.NewValidationError("monitoring API base URL not configured", nil)
	}
	if !strings.HasPrefix(config.LogicMonitor.BaseURL, "http") {
		return errors.NewValidationError("monitoring API base URL must be an http(s) URL", nil)
	}
	if config.LogicMonitor.PageSize <= 0 {
		return errors.NewValidationError("invalid page size", nil)
	}
	if config.LogicMonitor.RequestTimeout <= 0 {
		return errors.NewValidationError("invalid request timeout", nil)
	}
	if config.KeyVault.VaultURL == "" {
		return errors.NewValidationError("key vault URL not configured", nil)
	}
	if len(config.Matching.InterfaceDatasources) == 0 {
		return errors.NewValidationError("interface datasource allow-list is empty", nil)
	}
	if len(config.Matching.CDPDatasources) == 0 {
		return errors.NewValidationError("CDP datasource allow-list is empty", nil)
	}
	if len(config.Matching.InterfaceKeywords) == 0 {
		return errors.NewValidationError("interface keyword list is empty", nil)
	}
	return nil
}

// Environment variable helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
