package entities

import "strings"

// Credentials holds the secrets the gateway needs to talk to its upstreams.
// Loaded once at startup from the vault; refreshed only on explicit request.
type Credentials struct {
	LMAccessID       string
	LMAccessKey      string
	SnowClientID     string
	SnowClientSecret string
}

// Masked returns a map of credential names to masked values, suitable for the
// diagnostic secrets endpoint. Values are never returned in full.
func (c Credentials) Masked() map[string]string {
	return map[string]string{
		"lm_access_id":       maskSecret(c.LMAccessID),
		"lm_access_key":      maskSecret(c.LMAccessKey),
		"snow_client_id":     maskSecret(c.SnowClientID),
		"snow_client_secret": maskSecret(c.SnowClientSecret),
	}
}

func maskSecret(value string) string {
	if value == "" {
		return "NOT SET"
	}
	if len(value) > 8 {
		return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
	}
	return strings.Repeat("*", len(value))
}
