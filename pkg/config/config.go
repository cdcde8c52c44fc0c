package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings holds process-wide configuration sourced from the environment.
// A .env file in the working directory is loaded first when present.
type Settings struct {
	TenantID         string        `envconfig:"AZURE_TENANT_ID"`
	ClientID         string        `envconfig:"AZURE_CLIENT_ID"`
	SubscriptionID   string        `envconfig:"AZURE_SUBSCRIPTION_ID"`
	AuthMethod       string        `envconfig:"AZURE_AUTH_METHOD" default:"default"`
	OperationTimeout time.Duration `envconfig:"OPERATION_TIMEOUT" default:"60s"`
	DryRunDefault    bool          `envconfig:"DRY_RUN_DEFAULT" default:"true"`
}

// Load reads settings from the environment, honoring an optional .env file.
func Load() (*Settings, error) {
	// missing .env is fine, environment variables still apply
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("processing environment config: %w", err)
	}

	return &s, nil
}
