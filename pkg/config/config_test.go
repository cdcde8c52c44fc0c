package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"AZURE_TENANT_ID", "AZURE_AUTH_METHOD", "OPERATION_TIMEOUT", "DRY_RUN_DEFAULT",
	} {
		// t.Setenv records the original value for cleanup before the unset
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "default", settings.AuthMethod)
	assert.Equal(t, time.Minute, settings.OperationTimeout)
	assert.True(t, settings.DryRunDefault)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("AZURE_TENANT_ID", "tenant-a")
	t.Setenv("AZURE_SUBSCRIPTION_ID", "11111111-2222-3333-4444-555555555555")
	t.Setenv("OPERATION_TIMEOUT", "90s")
	t.Setenv("DRY_RUN_DEFAULT", "false")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tenant-a", settings.TenantID)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", settings.SubscriptionID)
	assert.Equal(t, 90*time.Second, settings.OperationTimeout)
	assert.False(t, settings.DryRunDefault)
}
