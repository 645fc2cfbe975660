package config

import (
	"testing"
	"time"

	"posauth/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestTerminalConfig_Policy(t *testing.T) {
	tc := TerminalConfig{
		ID:               "front-counter",
		Enabled:          true,
		AutoLock:         true,
		LockTimeout:      10 * time.Minute,
		AlwaysRequirePin: true,
		RfidOnly:         true,
	}

	policy := tc.Policy()

	assert.Equal(t, entity.TerminalPolicy{
		Enabled:          true,
		AutoLock:         true,
		LockTimeout:      10 * time.Minute,
		AlwaysRequirePIN: true,
		RFIDOnly:         true,
	}, policy)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, RegistryBackendPostgres, cfg.Registry.Backend)
	assert.True(t, cfg.TerminalDefaults.AutoLock)
	assert.Equal(t, entity.DefaultLockTimeout, cfg.TerminalDefaults.LockTimeout)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Registry.Backend = RegistryBackendMemory
	cfg.TerminalDefaults = TerminalConfig{LockTimeout: time.Minute}

	applyDefaults(cfg)

	assert.Equal(t, RegistryBackendMemory, cfg.Registry.Backend)
	assert.Equal(t, time.Minute, cfg.TerminalDefaults.LockTimeout)
	assert.False(t, cfg.TerminalDefaults.AutoLock)
}
