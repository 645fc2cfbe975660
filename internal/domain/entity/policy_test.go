package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTerminalPolicy_Normalize_NegativeTimeout(t *testing.T) {
	policy := TerminalPolicy{
		Enabled:     true,
		AutoLock:    true,
		LockTimeout: -3 * time.Minute,
	}

	normalized := policy.Normalize()

	assert.False(t, normalized.AutoLock)
	assert.Zero(t, normalized.LockTimeout)
	assert.False(t, normalized.AutoLockActive())
}

func TestTerminalPolicy_Normalize_ZeroTimeout(t *testing.T) {
	policy := TerminalPolicy{
		Enabled:  true,
		AutoLock: true,
	}

	normalized := policy.Normalize()

	assert.False(t, normalized.AutoLock)
	assert.False(t, normalized.AutoLockActive())
}

func TestTerminalPolicy_Normalize_ValidPolicyUnchanged(t *testing.T) {
	policy := TerminalPolicy{
		Enabled:          true,
		AutoLock:         true,
		LockTimeout:      5 * time.Minute,
		AlwaysRequirePIN: true,
	}

	normalized := policy.Normalize()

	assert.Equal(t, policy, normalized)
	assert.True(t, normalized.AutoLockActive())
}

func TestTerminalPolicy_AutoLockActive_DisabledTerminal(t *testing.T) {
	policy := TerminalPolicy{
		Enabled:     false,
		AutoLock:    true,
		LockTimeout: 5 * time.Minute,
	}

	assert.False(t, policy.AutoLockActive())
}
