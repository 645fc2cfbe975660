// Package policy contains the config-backed terminal policy provider.
// Terminal configuration is owned by the hosting application; the service
// config file is its simplest incarnation.
package policy

import (
	"log/slog"

	"posauth/config"
	"posauth/internal/domain/entity"
	"posauth/internal/domain/service"
)

// configProvider implements service.PolicyProvider from the loaded config.
type configProvider struct {
	terminals map[string]entity.TerminalPolicy
	fallback  entity.TerminalPolicy
	logger    *slog.Logger
}

// NewConfigProvider is the constructor for configProvider. Policies are
// normalized once at load time; malformed entries degrade to auto-lock
// disabled and are logged rather than rejected.
func NewConfigProvider(cfg *config.Config, logger *slog.Logger) service.PolicyProvider {
	terminals := make(map[string]entity.TerminalPolicy, len(cfg.Terminals))
	for _, tc := range cfg.Terminals {
		policy := tc.Policy()
		normalized := policy.Normalize()
		if normalized != policy {
			logger.Warn("Terminal policy has invalid lock timeout, auto-lock disabled",
				slog.String("terminal_id", tc.ID),
				slog.Duration("configured_timeout", policy.LockTimeout),
			)
		}
		terminals[tc.ID] = normalized
	}

	return &configProvider{
		terminals: terminals,
		fallback:  cfg.TerminalDefaults.Policy().Normalize(),
		logger:    logger,
	}
}

// PolicyFor returns the terminal's policy, or the configured default for
// terminals without an explicit entry.
func (p *configProvider) PolicyFor(terminalID string) entity.TerminalPolicy {
	if policy, ok := p.terminals[terminalID]; ok {
		return policy
	}

	return p.fallback
}
