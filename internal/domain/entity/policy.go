package entity

import "time"

// DefaultLockTimeout is the auto-lock timeout applied when a terminal has
// no explicit configuration.
const DefaultLockTimeout = 5 * time.Minute

// TerminalPolicy is the per-terminal configuration snapshot consumed by the
// lock controller. It is owned by the external configuration collaborator
// and read-only from this core's perspective.
type TerminalPolicy struct {
	Enabled          bool          `json:"enabled"`            // RFID authentication active for this terminal.
	AutoLock         bool          `json:"auto_lock"`          // Inactivity lock active.
	LockTimeout      time.Duration `json:"lock_timeout"`       // Inactivity window before the screen locks.
	AlwaysRequirePIN bool          `json:"always_require_pin"` // Force the PIN prompt even for RFID-only-policy users.
	RFIDOnly         bool          `json:"rfid_only"`          // Suppress PIN entry in the UI entirely.
}

// Normalize clamps a malformed policy to the safest permissive state
// instead of raising an error: a non-positive timeout disables auto-lock.
func (p TerminalPolicy) Normalize() TerminalPolicy {
	if p.LockTimeout <= 0 {
		p.AutoLock = false
		p.LockTimeout = 0
	}

	return p
}

// AutoLockActive reports whether inactivity locking applies under this policy.
func (p TerminalPolicy) AutoLockActive() bool {
	return p.Enabled && p.AutoLock && p.LockTimeout > 0
}
