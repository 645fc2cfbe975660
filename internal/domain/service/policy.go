package service

import "posauth/internal/domain/entity"

// PolicyProvider supplies the terminal policy snapshot for a terminal.
// Policy storage is owned by the hosting application; the core only reads it.
// Implementations return a normalized default when the terminal is unknown.
type PolicyProvider interface {
	PolicyFor(terminalID string) entity.TerminalPolicy
}
