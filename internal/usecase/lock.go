package usecase

import (
	"context"
	"time"

	"posauth/internal/domain/entity"
)

// LockState enumerates the two states of a terminal's lock machine.
type LockState int

const (
	// LockStateUnlocked is the initial state; session start counts as activity.
	LockStateUnlocked LockState = iota
	// LockStateLocked is entered on inactivity timeout or manual lock.
	LockStateLocked
)

// String implements fmt.Stringer.
func (s LockState) String() string {
	if s == LockStateLocked {
		return "locked"
	}

	return "unlocked"
}

// MarshalJSON renders the state as its string name.
func (s LockState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// LockStatus is the queryable snapshot of a lock controller.
type LockStatus struct {
	State LockState `json:"state"`
	// Since is the locked-since timestamp when locked, and the last-activity
	// timestamp when unlocked.
	Since time.Time `json:"since"`
	// FailedAttempts counts consecutive failed unlock attempts since the last
	// lock or successful unlock. No lockout policy is applied here; the
	// hosting application may layer one on top.
	FailedAttempts int `json:"failed_attempts"`
}

// LockController is the per-terminal-session state machine governing
// automatic screen locking. Instances are owned by exactly one terminal
// session and are safe for concurrent use within it.
type LockController interface {
	// CurrentState evaluates the inactivity timeout lazily and returns the
	// resulting status.
	CurrentState() LockStatus

	// RecordActivity registers a user-activity tick. Activity while locked
	// neither unlocks nor resets the inactivity clock.
	RecordActivity(t time.Time)

	// Lock locks the terminal immediately. Ignored when RFID authentication
	// is disabled for the terminal.
	Lock(t time.Time)

	// AttemptUnlock routes an unlock attempt through the authenticator.
	// Success transitions to unlocked and resets the activity clock to the
	// unlock time; failure stays locked and returns the denial.
	AttemptUnlock(ctx context.Context, cardID, pin string) (*entity.Identity, error)

	// Policy returns the normalized policy snapshot the controller runs under.
	Policy() entity.TerminalPolicy
}

// LockUsecase manages one lock controller per open terminal session.
type LockUsecase interface {
	// Open starts a session for the terminal and returns its controller.
	// Reopening a terminal replaces the previous session's state.
	Open(terminalID string) LockController

	// Get returns the controller of an open session.
	Get(terminalID string) (LockController, error)

	// Close ends the session and discards its lock state.
	Close(terminalID string) error
}
