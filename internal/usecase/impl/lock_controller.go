package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"posauth/internal/domain/entity"
	"posauth/internal/usecase"
)

// lockController implements the LockController interface for one terminal
// session. The inactivity timeout is evaluated lazily on every query and
// command, so no background timer is needed and the elapsed-time comparison
// is consistent with the clock the caller observes.
type lockController struct {
	mu sync.Mutex

	terminalID string
	policy     entity.TerminalPolicy
	auth       usecase.AuthUsecase
	logger     *slog.Logger
	now        func() time.Time

	state          usecase.LockState
	lastActivity   time.Time
	lockedSince    time.Time
	failedAttempts int
}

// newLockController creates a controller in the unlocked state; session
// start counts as activity. The policy is normalized once and captured as an
// immutable snapshot.
func newLockController(
	terminalID string,
	policy entity.TerminalPolicy,
	auth usecase.AuthUsecase,
	logger *slog.Logger,
	now func() time.Time,
) *lockController {
	normalized := policy.Normalize()
	if normalized != policy {
		logger.Warn("Clamped malformed terminal policy to auto-lock disabled",
			slog.String("terminal_id", terminalID),
			slog.Duration("configured_timeout", policy.LockTimeout),
		)
	}

	return &lockController{
		terminalID:   terminalID,
		policy:       normalized,
		auth:         auth,
		logger:       logger,
		now:          now,
		state:        usecase.LockStateUnlocked,
		lastActivity: now(),
	}
}

// Policy returns the normalized policy snapshot.
func (c *lockController) Policy() entity.TerminalPolicy {
	return c.policy
}

// CurrentState applies any due timeout transition and returns the status.
func (c *lockController) CurrentState() usecase.LockStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advance(c.now())

	status := usecase.LockStatus{
		State:          c.state,
		Since:          c.lastActivity,
		FailedAttempts: c.failedAttempts,
	}
	if c.state == usecase.LockStateLocked {
		status.Since = c.lockedSince
	}

	return status
}

// RecordActivity resets the inactivity clock. Activity on a locked terminal
// is ignored: only a successful unlock resets the clock.
func (c *lockController) RecordActivity(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advance(t)

	if c.state == usecase.LockStateLocked {
		return
	}

	if t.After(c.lastActivity) {
		c.lastActivity = t
	}
}

// Lock locks the terminal immediately. A disabled terminal never leaves the
// unlocked state, so the command is ignored there.
func (c *lockController) Lock(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.policy.Enabled || c.state == usecase.LockStateLocked {
		return
	}

	c.lock(t)
	c.logger.Info("Terminal locked manually", slog.String("terminal_id", c.terminalID))
}

// AttemptUnlock delegates to the authenticator. Success unlocks and resets
// the activity clock to the unlock time; failure leaves the terminal locked
// and surfaces the denial to the caller.
func (c *lockController) AttemptUnlock(ctx context.Context, cardID, pin string) (*entity.Identity, error) {
	identity, err := c.auth.Authenticate(ctx, usecase.AuthenticateInput{
		TerminalID: c.terminalID,
		CardID:     cardID,
		PIN:        pin,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.advance(now)

	if err != nil {
		if c.state == usecase.LockStateLocked {
			c.failedAttempts++
		}

		return nil, err
	}

	if c.state == usecase.LockStateLocked {
		c.logger.Info("Terminal unlocked",
			slog.String("terminal_id", c.terminalID),
			slog.Any("user_id", identity.UserID),
		)
	}

	c.state = usecase.LockStateUnlocked
	c.lastActivity = now
	c.failedAttempts = 0

	return identity, nil
}

// advance performs the timeout transition if it is due at time t.
// Callers must hold the mutex.
func (c *lockController) advance(t time.Time) {
	if c.state != usecase.LockStateUnlocked || !c.policy.AutoLockActive() {
		return
	}

	if t.Sub(c.lastActivity) >= c.policy.LockTimeout {
		c.lock(t)
		c.logger.Info("Terminal locked after inactivity",
			slog.String("terminal_id", c.terminalID),
			slog.Duration("timeout", c.policy.LockTimeout),
		)
	}
}

// lock records the transition to the locked state. Callers must hold the mutex.
func (c *lockController) lock(t time.Time) {
	c.state = usecase.LockStateLocked
	c.lockedSince = t
	c.failedAttempts = 0
}
