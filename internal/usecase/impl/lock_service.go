package impl

import (
	"log/slog"
	"sync"
	"time"

	domainerrors "posauth/internal/domain/errors"
	"posauth/internal/domain/service"
	"posauth/internal/errors"
	"posauth/internal/usecase"
)

// lockService implements the LockUsecase interface. It owns one lock
// controller per open terminal session; controllers are never shared across
// terminals and their state is discarded when the session closes.
type lockService struct {
	mu       sync.RWMutex
	sessions map[string]*lockController

	auth     usecase.AuthUsecase
	policies service.PolicyProvider
	logger   *slog.Logger
	now      func() time.Time
}

// NewLockService is the constructor for lockService.
func NewLockService(
	auth usecase.AuthUsecase,
	policies service.PolicyProvider,
	logger *slog.Logger,
) usecase.LockUsecase {
	return &lockService{
		sessions: make(map[string]*lockController),
		auth:     auth,
		policies: policies,
		logger:   logger,
		now:      time.Now,
	}
}

// Open starts a session for the terminal with the policy snapshot in effect
// at open time. Reopening replaces the previous session's lock state.
func (srv *lockService) Open(terminalID string) usecase.LockController {
	policy := srv.policies.PolicyFor(terminalID)

	srv.mu.Lock()
	defer srv.mu.Unlock()

	ctrl := newLockController(terminalID, policy, srv.auth, srv.logger, srv.now)
	srv.sessions[terminalID] = ctrl

	srv.logger.Info("Terminal session opened",
		slog.String("terminal_id", terminalID),
		slog.Bool("rfid_enabled", ctrl.Policy().Enabled),
		slog.Bool("auto_lock", ctrl.Policy().AutoLockActive()),
	)

	return ctrl
}

// Get returns the controller of an open session.
func (srv *lockService) Get(terminalID string) (usecase.LockController, error) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	ctrl, ok := srv.sessions[terminalID]
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrSessionNotFound)
	}

	return ctrl, nil
}

// Close ends the session and discards its lock state.
func (srv *lockService) Close(terminalID string) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if _, ok := srv.sessions[terminalID]; !ok {
		return errors.WithStack(domainerrors.ErrSessionNotFound)
	}

	delete(srv.sessions, terminalID)
	srv.logger.Info("Terminal session closed", slog.String("terminal_id", terminalID))

	return nil
}
