// Package audit contains the slog-backed audit sink for authentication
// attempts. Emission is best-effort and decoupled from the decision path.
package audit

import (
	"context"
	"log/slog"

	"posauth/internal/domain/service"
)

// slogSink implements service.AuditSink by writing structured records to the
// service logger. slog handlers never return errors to the caller, which
// satisfies the sink contract that emission can never fail authentication.
type slogSink struct {
	logger *slog.Logger
}

// NewSlogSink is the constructor for slogSink.
func NewSlogSink(logger *slog.Logger) service.AuditSink {
	return &slogSink{logger: logger}
}

// Record writes one attempt record.
func (s *slogSink) Record(ctx context.Context, entry service.AuditEntry) {
	attrs := []slog.Attr{
		slog.Time("attempt_time", entry.Time),
		slog.String("terminal_id", entry.TerminalID),
		slog.String("card_id", entry.CardID),
		slog.Bool("pin_supplied", entry.PINSupplied),
		slog.String("outcome", entry.Outcome),
	}
	if entry.UserID != nil {
		attrs = append(attrs, slog.Any("user_id", *entry.UserID))
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "Authentication attempt audited", attrs...)
}
