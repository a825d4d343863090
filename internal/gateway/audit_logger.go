package gateway

import (
	"context"

	"github.com/rs/zerolog"

	"hw-reconciliation/internal/domain"
	"hw-reconciliation/internal/usecase"
)

// ZerologAuditLogger writes audit entries as structured log lines.
type ZerologAuditLogger struct {
	logger zerolog.Logger
}

func NewZerologAuditLogger(logger zerolog.Logger) *ZerologAuditLogger {
	return &ZerologAuditLogger{logger: logger.With().Str("stream", "audit").Logger()}
}

func (l *ZerologAuditLogger) Log(_ context.Context, entry domain.AuditEntry) error {
	oldData, err := domain.EncodePayload(entry.OldData)
	if err != nil {
		return err
	}
	newData, err := domain.EncodePayload(entry.NewData)
	if err != nil {
		return err
	}
	event := l.logger.Info().
		Str("action", string(entry.Action)).
		Str("entity", entry.Entity).
		Str("entity_id", entry.EntityID).
		Str("actor", entry.Actor).
		Time("at", entry.At)
	if oldData != nil {
		event = event.RawJSON("old_data", oldData)
	}
	if newData != nil {
		event = event.RawJSON("new_data", newData)
	}
	event.Msg("audit")
	return nil
}

// MultiAuditLogger fans an entry out to several loggers and returns the first error.
type MultiAuditLogger []usecase.AuditLogger

func (m MultiAuditLogger) Log(ctx context.Context, entry domain.AuditEntry) error {
	var first error
	for _, l := range m {
		if err := l.Log(ctx, entry); err != nil && first == nil {
			first = err
		}
	}
	return first
}
