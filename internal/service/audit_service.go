package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"campus-lostfound/internal/model"
	"campus-lostfound/pkg/apierror"
)

type auditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

// AuditService records who did what to which record. Logging is best effort:
// an audit write failure never fails the request that triggered it.
type AuditService struct {
	entries auditStore
}

func NewAuditService(entries auditStore) *AuditService {
	return &AuditService{entries: entries}
}

func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, status string, resource string, before any, after any, errText string) {
	if s == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     status,
		Resource:   resource,
		Before:     before,
		After:      after,
		Error:      errText,
	}

	if err := s.entries.Log(ctx, entry); err != nil {
		slog.Warn("audit log write failed", "action", action, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	if err := validateAuditTime(query.From); err != nil {
		return nil, model.Meta{}, apierror.BadRequest("invalid 'from' datetime format", query.From)
	}
	if err := validateAuditTime(query.To); err != nil {
		return nil, model.Meta{}, apierror.BadRequest("invalid 'to' datetime format", query.To)
	}

	return s.entries.Query(ctx, query)
}

func validateAuditTime(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return nil
	}
	_, err := time.Parse(time.RFC3339, trimmed)
	return err
}
