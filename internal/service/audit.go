package service

import (
	"context"
	"fmt"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/pkg/idx"
)

// AuditService exposes the audit trail to the admin surface. Writes happen
// through appendAudit so they can share a transaction with the operation
// they record.
type AuditService struct {
	Store store.Store
}

const defaultAuditListLimit = 100

// ListRecent returns the newest audit entries for the admin view.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultAuditListLimit
	}
	return s.Store.AuditLog().ListRecentEntries(ctx, limit)
}

// Record appends a standalone audit entry outside any larger transaction.
func (s *AuditService) Record(ctx context.Context, userID *string, ip, actionType, description string, details map[string]any) error {
	return appendAudit(ctx, s.Store, userID, ip, actionType, description, details)
}

// appendAudit writes one immutable audit entry against st, which may be a Tx.
// The append is load-bearing for rate limiting, so failures propagate instead
// of being swallowed.
func appendAudit(ctx context.Context, st store.Store, userID *string, ip, actionType, description string, details map[string]any) error {
	entry := domain.AuditEntry{
		ID:          idx.New().String(),
		UserID:      userID,
		IP:          ip,
		ActionType:  actionType,
		Description: description,
		Details:     details,
		CreatedAt:   time.Now().UTC(),
	}
	if err := st.AuditLog().AppendEntry(ctx, entry); err != nil {
		return fmt.Errorf("audit append (%s): %w", actionType, err)
	}
	return nil
}
