package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/ecclesia-erp/ecclesia/internal/jobs"
	"github.com/ecclesia-erp/ecclesia/internal/shared"
)

// AuditActionPermissionsChanged is the audit_logs action for role permission changes.
const AuditActionPermissionsChanged = "roles.permissions.changed"

// AuditRecorder is satisfied by *shared.AuditLogger.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// AuditHandler turns permission change events into audit_logs rows.
type AuditHandler struct {
	audit   AuditRecorder
	metrics *jobmetrics.Metrics
	logger  *slog.Logger
}

// NewAuditHandler constructs the handler. metrics may be nil.
func NewAuditHandler(audit AuditRecorder, metrics *jobmetrics.Metrics, logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{audit: audit, metrics: metrics, logger: logger}
}

// HandleRolePermissionsChanged processes TaskRolePermissionsChanged tasks.
func (h *AuditHandler) HandleRolePermissionsChanged(ctx context.Context, t *asynq.Task) error {
	tracker := h.metrics.Track("role_permissions_audit")
	var payload RolePermissionsChangedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("decode permissions changed payload", slog.Any("error", err))
		return tracker.End(fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry))
	}
	err := h.audit.Record(ctx, shared.AuditLog{
		Action:        AuditActionPermissionsChanged,
		Entity:        "role",
		EntityID:      strconv.FormatInt(payload.RoleID, 10),
		CorrelationID: payload.EventID,
		Meta: map[string]any{
			"session_id": payload.SessionID,
			"granted":    payload.Granted,
			"revoked":    payload.Revoked,
			"selected":   payload.Selected,
			"total":      payload.Total,
		},
		At: payload.OccurredAt,
	})
	if err != nil {
		return tracker.End(fmt.Errorf("record audit for role %d: %w", payload.RoleID, err))
	}
	h.metrics.AddAuditEntries(AuditActionPermissionsChanged, 1)
	h.logger.Info("role permissions audited",
		slog.Int64("role_id", payload.RoleID),
		slog.Int("granted", len(payload.Granted)),
		slog.Int("revoked", len(payload.Revoked)))
	return tracker.End(nil)
}
