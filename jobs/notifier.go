package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ecclesia-erp/ecclesia/internal/permissions"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier publishes successful permission commits to the audit queue. Enqueue
// failures are logged; the commit itself has already happened.
type Notifier struct {
	queue  Enqueuer
	logger *slog.Logger
	now    func() time.Time
}

// NewNotifier constructs a Notifier.
func NewNotifier(queue Enqueuer, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{queue: queue, logger: logger, now: time.Now}
}

// PermissionsCommitted implements permissions.CommitObserver.
func (n *Notifier) PermissionsCommitted(ctx context.Context, result permissions.CommitResult) {
	if n == nil || n.queue == nil || result.Err != nil || result.Diff.Empty() {
		return
	}
	task, err := NewRolePermissionsChangedTask(RolePermissionsChangedPayload{
		EventID:    uuid.New(),
		SessionID:  result.SessionID,
		RoleID:     result.RoleID,
		Granted:    result.Diff.Granted,
		Revoked:    result.Diff.Revoked,
		Selected:   result.Coverage.Selected,
		Total:      result.Coverage.Total,
		OccurredAt: n.now().UTC(),
	})
	if err != nil {
		n.logger.Error("build permissions changed task", slog.Int64("role_id", result.RoleID), slog.Any("error", err))
		return
	}
	if _, err := n.queue.EnqueueContext(ctx, task); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		n.logger.Warn("enqueue permissions changed task",
			slog.Int64("role_id", result.RoleID),
			slog.String("session", result.SessionID),
			slog.Any("error", err))
	}
}
