package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRolePermissionsChanged is emitted after a role's permissions were saved.
	TaskRolePermissionsChanged = "roles:permissions.changed"
)

// RolePermissionsChangedPayload describes one committed permission change.
type RolePermissionsChangedPayload struct {
	EventID    uuid.UUID `json:"event_id"`
	SessionID  string    `json:"session_id"`
	RoleID     int64     `json:"role_id"`
	Granted    []string  `json:"granted"`
	Revoked    []string  `json:"revoked"`
	Selected   int       `json:"selected"`
	Total      int       `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRolePermissionsChangedTask constructs an Asynq task. The event id doubles as
// the task id so a re-enqueue of the same event is rejected.
func NewRolePermissionsChangedTask(payload RolePermissionsChangedPayload) (*asynq.Task, error) {
	if payload.EventID == uuid.Nil {
		payload.EventID = uuid.New()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRolePermissionsChanged, data,
		asynq.TaskID(payload.EventID.String()),
		asynq.MaxRetry(10),
		asynq.Queue(QueueDefault)), nil
}
