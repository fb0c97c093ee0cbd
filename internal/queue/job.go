package queue

import "encoding/json"

const (
	JobProjectEvent   = "project-event"
	JobActivityRecord = "activity-record"
)

type Job struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Priority  int             `json:"priority"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	ErrorMsg  string          `json:"error_msg,omitempty"`
	CreatedAt int64           `json:"created_at"`
	ExpireAt  int64           `json:"expired_at"`
}

// ProjectEventPayload fans a project-level change out to every live
// collaboration room attached to the project.
type ProjectEventPayload struct {
	ProjectID string         `json:"project_id"`
	Event     string         `json:"event"`
	ActorID   string         `json:"actor_id"`
	Detail    map[string]any `json:"detail,omitempty"`
}

type ActivityRecordPayload struct {
	ProjectID string         `json:"project_id"`
	ActorID   string         `json:"actor_id"`
	Action    string         `json:"action"`
	Detail    map[string]any `json:"detail,omitempty"`
}

func MustMarshal(payload any) json.RawMessage {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil
	}

	return b
}
