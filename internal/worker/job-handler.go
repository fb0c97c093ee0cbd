package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gatat123/studioo-backend/internal/entity"
	"github.com/gatat123/studioo-backend/internal/queue"
)

func (wp *WorkerPool) HandleJob(ctx context.Context, job queue.Job) error {
	switch job.Type {
	case queue.JobProjectEvent:
		return wp.handleProjectEvent(job.Payload)
	case queue.JobActivityRecord:
		return wp.handleActivityRecord(ctx, job.Payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleProjectEvent fans a project change out to every live room attached
// to the project. Delivery is best effort, so there is nothing to retry.
func (wp *WorkerPool) handleProjectEvent(raw json.RawMessage) error {
	var payload queue.ProjectEventPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid project event payload: %w", err)
	}

	wp.manager.BroadcastToProjectRooms(payload.ProjectID, payload.Event, map[string]any{
		"projectId": payload.ProjectID,
		"actorId":   payload.ActorID,
		"detail":    payload.Detail,
	}, "")

	return nil
}

func (wp *WorkerPool) handleActivityRecord(ctx context.Context, raw json.RawMessage) error {
	var payload queue.ActivityRecordPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid activity record payload: %w", err)
	}

	return wp.comments.InsertActivity(ctx, &entity.Activity{
		ProjectID: payload.ProjectID,
		ActorID:   payload.ActorID,
		Action:    payload.Action,
		Detail:    payload.Detail,
	})
}
