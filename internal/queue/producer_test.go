package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueue(t *testing.T) {
	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	defer rdb.Close()

	producer := NewProducer(rdb)

	createdAt := time.Now().Unix()
	job := Job{
		ID:   "job-1",
		Type: JobProjectEvent,
		Payload: MustMarshal(ProjectEventPayload{
			ProjectID: "p1",
			Event:     "project-updated",
			ActorID:   "u1",
		}),
		Priority:  1,
		MaxRetry:  3,
		CreatedAt: createdAt,
		ExpireAt:  time.Now().Add(5 * time.Minute).Unix(),
	}

	require.NoError(t, producer.Enqueue(context.Background(), job))

	members, err := rdb.ZRangeWithScores(context.Background(), QueueKey, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, members, 1)

	// score is the due time with the priority shaved off as a tiebreak
	wantScore := float64(createdAt) - 0.001
	assert.InDelta(t, wantScore, members[0].Score, 0.0001)

	var stored Job
	require.NoError(t, json.Unmarshal([]byte(members[0].Member.(string)), &stored))
	assert.Equal(t, "job-1", stored.ID)
	assert.Equal(t, JobProjectEvent, stored.Type)

	var payload ProjectEventPayload
	require.NoError(t, json.Unmarshal(stored.Payload, &payload))
	assert.Equal(t, "p1", payload.ProjectID)
}

// A freshly enqueued job must be visible to the consumer's due-jobs query
// right away, not parked above the current timestamp.
func TestEnqueuedJobIsDueImmediately(t *testing.T) {
	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	defer rdb.Close()

	producer := NewProducer(rdb)
	job := Job{
		ID:        "job-1",
		Type:      JobProjectEvent,
		Priority:  1,
		MaxRetry:  3,
		CreatedAt: time.Now().Unix(),
		ExpireAt:  time.Now().Add(5 * time.Minute).Unix(),
	}
	require.NoError(t, producer.Enqueue(context.Background(), job))

	// the worker's exact poll query
	due, err := rdb.ZRangeByScore(context.Background(), QueueKey, &redis.ZRangeBy{
		Min:    "-inf",
		Max:    fmt.Sprintf("%f", float64(time.Now().Unix())),
		Offset: 0,
		Count:  1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, due, 1, "fresh job must be due for the poller")

	var got Job
	require.NoError(t, json.Unmarshal([]byte(due[0]), &got))
	assert.Equal(t, "job-1", got.ID)
}

func TestHigherPriorityDrainsFirst(t *testing.T) {
	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	defer rdb.Close()

	producer := NewProducer(rdb)
	now := time.Now().Unix()

	low := Job{ID: "low", Type: JobActivityRecord, Priority: 1, CreatedAt: now, ExpireAt: now + 60}
	high := Job{ID: "high", Type: JobProjectEvent, Priority: 2, CreatedAt: now, ExpireAt: now + 60}

	require.NoError(t, producer.Enqueue(context.Background(), low))
	require.NoError(t, producer.Enqueue(context.Background(), high))

	members, err := rdb.ZRange(context.Background(), QueueKey, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, members, 2)

	var first Job
	require.NoError(t, json.Unmarshal([]byte(members[0]), &first))
	assert.Equal(t, "high", first.ID, "lower score drains first")
}
