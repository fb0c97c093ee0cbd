package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const QueueKey = "priority_queue"

type Producer interface {
	Enqueue(ctx context.Context, job Job) error
}

type RedisProducer struct {
	Redis *redis.Client
}

func NewProducer(redis *redis.Client) Producer {
	return &RedisProducer{Redis: redis}
}

func (p *RedisProducer) Enqueue(ctx context.Context, job Job) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return err
	}

	// score is the due time in unix seconds; the poller pops everything with
	// score <= now. Priority breaks ties below the timestamp's resolution so
	// urgent jobs drain first within the same second.
	due := job.CreatedAt
	if due == 0 {
		due = time.Now().Unix()
	}
	score := float64(due) - float64(job.Priority)/1e3

	return p.Redis.ZAdd(ctx, QueueKey, redis.Z{
		Score:  score,
		Member: jobBytes,
	}).Err()
}
