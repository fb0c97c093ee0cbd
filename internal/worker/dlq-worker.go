package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gatat123/studioo-backend/internal/entity"
	"github.com/gatat123/studioo-backend/internal/queue"
)

const dlqKey = "priority_queue_dlq"

// StartDLQWorker drains the redis dead letter list into mongo so failed
// jobs survive restarts and can be retried on a schedule.
func (wp *WorkerPool) StartDLQWorker(ctx context.Context) {
	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()

		log.Info().Msg("DLQ worker started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("DLQ worker stopping")
				return
			default:
				result, err := wp.Redis.BLPop(ctx, 10*time.Second, dlqKey).Result()
				if err == redis.Nil {
					continue
				} else if err != nil {
					log.Error().Err(err).Msg("DLQWorker pop failed")
					continue
				}

				payload := result[1]
				var job queue.Job
				if err := json.Unmarshal([]byte(payload), &job); err != nil {
					log.Warn().Err(err).Msg("DLQWorker invalid job payload")
					continue
				}

				jobBytes, _ := json.Marshal(job)
				dlqDoc := entity.DLQJob{
					JobID:      job.ID,
					Type:       job.Type,
					Payload:    jobBytes,
					ErrorMsg:   job.ErrorMsg,
					Status:     "pending",
					RetryCount: 0,
					CreatedAt:  time.Now().UTC(),
					UpdatedAt:  time.Now().UTC(),
					ExpireAt:   time.Now().Add(7 * 24 * time.Hour).UTC(),
				}

				collection := wp.dlqCollection()
				if _, err := collection.InsertOne(ctx, dlqDoc); err != nil {
					log.Error().Err(err).Msg("Failed to persist DLQ job to MongoDB")

					// fallback: put back to Redis DLQ
					wp.Redis.RPush(ctx, dlqKey, payload)
				} else {
					log.Info().Str("job_id", job.ID).Msg("DLQ job persisted to MongoDB")
				}
			}
		}
	}()
}

func (wp *WorkerPool) StartDLQRetryConsumer(ctx context.Context) {
	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()

		log.Info().Msg("DLQ retry consumer started")
		ticker := time.NewTicker(wp.DLQConfig.RetryInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("DLQ retry consumer stopping")
				return
			case <-ticker.C:
				wp.processDLQJobs(ctx)
			}
		}
	}()
}

func (wp *WorkerPool) dlqCollection() *mongo.Collection {
	return wp.Mongo.Database(wp.DLQConfig.DatabaseName).Collection(wp.DLQConfig.CollectionName)
}

func (wp *WorkerPool) processDLQJobs(ctx context.Context) {
	collection := wp.dlqCollection()

	filter := bson.M{
		"status":      bson.M{"$in": []string{"pending", "failed"}},
		"retry_count": bson.M{"$lt": wp.DLQConfig.MaxRetryCount},
		"$or": []bson.M{
			{"next_retry_at": bson.M{"$exists": false}},
			{"next_retry_at": bson.M{"$lte": time.Now().UTC()}},
		},
	}

	opts := options.Find().SetSort(bson.M{"created_at": 1}).SetLimit(int64(wp.DLQConfig.BatchSize))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query DLQ jobs")
		return
	}
	defer cursor.Close(ctx)

	var dlqJobs []entity.DLQJob
	if err := cursor.All(ctx, &dlqJobs); err != nil {
		log.Error().Err(err).Msg("Failed to decode DLQ jobs")
		return
	}

	if len(dlqJobs) == 0 {
		return
	}

	log.Info().Int("count", len(dlqJobs)).Msg("Processing DLQ jobs")

	for _, dlqJob := range dlqJobs {
		wp.retryDLQJob(ctx, collection, &dlqJob)
	}
}

func (wp *WorkerPool) retryDLQJob(ctx context.Context, collection *mongo.Collection, dlqJob *entity.DLQJob) {
	var originalJob queue.Job
	if err := json.Unmarshal(dlqJob.Payload, &originalJob); err != nil {
		log.Error().Err(err).Str("job_id", dlqJob.JobID).Msg("Failed to unmarshal DLQ job payload")
		wp.updateDLQStatus(ctx, collection, dlqJob.ID, bson.M{
			"status":    "permanently_failed",
			"error_msg": err.Error(),
		})
		return
	}

	originalJob.Retry = 0
	originalJob.ErrorMsg = ""

	if err := wp.HandleJob(ctx, originalJob); err != nil {
		wp.handleDLQRetryFailure(ctx, collection, dlqJob, err.Error())
		return
	}

	wp.updateDLQStatus(ctx, collection, dlqJob.ID, bson.M{"status": "completed"})
	log.Info().Str("job_id", dlqJob.JobID).Str("type", dlqJob.Type).Msg("DLQ job successfully retried")
}

func (wp *WorkerPool) handleDLQRetryFailure(ctx context.Context, collection *mongo.Collection, dlqJob *entity.DLQJob, errorMsg string) {
	newRetryCount := dlqJob.RetryCount + 1

	if newRetryCount >= wp.DLQConfig.MaxRetryCount {
		wp.updateDLQStatus(ctx, collection, dlqJob.ID, bson.M{
			"status":    "permanently_failed",
			"error_msg": errorMsg,
		})
		log.Error().Str("job_id", dlqJob.JobID).Str("type", dlqJob.Type).Int("dlq_retry_count", newRetryCount).Msg("DLQ job permanently failed after max retries")
		return
	}

	// exponential backoff on the retry interval
	backoff := wp.DLQConfig.RetryInterval * time.Duration(1<<newRetryCount)
	nextRetryAt := time.Now().UTC().Add(backoff)

	wp.updateDLQStatus(ctx, collection, dlqJob.ID, bson.M{
		"status":        "failed",
		"retry_count":   newRetryCount,
		"error_msg":     errorMsg,
		"next_retry_at": nextRetryAt,
	})

	log.Warn().
		Str("job_id", dlqJob.JobID).
		Str("type", dlqJob.Type).
		Int("dlq_retry_count", newRetryCount).
		Time("next_retry_at", nextRetryAt).
		Msg("DLQ job scheduled for retry")
}

func (wp *WorkerPool) updateDLQStatus(ctx context.Context, collection *mongo.Collection, id bson.ObjectID, set bson.M) {
	set["updated_at"] = time.Now().UTC()
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		log.Error().Err(err).Interface("job_id", id).Msg("Failed to update DLQ job status")
	}
}

func (wp *WorkerPool) GetDLQStats(ctx context.Context) (map[string]int64, error) {
	collection := wp.dlqCollection()

	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := make(map[string]int64)
	for cursor.Next(ctx) {
		var result bson.M
		if err := cursor.Decode(&result); err != nil {
			continue
		}
		status, _ := result["_id"].(string)
		switch count := result["count"].(type) {
		case int32:
			stats[status] = int64(count)
		case int64:
			stats[status] = count
		}
	}

	return stats, nil
}
