package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"vitrine/internal/tasks"
)

// AsynqJobClient is the Redis-backed JobClient.
var _ JobClient = (*AsynqJobClient)(nil)

type AsynqJobClient struct {
	client *asynq.Client
}

func NewAsynqJobClient(redisAddr, redisPassword string, redisDB int) *AsynqJobClient {
	cli := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &AsynqJobClient{client: cli}
}

func (jc *AsynqJobClient) Close() error {
	return jc.client.Close()
}

// Enqueue submits a task with an explicit UUID task ID for traceability.
func (jc *AsynqJobClient) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if jc.client == nil {
		return nil, fmt.Errorf("asynq client is not initialized")
	}
	opts = append(opts, asynq.TaskID(uuid.NewString()))
	info, err := jc.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, fmt.Errorf("enqueue task %s: %w", task.Type(), err)
	}
	log.Debugf("Enqueued task %s (id=%s, queue=%s)", task.Type(), info.ID, info.Queue)
	return info, nil
}

func (jc *AsynqJobClient) EnqueueSearchRecord(ctx context.Context, query string, resultsCount int, confidence float64) error {
	task, err := tasks.NewSearchRecordTask(query, resultsCount, confidence)
	if err != nil {
		return fmt.Errorf("build search record task: %w", err)
	}
	if _, err := jc.Enqueue(ctx, task, asynq.Queue("analytics")); err != nil {
		return fmt.Errorf("enqueue search record for %q: %w", query, err)
	}
	return nil
}

func (jc *AsynqJobClient) EnqueueProductView(ctx context.Context, productID int64) error {
	task, err := tasks.NewProductViewTask(productID)
	if err != nil {
		return fmt.Errorf("build product view task: %w", err)
	}
	if _, err := jc.Enqueue(ctx, task, asynq.Queue("analytics")); err != nil {
		return fmt.Errorf("enqueue product view for %d: %w", productID, err)
	}
	return nil
}
