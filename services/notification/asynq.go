package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"crewly/config"
	"crewly/models"
	"crewly/utils"
)

// TypeBookingEvent is the asynq task type carrying outbound booking
// events to the delivery worker.
const TypeBookingEvent = "booking:event"

// AsynqPublisher enqueues booking events on the Redis-backed task queue.
type AsynqPublisher struct {
	client *asynq.Client
}

// NewAsynqPublisher builds a Publisher on the configured Redis queue DB.
func NewAsynqPublisher() *AsynqPublisher {
	return &AsynqPublisher{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

func (p *AsynqPublisher) PublishBookingEvent(ctx context.Context, event models.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeBookingEvent, payload)
	_, err = p.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second))
	if err != nil {
		utils.GetLogger().Warn("failed to enqueue booking event",
			zap.String("kind", event.Kind),
			zap.String("bookingId", event.BookingID),
			zap.Error(err))
	}
	return err
}

// Close releases the underlying asynq client.
func (p *AsynqPublisher) Close() error {
	return p.client.Close()
}
