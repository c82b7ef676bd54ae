package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"crewly/config"
	"crewly/models"
	"crewly/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitEventWorker runs the async booking event worker in background.
func InitEventWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeBookingEvent, handleBookingEvent)

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[EventWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EventWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EventWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleBookingEvent(ctx context.Context, task *asynq.Task) error {
	var event models.BookingEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		log.Printf("[EventWorker] invalid payload: %v", err)
		return err
	}

	switch event.Kind {
	case models.EventBookingConfirmed, models.EventBookingCancelled, models.EventBookingCompleted:
		if err := notification.SendBookingPush(ctx, event); err != nil {
			log.Printf("[EventWorker] failed to push %s for booking %s: %v", event.Kind, event.BookingID, err)
			return err
		}
	case models.EventReceiptRequested:
		// Receipt rendering lives in the billing system; hand-off is the log
		// record until that consumer subscribes to the queue directly.
		log.Printf("[EventWorker] receipt requested for booking %s (customer %s)", event.BookingID, event.CustomerID)
	default:
		log.Printf("[EventWorker] unknown event kind: %s", event.Kind)
	}
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[EventWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
