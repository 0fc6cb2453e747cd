package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orin-ai/agentdash/internal/queue"
	"github.com/orin-ai/agentdash/internal/store/pgstore"
	"github.com/orin-ai/agentdash/internal/util"
	"github.com/orin-ai/agentdash/pkg/logger"
	"github.com/orin-ai/agentdash/pkg/logger/console"

	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		JSON:   util.GetEnvString("LOG_FORMAT", "text") == "json",
		Prefix: "worker",
	})
	logger.Init(consoleLogger)

	// Notifications land in the chat history, so the worker needs the real
	// database.
	databaseURL := util.GetEnv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	st, err := pgstore.Open(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer st.Close()

	// Init rabbitmq
	conn, err := queue.Dial(ctx, queue.ConfigFromEnv())
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	queues := []string{queue.NotificationQueue}
	if err := queue.SetupQueues(ch, queues); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	// One message at a time: notifications for the same contact must be
	// appended in order.
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := ch.Consume(
		queue.NotificationQueue,
		fmt.Sprintf("%s_consumer", queue.NotificationQueue),
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.NotificationQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.NotificationQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn("Message channel closed", "queue", queue.NotificationQueue)
				return
			}
			start := time.Now()
			if err := queue.ProcessNotificationMessage(ctx, st, string(msg.Body)); err != nil {
				logger.Error("Error processing message", "queue", queue.NotificationQueue, "err", err)
				handleProcessingError(ctx, ch, msg, queue.NotificationQueue)
				continue
			}
			if err := msg.Ack(false); err != nil {
				logger.Error("Failed to ack message", "err", err)
			}
			logger.Info("Message processed", "queue", queue.NotificationQueue, "duration", time.Since(start))
		}
	}
}

// handleProcessingError moves a failed message to the retry queue, or to the
// dead-letter queue once it has been retried MaxRetries times.
func handleProcessingError(ctx context.Context, ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := queue.Retries(msg.Headers)

	target := queueName + "_retry"
	if retries >= queue.MaxRetries {
		target = queueName + "_dlq"
		logger.Warn("Max retries reached, sending to dead-letter queue", "queue", queueName, "retries", retries)
	}

	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = int32(retries + 1)

	pubErr := ch.PublishWithContext(
		ctx,
		"",
		target,
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			Body:         msg.Body,
			Headers:      headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to republish message", "target", target, "err", pubErr)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
