package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/orin-ai/agentdash/internal/util"
	"github.com/orin-ai/agentdash/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

var log = logger.WithPrefix("queue")

// Exchange is the topic exchange agent events are published on.
const Exchange = "agentdash_events"

const (
	// MaxRetries is how often a message goes through the retry queue before
	// it is parked in the dead-letter queue.
	MaxRetries = 10
	retryTTL   = 10 * time.Second
)

type Config struct {
	User     string
	Password string
	Host     string
	Port     string
}

// ConfigFromEnv reads the RABBITMQ_* variables. An empty Host means no
// queue is configured.
func ConfigFromEnv() Config {
	return Config{
		User:     util.GetEnv("RABBITMQ_USER"),
		Password: util.GetEnv("RABBITMQ_PASSWORD"),
		Host:     util.GetEnv("RABBITMQ_HOST"),
		Port:     util.GetEnvString("RABBITMQ_PORT", "5672"),
	}
}

func (c Config) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Password, c.Host, c.Port)
}

// Dial connects to the broker, retrying with backoff while it comes up.
func Dial(ctx context.Context, cfg Config) (*amqp091.Connection, error) {
	conn, err := util.RetryWithBackoff(ctx, 5, time.Second, func(context.Context) (*amqp091.Connection, error) {
		conn, err := amqp091.Dial(cfg.URL())
		if err != nil {
			log.Warn("Broker not reachable", "host", cfg.Host, "err", err)
		}
		return conn, err
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return conn, nil
}

// SetupQueues declares the event exchange and, for every name, a durable
// work queue plus its _dlq and _retry companions. The retry queue
// dead-letters back into the work queue after retryTTL.
func SetupQueues(ch *amqp091.Channel, queueNames []string) error {
	if err := declareExchange(ch); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, name := range queueNames {
		decls := []struct {
			name string
			args amqp091.Table
		}{
			{name, nil},
			{name + "_dlq", nil},
			{name + "_retry", amqp091.Table{
				"x-message-ttl":             int32(retryTTL / time.Millisecond),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			}},
		}
		for _, d := range decls {
			_, err := ch.QueueDeclare(
				d.name,
				true,  // durable
				false, // autoDelete
				false, // exclusive
				false, // noWait
				d.args,
			)
			if err != nil {
				return fmt.Errorf("declare queue %s: %w", d.name, err)
			}
		}
	}

	return nil
}

func declareExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		Exchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}

func PublishFIFO(ctx context.Context, ch *amqp091.Channel, queueName string, data []byte) error {
	return ch.PublishWithContext(
		ctx,
		"",
		queueName,
		false,
		false,
		publishing(data),
	)
}

func PublishTopic(ctx context.Context, ch *amqp091.Channel, topic string, data []byte) error {
	return ch.PublishWithContext(
		ctx,
		Exchange,
		topic,
		false,
		false,
		publishing(data),
	)
}

func publishing(data []byte) amqp091.Publishing {
	return amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}
}

// Retries reads the x-retries header written by the worker.
func Retries(headers amqp091.Table) int {
	switch v := headers["x-retries"].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}
