package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/orin-ai/agentdash/internal/util"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher hands agent events and notifications to the broker.
type Publisher interface {
	PublishAgentEvent(ctx context.Context, ev AgentEvent) error
	PublishNotification(ctx context.Context, n Notification) error
}

const publishTries = 3

// AMQPPublisher publishes over one channel. amqp091 channels are not safe
// for concurrent publishing, so calls are serialised.
type AMQPPublisher struct {
	mu sync.Mutex
	ch *amqp091.Channel
}

// NewAMQPPublisher opens a channel on conn and declares the topology.
func NewAMQPPublisher(conn *amqp091.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := SetupQueues(ch, []string{NotificationQueue}); err != nil {
		ch.Close()
		return nil, err
	}
	return &AMQPPublisher{ch: ch}, nil
}

func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

func (p *AMQPPublisher) PublishAgentEvent(ctx context.Context, ev AgentEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.publish(ctx, func(ctx context.Context) error {
		return PublishTopic(ctx, p.ch, ev.Topic, data)
	})
}

func (p *AMQPPublisher) PublishNotification(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.publish(ctx, func(ctx context.Context) error {
		return PublishFIFO(ctx, p.ch, NotificationQueue, data)
	})
}

func (p *AMQPPublisher) publish(ctx context.Context, fn func(context.Context) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := util.RetryErrWithContext(ctx, publishTries, fn)
	if err != nil {
		log.Error("Publish failed", "err", err)
	}
	return err
}

// Discard drops everything. It is used when no broker is configured.
type Discard struct{}

func (Discard) PublishAgentEvent(_ context.Context, ev AgentEvent) error {
	log.Debug("No broker, dropping agent event", "topic", ev.Topic, "agent_id", ev.AgentID)
	return nil
}

func (Discard) PublishNotification(_ context.Context, n Notification) error {
	log.Debug("No broker, dropping notification", "to", n.To, "alert_type", n.AlertType)
	return nil
}

// Recorder keeps published messages in memory.
type Recorder struct {
	mu            sync.Mutex
	Events        []AgentEvent
	Notifications []Notification
}

func (r *Recorder) PublishAgentEvent(_ context.Context, ev AgentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
	return nil
}

func (r *Recorder) PublishNotification(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = append(r.Notifications, n)
	return nil
}

var (
	_ Publisher = (*AMQPPublisher)(nil)
	_ Publisher = Discard{}
	_ Publisher = (*Recorder)(nil)
)
