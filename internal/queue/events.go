package queue

import (
	"github.com/orin-ai/agentdash/internal/store"
)

// NotificationQueue carries dummy alert notifications to the worker.
const NotificationQueue = "notification_queue"

// Topics published on Exchange.
const (
	TopicAgentUpdated = "agent.updated"
	TopicAgentDeleted = "agent.deleted"
)

// AgentEvent announces a change to an agent. Agent is nil for deletions.
type AgentEvent struct {
	Topic   string       `json:"-"`
	AgentID int64        `json:"agent_id"`
	Agent   *store.Agent `json:"agent,omitempty"`
}

func AgentUpdated(a *store.Agent) AgentEvent {
	return AgentEvent{Topic: TopicAgentUpdated, AgentID: a.ID, Agent: a}
}

func AgentDeleted(id int64) AgentEvent {
	return AgentEvent{Topic: TopicAgentDeleted, AgentID: id}
}

// Notification asks the worker to push an alert to a WhatsApp contact.
type Notification struct {
	To        string `json:"to" validate:"required"`
	AlertType string `json:"alert_type" validate:"required"`
}
