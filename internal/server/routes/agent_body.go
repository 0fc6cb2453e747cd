package routes

import (
	"context"

	"github.com/orin-ai/agentdash/internal/queue"
	"github.com/orin-ai/agentdash/internal/server/middleware"
	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/pkg/flow"
	"github.com/orin-ai/agentdash/pkg/logger"
)

// agentBody is the JSON shape accepted by create, import and apply.
type agentBody struct {
	AgentName                      string     `json:"agent_name" validate:"required"`
	QuestionClass                  *flow.Tree `json:"question_class"`
	QuestionClassSystemPrompt      string     `json:"question_class_system_prompt" validate:"required"`
	FinalResponseSystemPrompt      string     `json:"final_response_system_prompt" validate:"required"`
	SuggestedQuestionsSystemPrompt string     `json:"suggested_questions_system_prompt" validate:"required"`
}

func (b *agentBody) agent() *store.Agent {
	return &store.Agent{
		AgentName:                      b.AgentName,
		QuestionClass:                  flow.Canonicalize(b.QuestionClass),
		QuestionClassSystemPrompt:      b.QuestionClassSystemPrompt,
		FinalResponseSystemPrompt:      b.FinalResponseSystemPrompt,
		SuggestedQuestionsSystemPrompt: b.SuggestedQuestionsSystemPrompt,
	}
}

// publish sends an agent event. The store write already happened, so a
// broker failure is logged and not reported to the client.
func publish(ctx context.Context, a *middleware.App, ev queue.AgentEvent) {
	if err := a.Events.PublishAgentEvent(ctx, ev); err != nil {
		logger.WithPrefix("queue").Error("Failed to publish agent event", "topic", ev.Topic, "agent_id", ev.AgentID, "err", err)
	}
}
