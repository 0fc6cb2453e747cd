package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/internal/queue"
	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

// UpdateAgentHandler merges the given fields into an agent. The id never
// changes and text fields, when present, must not be empty.
func UpdateAgentHandler(c echo.Context) error {
	type updateAgentData struct {
		ID                             int64      `param:"id" json:"-" validate:"required,min=1"`
		AgentName                      *string    `json:"agent_name" validate:"omitempty,min=1"`
		QuestionClass                  *flow.Tree `json:"question_class"`
		QuestionClassSystemPrompt      *string    `json:"question_class_system_prompt" validate:"omitempty,min=1"`
		FinalResponseSystemPrompt      *string    `json:"final_response_system_prompt" validate:"omitempty,min=1"`
		SuggestedQuestionsSystemPrompt *string    `json:"suggested_questions_system_prompt" validate:"omitempty,min=1"`
	}

	data := new(updateAgentData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	patch := store.AgentPatch{
		AgentName:                      data.AgentName,
		QuestionClassSystemPrompt:      data.QuestionClassSystemPrompt,
		FinalResponseSystemPrompt:      data.FinalResponseSystemPrompt,
		SuggestedQuestionsSystemPrompt: data.SuggestedQuestionsSystemPrompt,
	}
	if data.QuestionClass != nil {
		patch.QuestionClass = flow.Canonicalize(data.QuestionClass)
	}

	ctx := c.Request().Context()
	a := app(c)
	agent, err := a.Store.UpdateAgent(ctx, data.ID, patch)
	if err != nil {
		return fail(c, err)
	}
	publish(ctx, a, queue.AgentUpdated(agent))

	return c.JSON(http.StatusOK, agent)
}
