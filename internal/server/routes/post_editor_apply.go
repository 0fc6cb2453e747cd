package routes

import (
	"errors"
	"net/http"

	"github.com/orin-ai/agentdash/internal/queue"
	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

// ApplyEditorHandler saves the session tree. A session opened on an agent
// updates it; a blank session creates a new agent from the supplied name
// and prompts and stays bound to it afterwards.
func ApplyEditorHandler(c echo.Context) error {
	type applyEditorData struct {
		AgentName                      *string `json:"agent_name" validate:"omitempty,min=1"`
		QuestionClassSystemPrompt      *string `json:"question_class_system_prompt" validate:"omitempty,min=1"`
		FinalResponseSystemPrompt      *string `json:"final_response_system_prompt" validate:"omitempty,min=1"`
		SuggestedQuestionsSystemPrompt *string `json:"suggested_questions_system_prompt" validate:"omitempty,min=1"`
	}

	data := new(applyEditorData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}

	ctx := c.Request().Context()
	a := app(c)
	status := http.StatusOK
	var saved *store.Agent

	err = s.Commit(func(tree *flow.Tree, agentID int64) (int64, error) {
		if agentID != 0 {
			agent, err := a.Store.UpdateAgent(ctx, agentID, store.AgentPatch{
				AgentName:                      data.AgentName,
				QuestionClass:                  tree,
				QuestionClassSystemPrompt:      data.QuestionClassSystemPrompt,
				FinalResponseSystemPrompt:      data.FinalResponseSystemPrompt,
				SuggestedQuestionsSystemPrompt: data.SuggestedQuestionsSystemPrompt,
			})
			if err != nil {
				return 0, err
			}
			saved = agent
			return agent.ID, nil
		}

		if data.AgentName == nil || data.QuestionClassSystemPrompt == nil ||
			data.FinalResponseSystemPrompt == nil || data.SuggestedQuestionsSystemPrompt == nil {
			return 0, errNewAgentFields
		}
		agent, err := a.Store.CreateAgent(ctx, &store.Agent{
			AgentName:                      *data.AgentName,
			QuestionClass:                  tree,
			QuestionClassSystemPrompt:      *data.QuestionClassSystemPrompt,
			FinalResponseSystemPrompt:      *data.FinalResponseSystemPrompt,
			SuggestedQuestionsSystemPrompt: *data.SuggestedQuestionsSystemPrompt,
		})
		if err != nil {
			return 0, err
		}
		saved = agent
		status = http.StatusCreated
		return agent.ID, nil
	})
	if errors.Is(err, errNewAgentFields) {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return fail(c, err)
	}

	publish(ctx, a, queue.AgentUpdated(saved))
	return c.JSON(status, saved)
}
