package routes

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/orin-ai/agentdash/internal/queue"
	"github.com/orin-ai/agentdash/pkg/flow"
	"github.com/orin-ai/agentdash/pkg/logger"

	"github.com/labstack/echo/v4"
)

const maxImportSize = 4 << 20

// ImportAgentHandler creates an agent from a pasted document. The body may
// be slightly broken JSON (trailing commas, single quotes, missing braces)
// and may be either a bare agent or an export document.
func ImportAgentHandler(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportSize))
	if err != nil {
		return invalidParams(c)
	}

	repaired, err := flow.RepairJSON(raw)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if repaired != string(raw) {
		logger.Debug("Repaired imported agent document", "before", len(raw), "after", len(repaired))
	}
	doc := flow.UnwrapAgent(repaired)

	data := new(agentBody)
	if err := json.Unmarshal([]byte(doc), data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	ctx := c.Request().Context()
	a := app(c)
	agent, err := a.Store.CreateAgent(ctx, data.agent())
	if err != nil {
		return fail(c, err)
	}
	publish(ctx, a, queue.AgentUpdated(agent))

	return c.JSON(http.StatusCreated, agent)
}
