package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/orin-ai/agentdash/internal/storage"
	"github.com/orin-ai/agentdash/internal/store"

	"github.com/labstack/echo/v4"
)

type exportDocument struct {
	ExportedAt time.Time    `json:"exported_at"`
	Agent      *store.Agent `json:"agent"`
}

type snapshotRef struct {
	Key         string `json:"key"`
	DownloadURL string `json:"download_url"`
}

// ExportAgentHandler returns an agent as an export document. With snapshot
// storage configured the document is also stored and a download link is
// attached.
func ExportAgentHandler(c echo.Context) error {
	type exportAgentData struct {
		ID int64 `param:"id" json:"-" validate:"required,min=1"`
	}

	type exportAgentResponse struct {
		exportDocument
		Snapshot *snapshotRef `json:"snapshot,omitempty"`
	}

	data := new(exportAgentData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	ctx := c.Request().Context()
	a := app(c)
	agent, err := a.Store.GetAgent(ctx, data.ID)
	if err != nil {
		return fail(c, err)
	}

	now := time.Now().UTC()
	res := exportAgentResponse{exportDocument: exportDocument{ExportedAt: now, Agent: agent}}
	if a.Snapshots == nil {
		return c.JSON(http.StatusOK, res)
	}

	body, err := json.Marshal(res.exportDocument)
	if err != nil {
		return fail(c, err)
	}
	key := storage.SnapshotKey(agent.ID, now)
	if err := a.Snapshots.PutSnapshot(ctx, key, body); err != nil {
		return fail(c, err)
	}
	link, err := a.Snapshots.DownloadLink(ctx, key, storage.LinkExpiry)
	if err != nil {
		return fail(c, err)
	}
	res.Snapshot = &snapshotRef{Key: key, DownloadURL: link}

	return c.JSON(http.StatusOK, res)
}

// ListSnapshotsHandler lists stored exports of an agent, oldest first.
func ListSnapshotsHandler(c echo.Context) error {
	type listSnapshotsData struct {
		ID int64 `param:"id" json:"-" validate:"required,min=1"`
	}

	data := new(listSnapshotsData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	a := app(c)
	if a.Snapshots == nil {
		return c.JSON(http.StatusOK, []string{})
	}
	keys, err := a.Snapshots.List(c.Request().Context(), storage.SnapshotPrefix(data.ID))
	if err != nil {
		return fail(c, err)
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(http.StatusOK, keys)
}
