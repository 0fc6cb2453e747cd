package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewBody struct {
	ID       string  `json:"id"`
	AgentID  *int64  `json:"agent_id"`
	Revision int     `json:"revision"`
	Selected *string `json:"selected"`
	ReadOnly bool    `json:"read_only"`
	Nodes    []struct {
		ID    string `json:"id"`
		Kind  string `json:"kind"`
		Label string `json:"label"`
	} `json:"nodes"`
	Edges        []flow.Edge     `json:"edges"`
	Tree         json.RawMessage `json:"tree"`
	UnknownTools []string        `json:"unknown_tools"`
}

func TestEditorSessionBuildsAndAppliesTree(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/editor", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode[viewBody](t, rec)
	require.Len(t, v.Nodes, 1)
	assert.Nil(t, v.AgentID)
	assert.JSONEq(t, `{}`, string(v.Tree))
	base := "/api/editor/" + v.ID

	rec = ts.do(t, http.MethodPost, base+"/classes", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	class := *decode[viewBody](t, rec).Selected

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPatch, base+"/nodes/"+class, `{"name":"  "}`).Code)
	rec = ts.do(t, http.MethodPatch, base+"/nodes/"+class, `{"name":"Speed Analysis","description":"Kecepatan.","x":320}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, base+"/tools", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	tool := *decode[viewBody](t, rec).Selected

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPatch, base+"/nodes/"+tool, `{"tool_key":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPatch, base+"/nodes/"+tool, `{"name":"x"}`).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPatch, base+"/nodes/"+tool, `{"tool_key":"ds_speed_analysis"}`).Code)

	edge := func(src, tgt string) string { return fmt.Sprintf(`{"source":%q,"target":%q}`, src, tgt) }
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, base+"/edges", edge(flow.StartID, class)).Code)
	rec = ts.do(t, http.MethodPost, base+"/edges", edge(class, tool))
	require.Equal(t, http.StatusCreated, rec.Code)
	v = decode[viewBody](t, rec)
	assert.JSONEq(t,
		`{"speed_analysis":{"name":"Speed Analysis","description":"Kecepatan.","instructions":"","tools":"ds_speed_analysis"}}`,
		string(v.Tree))

	rec = ts.do(t, http.MethodPost, base+"/edges", edge(tool, class))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, flow.ReasonToolSource, decode[map[string]string](t, rec)["reason"])

	rec = ts.do(t, http.MethodPost, base+"/select", `{"node_id":"start"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[viewBody](t, rec).ReadOnly)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPatch, base+"/nodes/start", `{"x":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodDelete, base+"/nodes/start", "").Code)

	rec = ts.do(t, http.MethodPost, base+"/select", `{"node_id":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[viewBody](t, rec).Selected)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, base+"/select", `{"node_id":"ghost"}`).Code)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, base+"/apply", `{}`).Code)
	rec = ts.do(t, http.MethodPost, base+"/apply", `{
		"agent_name": "Speedy",
		"question_class_system_prompt": "a",
		"final_response_system_prompt": "b",
		"suggested_questions_system_prompt": "c"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	agent := decode[store.Agent](t, rec)
	assert.Equal(t, int64(2), agent.ID)
	assert.Equal(t, []string{"speed_analysis"}, agent.QuestionClass.Keys())

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, base+"/edges", edge(class, tool)).Code)
	rec = ts.do(t, http.MethodPost, base+"/apply", `{}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	agent = decode[store.Agent](t, rec)
	assert.Equal(t, int64(2), agent.ID)
	tree, _ := json.Marshal(agent.QuestionClass)
	assert.Contains(t, string(tree), `"tools":"no_tool"`)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, base, "").Code)
}

func TestEditorSessionOnExistingAgent(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/editor", `{"agent_id":42}`).Code)

	rec := ts.do(t, http.MethodPost, "/api/editor", `{"agent_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode[viewBody](t, rec)
	require.NotNil(t, v.AgentID)
	assert.Equal(t, int64(1), *v.AgentID)
	assert.Empty(t, v.UnknownTools)

	seeded, err := ts.app.Store.GetAgent(t.Context(), 1)
	require.NoError(t, err)
	want, _ := json.Marshal(seeded.QuestionClass)
	assert.JSONEq(t, string(want), string(v.Tree))

	base := "/api/editor/" + v.ID
	rec = ts.do(t, http.MethodPost, base+"/import", `{"agent_name": "ORIN AI", "question_class": {"x": {"name": "X", "tools": "legacy",}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v = decode[viewBody](t, rec)
	assert.Equal(t, []string{"legacy"}, v.UnknownTools)
	assert.Nil(t, v.Selected)

	rec = ts.do(t, http.MethodPost, base+"/apply", `{"agent_name":"ORIN AI v2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	agent := decode[store.Agent](t, rec)
	assert.Equal(t, "ORIN AI v2", agent.AgentName)
	assert.Equal(t, []string{"x"}, agent.QuestionClass.Keys())
	assert.Equal(t, seeded.QuestionClassSystemPrompt, agent.QuestionClassSystemPrompt)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/editor/nosuchsession", "").Code)
}

func TestEditorImportKeepsTreeWithQuestionClassKey(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/editor", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/api/editor/" + decode[viewBody](t, rec).ID

	tree := `{
		"question_class": {"name": "Question Class", "description": "", "instructions": "", "tools": "no_tool"},
		"speed": {"name": "Speed", "description": "", "instructions": "", "tools": "ds_speed_analysis"}
	}`
	rec = ts.do(t, http.MethodPost, base+"/import", tree)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, tree, string(decode[viewBody](t, rec).Tree))
}
