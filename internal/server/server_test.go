package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/orin-ai/agentdash/internal/editor"
	"github.com/orin-ai/agentdash/internal/queue"
	mid "github.com/orin-ai/agentdash/internal/server/middleware"
	"github.com/orin-ai/agentdash/internal/storage"
	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	e         *echo.Echo
	app       *mid.App
	events    *queue.Recorder
	snapshots *storage.Memory
	token     string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := store.NewSeededMemory()
	require.NoError(t, err)

	ts := &testServer{events: &queue.Recorder{}, snapshots: storage.NewMemory()}
	ts.app = &mid.App{
		Store:     st,
		Events:    ts.events,
		Snapshots: ts.snapshots,
		Sessions:  editor.NewRegistry(time.Hour),
		Tools:     editor.StaticCatalog(flow.DefaultCatalog()),
		Auth:      mid.Auth{Secret: []byte("test"), Username: "user", Password: "pass"},
	}
	ts.e = New(ts.app)

	token, err := mid.IssueToken(ts.app.Auth.Secret, "user", time.Now())
	require.NoError(t, err)
	ts.token = token
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if ts.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+ts.token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantCookie bool
	}{
		{"Valid", `{"username":"user","password":"pass"}`, http.StatusOK, true},
		{"WrongPassword", `{"username":"user","password":"nope"}`, http.StatusUnauthorized, false},
		{"Missing", `{}`, http.StatusBadRequest, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.token = ""
			rec := ts.do(t, http.MethodPost, "/login", tc.body)
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())

			var session *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == mid.SessionCookie {
					session = c
				}
			}
			assert.Equal(t, tc.wantCookie, session != nil)
			if tc.wantCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
			}
			if session == nil {
				return
			}

			req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
			req.AddCookie(session)
			authed := httptest.NewRecorder()
			ts.e.ServeHTTP(authed, req)
			assert.Equal(t, http.StatusOK, authed.Code)
		})
	}
}

func TestAPIRequiresAuth(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", "").Code)
	for _, path := range []string{"/api/agents", "/api/tools", "/api/notification_setting", "/api/whatsapp/numbers"} {
		assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, path, "").Code, path)
	}
}

const newAgentBody = `{
	"agent_name": "Fleet Helper",
	"question_class": {"Speed": {"name": "Speed", "tools": "ds_speed_analysis"}},
	"question_class_system_prompt": "classify",
	"final_response_system_prompt": "answer",
	"suggested_questions_system_prompt": "suggest"
}`

func TestAgentLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/agents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"agent_name":"ORIN AI"}]`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/agents", newAgentBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[store.Agent](t, rec)
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, []string{"speed"}, created.QuestionClass.Keys())

	rec = ts.do(t, http.MethodPut, "/api/agents/2", `{"id": 99, "agent_name": "Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[store.Agent](t, rec)
	assert.Equal(t, int64(2), updated.ID)
	assert.Equal(t, "Renamed", updated.AgentName)
	assert.Equal(t, "classify", updated.QuestionClassSystemPrompt)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPut, "/api/agents/2", `{"agent_name": ""}`).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPut, "/api/agents/9", `{"agent_name": "x"}`).Code)

	rec = ts.do(t, http.MethodDelete, "/api/agents/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/agents/2", "").Code)

	require.Len(t, ts.events.Events, 3)
	assert.Equal(t, queue.TopicAgentUpdated, ts.events.Events[0].Topic)
	assert.Equal(t, queue.TopicAgentUpdated, ts.events.Events[1].Topic)
	assert.Equal(t, queue.TopicAgentDeleted, ts.events.Events[2].Topic)
}

func TestCreateAgentValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"MissingName", `{"question_class_system_prompt":"a","final_response_system_prompt":"b","suggested_questions_system_prompt":"c"}`},
		{"EmptyPrompt", `{"agent_name":"x","question_class_system_prompt":"","final_response_system_prompt":"b","suggested_questions_system_prompt":"c"}`},
		{"NotJSON", `agent`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do(t, http.MethodPost, "/api/agents", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, ts.events.Events)
		})
	}
}

func TestImportRepairsAndCanonicalises(t *testing.T) {
	ts := newTestServer(t)

	broken := `{
		"agent": {
			"agent_name": "Imported",
			"question_class": {"Fuel": {"name": "Fuel Estimation", "tools": "ds_fuel_estimation",},},
			"question_class_system_prompt": "a",
			"final_response_system_prompt": "b",
			"suggested_questions_system_prompt": "c",
		}
	}`
	rec := ts.do(t, http.MethodPost, "/api/agents/import", broken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	agent := decode[store.Agent](t, rec)
	assert.Equal(t, "Imported", agent.AgentName)
	tree, err := json.Marshal(agent.QuestionClass)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"fuel_estimation":{"name":"Fuel Estimation","description":"","instructions":"","tools":"ds_fuel_estimation"}}`,
		string(tree))
}

func TestExportStoresSnapshot(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/agents/1/export", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	type exported struct {
		Agent    store.Agent `json:"agent"`
		Snapshot struct {
			Key         string `json:"key"`
			DownloadURL string `json:"download_url"`
		} `json:"snapshot"`
	}
	doc := decode[exported](t, rec)
	assert.Equal(t, "ORIN AI", doc.Agent.AgentName)
	assert.True(t, strings.HasPrefix(doc.Snapshot.Key, "agents/1/"), doc.Snapshot.Key)
	assert.Equal(t, "memory://"+doc.Snapshot.Key, doc.Snapshot.DownloadURL)

	stored, ok := ts.snapshots.Get(doc.Snapshot.Key)
	require.True(t, ok)
	assert.Contains(t, string(stored), `"agent_name":"ORIN AI"`)
	assert.NotContains(t, string(stored), `"snapshot"`)

	rec = ts.do(t, http.MethodGet, "/api/agents/1/snapshots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{doc.Snapshot.Key}, decode[[]string](t, rec))

	ts.app.Snapshots = nil
	rec = ts.do(t, http.MethodGet, "/api/agents/1/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"snapshot"`)
}

func TestToolsAndSchema(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tools := decode[map[string]any](t, rec)
	assert.Len(t, tools, 9)
	assert.Contains(t, tools, flow.NoTool)

	rec = ts.do(t, http.MethodGet, "/api/schema/question-class", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"$ref":"#/$defs/Tree"`)
}

func TestNotificationSettings(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/notification_setting", `{"setting":"geofence","value":"Left the zone"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[store.Setting](t, rec)
	assert.Equal(t, "prompt_geofence", created.Setting)

	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/api/notification_setting", `{"setting":"prompt_geofence","value":"x"}`).Code)

	rec = ts.do(t, http.MethodPut, "/api/notification_setting/prompt_geofence", `{"value":"Outside geofence"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Outside geofence", decode[store.Setting](t, rec).Value)

	rec = ts.do(t, http.MethodGet, "/api/notification_setting", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.Setting](t, rec), 3)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodDelete, "/api/notification_setting/prompt_geofence", "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, "/api/notification_setting/prompt_geofence", "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPut, "/api/notification_setting/missing", `{"value":"x"}`).Code)
}

func TestWhatsapp(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/whatsapp/numbers/6281100000002", `{"agent_id":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"phoneNumber":"6281100000002","agentId":1,"agentName":"ORIN AI"}`, rec.Body.String())

	rec = ts.do(t, http.MethodPut, "/api/whatsapp/numbers/6281100000002", `{"agent_id":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"phoneNumber":"6281100000002","agentId":null,"agentName":null}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPut, "/api/whatsapp/numbers/6281100000002", `{"agent_id":42}`).Code)

	rec = ts.do(t, http.MethodGet, "/api/whatsapp/contacts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.Contact](t, rec), 2)

	rec = ts.do(t, http.MethodGet, "/api/whatsapp/chat/unknown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/whatsapp/profile/unknown", "").Code)
	rec = ts.do(t, http.MethodGet, "/api/whatsapp/profile/6281211110001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Budi", decode[store.Profile](t, rec).ContactName)
}

func TestDummyNotification(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"Allowed", `{"to":"6281211110001","alert_type":"overspeed"}`, http.StatusAccepted},
		{"NotAllowed", `{"to":"6281211110001","alert_type":"fire"}`, http.StatusBadRequest},
		{"MissingTo", `{"alert_type":"overspeed"}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec := ts.do(t, http.MethodPost, "/api/whatsapp/dummy_notification", tc.body)
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
			if tc.wantCode == http.StatusAccepted {
				require.Len(t, ts.events.Notifications, 1)
				assert.Equal(t, "overspeed", ts.events.Notifications[0].AlertType)
			} else {
				assert.Empty(t, ts.events.Notifications)
			}
		})
	}
}
