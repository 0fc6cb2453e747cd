// Package store persists agents, notification settings and the WhatsApp
// demo data behind one interface with an in-memory and a Postgres backend.
package store

import (
	"context"
	"errors"

	"github.com/orin-ai/agentdash/pkg/flow"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Agent is a configured assistant. QuestionClass is always stored in its
// canonical serialized form.
type Agent struct {
	ID                             int64      `json:"id"`
	AgentName                      string     `json:"agent_name"`
	QuestionClass                  *flow.Tree `json:"question_class"`
	QuestionClassSystemPrompt      string     `json:"question_class_system_prompt"`
	FinalResponseSystemPrompt      string     `json:"final_response_system_prompt"`
	SuggestedQuestionsSystemPrompt string     `json:"suggested_questions_system_prompt"`
}

// Clone returns a copy that shares nothing with a.
func (a *Agent) Clone() *Agent {
	cp := *a
	cp.QuestionClass = a.QuestionClass.Clone()
	return &cp
}

type AgentSummary struct {
	ID        int64  `json:"id"`
	AgentName string `json:"agent_name"`
}

// AgentPatch is a partial update. Nil fields are kept.
type AgentPatch struct {
	AgentName                      *string
	QuestionClass                  *flow.Tree
	QuestionClassSystemPrompt      *string
	FinalResponseSystemPrompt      *string
	SuggestedQuestionsSystemPrompt *string
}

// Apply merges p into a.
func (p AgentPatch) Apply(a *Agent) {
	if p.AgentName != nil {
		a.AgentName = *p.AgentName
	}
	if p.QuestionClass != nil {
		a.QuestionClass = p.QuestionClass.Clone()
	}
	if p.QuestionClassSystemPrompt != nil {
		a.QuestionClassSystemPrompt = *p.QuestionClassSystemPrompt
	}
	if p.FinalResponseSystemPrompt != nil {
		a.FinalResponseSystemPrompt = *p.FinalResponseSystemPrompt
	}
	if p.SuggestedQuestionsSystemPrompt != nil {
		a.SuggestedQuestionsSystemPrompt = *p.SuggestedQuestionsSystemPrompt
	}
}

// Setting is a notification setting row.
type Setting struct {
	ID      int64  `json:"id"`
	Setting string `json:"setting"`
	Value   string `json:"value"`
}

// WhatsappNumber is a bot number and the agent answering on it.
type WhatsappNumber struct {
	PhoneNumber string  `json:"phoneNumber"`
	AgentID     *int64  `json:"agentId"`
	AgentName   *string `json:"agentName"`
}

type Contact struct {
	PhoneNumber string `json:"phone_number"`
}

// Message is one chat history entry. Timestamp is in unix seconds.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type Profile struct {
	ProfileImage string `json:"profile_image"`
	ContactName  string `json:"contact_name"`
	Description  string `json:"description"`
}

type AgentStore interface {
	ListAgents(ctx context.Context) ([]AgentSummary, error)
	GetAgent(ctx context.Context, id int64) (*Agent, error)
	CreateAgent(ctx context.Context, a *Agent) (*Agent, error)
	UpdateAgent(ctx context.Context, id int64, patch AgentPatch) (*Agent, error)
	DeleteAgent(ctx context.Context, id int64) error
}

type SettingStore interface {
	ListSettings(ctx context.Context) ([]Setting, error)
	GetSetting(ctx context.Context, name string) (*Setting, error)
	CreateSetting(ctx context.Context, name, value string) (*Setting, error)
	UpdateSetting(ctx context.Context, name, value string) (*Setting, error)
	DeleteSetting(ctx context.Context, name string) error
}

type WhatsappStore interface {
	ListNumbers(ctx context.Context) ([]WhatsappNumber, error)
	AssignAgent(ctx context.Context, phone string, agentID *int64) (*WhatsappNumber, error)
	ListContacts(ctx context.Context) ([]Contact, error)
	ChatHistory(ctx context.Context, phone string) ([]Message, error)
	AppendMessage(ctx context.Context, phone string, m Message) error
	Profile(ctx context.Context, phone string) (*Profile, error)
}

type Store interface {
	AgentStore
	SettingStore
	WhatsappStore
	Close()
}
