package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/orin-ai/agentdash/pkg/flow"
)

// Memory is a Store kept in process memory. It is safe for concurrent use.
type Memory struct {
	mu sync.RWMutex

	agents      []*Agent
	nextAgentID int64

	settings      []Setting
	nextSettingID int64

	numbers  []WhatsappNumber
	contacts []string
	chats    map[string][]Message
	profiles map[string]Profile
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		nextAgentID:   1,
		nextSettingID: 1,
		chats:         make(map[string][]Message),
		profiles:      make(map[string]Profile),
	}
}

// NewSeededMemory returns a store holding the embedded seed.
func NewSeededMemory() (*Memory, error) {
	seed, err := LoadSeed()
	if err != nil {
		return nil, err
	}
	m := NewMemory()
	m.load(seed)
	return m, nil
}

func (m *Memory) load(s *Seed) {
	for _, a := range s.Agents {
		m.agents = append(m.agents, a.Clone())
		m.nextAgentID = max(m.nextAgentID, a.ID+1)
	}
	for _, st := range s.Settings {
		m.settings = append(m.settings, Setting{ID: m.nextSettingID, Setting: st.Setting, Value: st.Value})
		m.nextSettingID++
	}
	for _, n := range s.Numbers {
		m.numbers = append(m.numbers, WhatsappNumber{PhoneNumber: n.PhoneNumber, AgentID: n.AgentID})
	}
	m.contacts = slices.Clone(s.Contacts)
	for phone, msgs := range s.Chats {
		m.chats[phone] = slices.Clone(msgs)
	}
	for phone, p := range s.Profiles {
		m.profiles[phone] = p
	}
}

func (m *Memory) Close() {}

func (m *Memory) agentIndex(id int64) int {
	return slices.IndexFunc(m.agents, func(a *Agent) bool { return a.ID == id })
}

func (m *Memory) ListAgents(_ context.Context) ([]AgentSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]AgentSummary, len(m.agents))
	for i, a := range m.agents {
		out[i] = AgentSummary{ID: a.ID, AgentName: a.AgentName}
	}
	return out, nil
}

func (m *Memory) GetAgent(_ context.Context, id int64) (*Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.agentIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("agent %d: %w", id, ErrNotFound)
	}
	return m.agents[i].Clone(), nil
}

// CreateAgent assigns the next id and ignores a.ID.
func (m *Memory) CreateAgent(_ context.Context, a *Agent) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := a.Clone()
	cp.ID = m.nextAgentID
	if cp.QuestionClass == nil {
		cp.QuestionClass = flow.NewTree()
	}
	m.nextAgentID++
	m.agents = append(m.agents, cp)
	return cp.Clone(), nil
}

func (m *Memory) UpdateAgent(_ context.Context, id int64, patch AgentPatch) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.agentIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("agent %d: %w", id, ErrNotFound)
	}
	patch.Apply(m.agents[i])
	return m.agents[i].Clone(), nil
}

// DeleteAgent also unassigns the agent from every number.
func (m *Memory) DeleteAgent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.agentIndex(id)
	if i < 0 {
		return fmt.Errorf("agent %d: %w", id, ErrNotFound)
	}
	m.agents = slices.Delete(m.agents, i, i+1)
	for j := range m.numbers {
		if n := &m.numbers[j]; n.AgentID != nil && *n.AgentID == id {
			n.AgentID = nil
		}
	}
	return nil
}

func (m *Memory) ListSettings(_ context.Context) ([]Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.settings), nil
}

func (m *Memory) settingIndex(name string) int {
	return slices.IndexFunc(m.settings, func(s Setting) bool { return s.Setting == name })
}

func (m *Memory) GetSetting(_ context.Context, name string) (*Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.settingIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("setting %q: %w", name, ErrNotFound)
	}
	s := m.settings[i]
	return &s, nil
}

func (m *Memory) CreateSetting(_ context.Context, name, value string) (*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settingIndex(name) >= 0 {
		return nil, fmt.Errorf("setting %q: %w", name, ErrConflict)
	}
	s := Setting{ID: m.nextSettingID, Setting: name, Value: value}
	m.nextSettingID++
	m.settings = append(m.settings, s)
	return &s, nil
}

func (m *Memory) UpdateSetting(_ context.Context, name, value string) (*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.settingIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("setting %q: %w", name, ErrNotFound)
	}
	m.settings[i].Value = value
	s := m.settings[i]
	return &s, nil
}

func (m *Memory) DeleteSetting(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.settingIndex(name)
	if i < 0 {
		return fmt.Errorf("setting %q: %w", name, ErrNotFound)
	}
	m.settings = slices.Delete(m.settings, i, i+1)
	return nil
}

// withAgentName resolves the agent name of n. Callers hold the lock.
func (m *Memory) withAgentName(n WhatsappNumber) WhatsappNumber {
	n.AgentName = nil
	if n.AgentID == nil {
		return n
	}
	if i := m.agentIndex(*n.AgentID); i >= 0 {
		name := m.agents[i].AgentName
		n.AgentName = &name
	}
	id := *n.AgentID
	n.AgentID = &id
	return n
}

func (m *Memory) ListNumbers(_ context.Context) ([]WhatsappNumber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]WhatsappNumber, len(m.numbers))
	for i, n := range m.numbers {
		out[i] = m.withAgentName(n)
	}
	return out, nil
}

// AssignAgent sets or, with a nil agentID, clears the agent of phone.
func (m *Memory) AssignAgent(_ context.Context, phone string, agentID *int64) (*WhatsappNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.numbers, func(n WhatsappNumber) bool { return n.PhoneNumber == phone })
	if i < 0 {
		return nil, fmt.Errorf("number %s: %w", phone, ErrNotFound)
	}
	if agentID != nil && m.agentIndex(*agentID) < 0 {
		return nil, fmt.Errorf("agent %d: %w", *agentID, ErrNotFound)
	}

	m.numbers[i].AgentID = nil
	if agentID != nil {
		id := *agentID
		m.numbers[i].AgentID = &id
	}
	n := m.withAgentName(m.numbers[i])
	return &n, nil
}

func (m *Memory) ListContacts(_ context.Context) ([]Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Contact, len(m.contacts))
	for i, phone := range m.contacts {
		out[i] = Contact{PhoneNumber: phone}
	}
	return out, nil
}

// ChatHistory returns an empty history for unknown phones.
func (m *Memory) ChatHistory(_ context.Context, phone string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := slices.Clone(m.chats[phone])
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs, nil
}

// AppendMessage adds m to the history of phone, registering the contact on
// first contact.
func (m *Memory) AppendMessage(_ context.Context, phone string, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(m.contacts, phone) {
		m.contacts = append(m.contacts, phone)
	}
	m.chats[phone] = append(m.chats[phone], msg)
	return nil
}

func (m *Memory) Profile(_ context.Context, phone string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[phone]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", phone, ErrNotFound)
	}
	return &p, nil
}
