package store

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/orin-ai/agentdash/pkg/flow"
)

//go:embed seed/seed.json
var seedJSON []byte

// Seed is the initial data of a fresh store: the ORIN agent, the default
// notification settings and the WhatsApp demo data.
type Seed struct {
	Agents   []*Agent             `json:"agents"`
	Settings []Setting            `json:"settings"`
	Numbers  []WhatsappNumber     `json:"numbers"`
	Contacts []string             `json:"contacts"`
	Chats    map[string][]Message `json:"chats"`
	Profiles map[string]Profile   `json:"profiles"`
}

// LoadSeed decodes the embedded seed. Agent trees are canonicalized.
func LoadSeed() (*Seed, error) {
	var s Seed
	if err := json.Unmarshal(seedJSON, &s); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	for _, a := range s.Agents {
		a.QuestionClass = flow.Canonicalize(a.QuestionClass)
	}
	return &s, nil
}
