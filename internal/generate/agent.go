package generate

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentText is a TextBackend backed by a go-agents chat agent. Agents are
// created per call from the stored configuration, which is read-only after
// startup.
type AgentText struct {
	cfg gaconfig.AgentConfig
}

// NewAgentText creates an AgentText from a finalized agent configuration.
func NewAgentText(cfg gaconfig.AgentConfig) *AgentText {
	return &AgentText{cfg: cfg}
}

// Generate implements TextBackend. The system instruction and user content
// are composed into a single chat prompt; an empty completion is surfaced
// as an error so callers treat it as a failure rather than parsing "".
func (t *AgentText) Generate(ctx context.Context, system, user string) (string, error) {
	a, err := agent.New(&t.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, system+"\n\n"+user)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	content := resp.Content()
	if content == "" {
		return "", fmt.Errorf("model returned empty response")
	}

	return content, nil
}
