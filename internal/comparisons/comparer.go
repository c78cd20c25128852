package comparisons

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/reconcile"
)

// Comparer produces one pairwise comparison per adjacent pair of versions,
// in submission order.
type Comparer interface {
	Compare(ctx context.Context, versions []VersionPayload) ([]reconcile.Comparison, error)
}

// ComparerFunc adapts a function to the Comparer interface.
type ComparerFunc func(ctx context.Context, versions []VersionPayload) ([]reconcile.Comparison, error)

func (f ComparerFunc) Compare(ctx context.Context, versions []VersionPayload) ([]reconcile.Comparison, error) {
	return f(ctx, versions)
}

const compareInstructions = `Compare each adjacent pair of the ruleset versions below, oldest first.
Respond with JSON of the form {"comparisons":[{"from":"<versionName>","to":"<versionName>",
"changes_by_constraint":[{"constraint_title":"...","status":"unchanged|modified|added|removed",
"changes":[{"tag":"unchanged|added|removed","text":"..."}]}]}]}.
Return exactly one comparison per adjacent pair, in order.`

// AgentComparer sends all versions to the comparison agent in one message.
type AgentComparer struct {
	sender       agent.Sender
	agentID      string
	instructions string
}

// NewAgentComparer creates an AgentComparer for the given agent.
func NewAgentComparer(sender agent.Sender, agentID string) *AgentComparer {
	return &AgentComparer{sender: sender, agentID: agentID, instructions: compareInstructions}
}

// WithInstructions replaces the instructions sent ahead of the versions.
// An empty value keeps the current instructions.
func (c *AgentComparer) WithInstructions(text string) *AgentComparer {
	if text != "" {
		c.instructions = text
	}
	return c
}

func (c *AgentComparer) Compare(ctx context.Context, versions []VersionPayload) ([]reconcile.Comparison, error) {
	payload, err := json.MarshalIndent(map[string]any{"versions": versions}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode versions: %w", err)
	}

	resp, err := c.sender.Send(ctx, c.agentID, uuid.NewString(), c.instructions+"\n\n"+string(payload))
	if err != nil {
		return nil, err
	}

	raw, err := agent.Decode[json.RawMessage](resp)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", resp.Kind(), err)
	}

	comparisons, err := decodeComparisons(raw)
	if err != nil {
		return nil, err
	}

	infos := make([]reconcile.VersionInfo, len(versions))
	for i, v := range versions {
		infos[i] = reconcile.VersionInfo{Version: v.Version, VersionName: v.VersionName}
	}
	if err := reconcile.CheckSequence(infos, comparisons); err != nil {
		return nil, err
	}

	return comparisons, nil
}

// decodeComparisons accepts either {"comparisons":[...]} or a bare array.
func decodeComparisons(raw json.RawMessage) ([]reconcile.Comparison, error) {
	list := gjson.ParseBytes(raw)
	if !list.IsArray() {
		list = list.Get("comparisons")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: response has no comparisons array", agent.ErrEmptyResponse)
	}

	var comparisons []reconcile.Comparison
	if err := json.Unmarshal([]byte(list.Raw), &comparisons); err != nil {
		return nil, fmt.Errorf("decode comparisons: %w", err)
	}
	return comparisons, nil
}
