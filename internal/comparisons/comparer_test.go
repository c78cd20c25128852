package comparisons_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/mandate/internal/comparisons"
	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/reconcile"
)

type fakeSender struct {
	resp    agent.Response
	err     error
	agentID string
	message string
}

func (f *fakeSender) Send(_ context.Context, agentID, _ string, message string) (agent.Response, error) {
	f.agentID = agentID
	f.message = message
	return f.resp, f.err
}

const twoComparisons = `[
	{"from":"v1","to":"v2","changes_by_constraint":[{"constraint_title":"Leverage","status":"unchanged","changes":[{"tag":"unchanged","text":"Max 2x"}]}]},
	{"from":"v2","to":"v3","changes_by_constraint":[{"constraint_title":"Leverage","status":"modified","changes":[{"tag":"removed","text":"Max 2x"},{"tag":"added","text":"Max 3x"}]}]}
]`

func TestAgentComparerDecodes(t *testing.T) {
	tests := []struct {
		name string
		resp agent.Response
	}{
		{"object", agent.ObjectResponse([]byte(`{"comparisons":` + twoComparisons + `}`))},
		{"wrapped array", agent.WrappedResponse(twoComparisons)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{resp: tt.resp}
			c := comparisons.NewAgentComparer(sender, "comparison-agent")

			got, err := c.Compare(context.Background(), request("v1", "v2", "v3").Versions)
			if err != nil {
				t.Fatalf("compare: %v", err)
			}
			if len(got) != 2 || got[1].ChangesByConstraint[0].Status != reconcile.StatusModified {
				t.Errorf("comparisons = %+v", got)
			}
			if sender.agentID != "comparison-agent" {
				t.Errorf("agent id = %q", sender.agentID)
			}
			if !strings.Contains(sender.message, `"versionName": "v3"`) {
				t.Errorf("message missing versions payload:\n%s", sender.message)
			}
		})
	}
}

func TestAgentComparerRejectsWrongCount(t *testing.T) {
	sender := &fakeSender{resp: agent.ObjectResponse([]byte(twoComparisons))}
	c := comparisons.NewAgentComparer(sender, "comparison-agent")

	_, err := c.Compare(context.Background(), request("v1", "v2").Versions)
	if !errors.Is(err, reconcile.ErrSequence) {
		t.Errorf("err = %v, want ErrSequence", err)
	}
}

func TestAgentComparerNoComparisons(t *testing.T) {
	sender := &fakeSender{resp: agent.ObjectResponse([]byte(`{"summary":"nothing changed"}`))}
	c := comparisons.NewAgentComparer(sender, "comparison-agent")

	_, err := c.Compare(context.Background(), request("v1", "v2").Versions)
	if !errors.Is(err, agent.ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestAgentComparerSendError(t *testing.T) {
	boom := errors.New("agent unavailable")
	c := comparisons.NewAgentComparer(&fakeSender{err: boom}, "comparison-agent")

	if _, err := c.Compare(context.Background(), request("v1", "v2").Versions); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestAgentComparerInstructionOverride(t *testing.T) {
	resp := agent.WrappedResponse(twoComparisons)

	sender := &fakeSender{resp: resp}
	c := comparisons.NewAgentComparer(sender, "comparison-agent").WithInstructions("Diff the versions.")
	if _, err := c.Compare(context.Background(), request("v1", "v2", "v3").Versions); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.HasPrefix(sender.message, "Diff the versions.\n\n") {
		t.Errorf("message ignores override:\n%s", sender.message)
	}

	sender = &fakeSender{resp: resp}
	c = comparisons.NewAgentComparer(sender, "comparison-agent").WithInstructions("")
	if _, err := c.Compare(context.Background(), request("v1", "v2", "v3").Versions); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.HasPrefix(sender.message, "Compare each adjacent pair") {
		t.Errorf("empty override replaced built-in instructions:\n%s", sender.message)
	}
}
