package workflow

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
)

const rulesInstructions = `Extract every investment constraint from the guidelines text below.
Respond with JSON of the form {"sections":[{"title":"...","rules":["..."]}]}.
Use the constraint heading as the title and one entry per rule line.`

const mappingInstructions = `Map each extracted rule to the matching entries of the reference-data catalog.
Respond with a JSON document describing the mapped rules.`

const gapInstructions = `Compare the mapped rules with the reference-data catalog and report every rule
that cannot be enforced with the catalog as it stands. Respond with a JSON document.`

// Instructions overrides the text sent ahead of each agent's input. Empty
// fields keep the built-in instructions.
type Instructions struct {
	Rules       string
	Mapping     string
	GapAnalysis string
}

func (i Instructions) rules() string {
	return cmp.Or(i.Rules, rulesInstructions)
}

func (i Instructions) mapping() string {
	return cmp.Or(i.Mapping, mappingInstructions)
}

func (i Instructions) gapAnalysis() string {
	return cmp.Or(i.GapAnalysis, gapInstructions)
}

// composePrompt appends each labeled value to the instructions as indented JSON,
// or verbatim when the value is a string.
func composePrompt(instructions string, parts ...labeled) (string, error) {
	var sb strings.Builder
	sb.WriteString(instructions)

	for _, p := range parts {
		sb.WriteString("\n\n")
		sb.WriteString(p.label)
		sb.WriteString(":\n\n")

		if s, ok := p.value.(string); ok {
			sb.WriteString(s)
			continue
		}

		data, err := json.MarshalIndent(p.value, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialize %s: %w", p.label, err)
		}
		sb.Write(data)
	}

	return sb.String(), nil
}

type labeled struct {
	label string
	value any
}
