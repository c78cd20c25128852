package workflow

import (
	"context"
	"io"
	"log/slog"

	"github.com/JaimeStill/mandate/internal/documents"
	"github.com/JaimeStill/mandate/internal/projects"
	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/extraction"
)

// Extractor converts a document into text. *extraction.Client implements it.
type Extractor interface {
	Extract(ctx context.Context, filename string, r io.Reader) (*extraction.Result, error)
}

// Runtime bundles the dependencies that workflow steps require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Agent        agent.Sender
	Agents       agent.Agents
	Instructions Instructions
	Extraction   Extractor
	Documents    documents.System
	Projects     projects.System
	Logger       *slog.Logger
}
