// Package workflow turns an uploaded guidelines document into the rules,
// mapped rules, and gap analysis that make up a ruleset version.
//
// Steps run in order and a failed step aborts the rest:
//
//	load      document, blob, and project catalog
//	extract   document text through the extraction service
//	rules     rules agent: text to sections
//	mapping   mapping agent: sections against the catalog
//	gap       gap-analysis agent: mapped rules against the catalog
package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/mandate/internal/projects"
	"github.com/JaimeStill/mandate/pkg/agent"
	"github.com/JaimeStill/mandate/pkg/extraction"
)

// Execute runs the rule-mapping workflow for a single document.
// All agent calls of one execution share a session.
func Execute(ctx context.Context, rt *Runtime, documentID uuid.UUID) (*Result, error) {
	session := uuid.NewString()
	logger := rt.Logger.With("document_id", documentID, "session_id", session)

	text, project, err := load(ctx, rt, documentID)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "extract step complete", "pages", text.Pages, "chars", len(text.Content))

	sections, err := extractRules(ctx, rt, session, text.Content)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "rules step complete", "sections", len(sections))

	mapped, err := mapRules(ctx, rt, session, sections, project.Catalog)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "mapping step complete", "bytes", len(mapped))

	gaps, err := analyzeGaps(ctx, rt, session, mapped, project.Catalog)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "gap analysis step complete", "bytes", len(gaps))

	return &Result{
		DocumentID:  documentID,
		ProjectID:   project.ID,
		CustomerID:  project.CustomerID,
		Pages:       text.Pages,
		Sections:    sections,
		MappedRules: mapped,
		GapAnalysis: gaps,
	}, nil
}

// load opens the document, then extracts its text while the owning project's
// catalog is fetched.
func load(ctx context.Context, rt *Runtime, documentID uuid.UUID) (*extraction.Result, *projects.Project, error) {
	doc, blob, err := rt.Documents.Open(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDocumentNotFound, err)
	}
	defer blob.Body.Close()

	var (
		text    *extraction.Result
		project *projects.Project
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := rt.Extraction.Extract(gctx, doc.Filename, blob.Body)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExtractFailed, err)
		}
		text = res
		return nil
	})

	g.Go(func() error {
		p, err := rt.Projects.Find(gctx, doc.ProjectID)
		if err != nil {
			return fmt.Errorf("%w: project %s: %w", ErrDocumentNotFound, doc.ProjectID, err)
		}
		project = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return text, project, nil
}

func extractRules(ctx context.Context, rt *Runtime, session, text string) ([]Section, error) {
	prompt, err := composePrompt(rt.Instructions.rules(), labeled{"Guidelines", text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRulesFailed, err)
	}

	resp, err := agent.Call[rulesResponse](ctx, rt.Agent, rt.Agents.Rules, session, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRulesFailed, err)
	}

	sections := make([]Section, 0, len(resp.Sections))
	for _, s := range resp.Sections {
		if s.Title == "" {
			continue
		}
		if s.Rules == nil {
			s.Rules = []string{}
		}
		sections = append(sections, s)
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: agent returned no sections", ErrRulesFailed)
	}

	return sections, nil
}

func mapRules(
	ctx context.Context,
	rt *Runtime,
	session string,
	sections []Section,
	catalog json.RawMessage,
) (json.RawMessage, error) {
	prompt, err := composePrompt(
		rt.Instructions.mapping(),
		labeled{"Rules", sections},
		labeled{"Catalog", catalog},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMappingFailed, err)
	}

	mapped, err := agent.Call[json.RawMessage](ctx, rt.Agent, rt.Agents.Mapping, session, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMappingFailed, err)
	}
	return mapped, nil
}

func analyzeGaps(
	ctx context.Context,
	rt *Runtime,
	session string,
	mapped json.RawMessage,
	catalog json.RawMessage,
) (json.RawMessage, error) {
	prompt, err := composePrompt(
		rt.Instructions.gapAnalysis(),
		labeled{"Mapped rules", mapped},
		labeled{"Catalog", catalog},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGapAnalysisFailed, err)
	}

	gaps, err := agent.Call[json.RawMessage](ctx, rt.Agent, rt.Agents.GapAnalysis, session, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGapAnalysisFailed, err)
	}
	return gaps, nil
}
