package generator

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Saurasai/pmv2/logger"
)

// Pipeline runs render → complete → split → select for one or many platforms.
type Pipeline struct {
	llm       LLMClient
	templates Templates
	log       logger.Logger
}

func NewPipeline(llm LLMClient, templates Templates, log logger.Logger) (*Pipeline, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{llm: llm, templates: templates, log: log}, nil
}

// Drafts generates at most three drafts for a single platform. Template
// errors (unknown platform, missing variable) and generation failures are
// returned to the caller; per-platform isolation is DraftsForAll's job.
func (p *Pipeline) Drafts(ctx context.Context, platform string, vars map[string]string) ([]string, error) {
	prompt, err := p.templates.Render(platform, vars)
	if err != nil {
		return nil, err
	}

	raw, err := p.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate for %s: %w", platform, err)
	}

	drafts := SelectDrafts(SplitNumberedDrafts(raw))
	p.log.Debug("drafts generated",
		logger.String("platform", platform),
		logger.Int("count", len(drafts)))
	return drafts, nil
}

// DraftsForAll fans out one generation task per platform and joins the
// results keyed by platform. A failed platform contributes an empty list and
// never cancels or corrupts its siblings, so a plain errgroup without a
// shared cancel context is used and every task returns nil.
func (p *Pipeline) DraftsForAll(ctx context.Context, platforms []string, vars map[string]string) map[string][]string {
	results := make([][]string, len(platforms))

	var g errgroup.Group
	for i, platform := range platforms {
		i, platform := i, platform
		g.Go(func() error {
			drafts, err := p.Drafts(ctx, platform, vars)
			if err != nil {
				p.log.Error("platform generation failed",
					logger.String("platform", platform),
					logger.Err(err))
				results[i] = []string{}
				return nil
			}
			results[i] = drafts
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]string, len(platforms))
	for i, platform := range platforms {
		out[platform] = results[i]
	}
	return out
}
