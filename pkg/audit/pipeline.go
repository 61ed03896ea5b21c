package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"digital.vasic.conformance/pkg/contract"
	"digital.vasic.conformance/pkg/logging"
)

// Pipeline wraps an auditor with an additional layer of pre-
// and post-processing hooks, for callers that assemble hook
// chains separately from auditor construction.
type Pipeline struct {
	auditor   *DefaultAuditor
	preHooks  []Hook
	postHooks []Hook
}

// NewPipeline creates a Pipeline wrapping the given auditor.
func NewPipeline(auditor *DefaultAuditor) *Pipeline {
	return &Pipeline{
		auditor: auditor,
	}
}

// AddPreHook appends a pre-check hook to the pipeline.
func (p *Pipeline) AddPreHook(h Hook) {
	p.preHooks = append(p.preHooks, h)
}

// AddPostHook appends a post-check hook to the pipeline.
func (p *Pipeline) AddPostHook(h Hook) {
	p.postHooks = append(p.postHooks, h)
}

/// Execute runs a subject through the pipeline:
// pre-hooks -> auditor check -> post-hooks.
func (p *Pipeline) Execute(
	ctx context.Context,
	subject contract.Subject,
) (*contract.Report, error) {
	return p.execute(ctx, subject, uuid.NewString())
}

// ExecuteSequence runs multiple subjects through the pipeline
// in order, sharing one run ID.
func (p *Pipeline) ExecuteSequence(
	ctx context.Context,
	subjects []contract.Subject,
) ([]*contract.Report, error) {
	reports := make([]*contract.Report, 0, len(subjects))
	runID := uuid.NewString()

	for _, s := range subjects {
		rep, err := p.execute(ctx, s, runID)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}

	return reports, nil
}

func (p *Pipeline) execute(
	ctx context.Context,
	subject contract.Subject,
	runID string,
) (*contract.Report, error) {
	// Run pipeline-level pre-hooks.
	for _, hook := range p.preHooks {
		if err := hook(ctx, subject, nil); err != nil {
			now := time.Now()
			return &contract.Report{
				RunID:     runID,
				Subject:   subject.DisplayLabel(),
				Contracts: subject.Claims,
				Status:    contract.StatusError,
				Error: "pipeline pre-hook failed: " +
					err.Error(),
				StartTime: now,
				EndTime:   now,
			}, nil
		}
	}

	// Check via the auditor.
	rep, err := p.auditor.auditSubject(ctx, subject, runID)
	if err != nil {
		return rep, err
	}

	// Run pipeline-level post-hooks.
	for _, hook := range p.postHooks {
		if hookErr := hook(ctx, subject, rep); hookErr != nil {
			p.auditor.logEvent(
				"pipeline_post_hook_warning",
				logging.StringField(
					"subject", subject.DisplayLabel(),
				),
				logging.StringField(
					"warning", hookErr.Error(),
				),
			)
		}
	}

	return rep, nil
}
