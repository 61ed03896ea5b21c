// Package probe implements capability probing: try candidates
// in order and adopt the first one that satisfies a set of
// contracts. It is the recoverable counterpart to the checking
// surface, for callers that can fall back to an alternative
// implementation instead of failing.
package probe

import (
	"context"
	"fmt"

	"digital.vasic.conformance/pkg/contract"
)

// Source supplies the candidates a Selector probes, in
// preference order.
type Source interface {
	// Candidates returns the subjects to probe. The slice is
	// consumed front to back.
	Candidates(ctx context.Context) ([]contract.Subject, error)
}

// Releaser is implemented by sources whose candidates hold
// resources. The selector releases every candidate it rejects.
type Releaser interface {
	Release(ctx context.Context, subject contract.Subject) error
}

// HealthChecker is implemented by sources that can probe a
// conforming candidate for liveness before it is adopted.
type HealthChecker interface {
	Health(ctx context.Context, subject contract.Subject) error
}

// FuncSource adapts plain callbacks into a Source. Callers
// provide the actual candidate lifecycle through functions to
// avoid hard-coding a discovery mechanism.
type FuncSource struct {
	candidatesFunc func(ctx context.Context) ([]contract.Subject, error)
	releaseFunc    func(ctx context.Context, subject contract.Subject) error
	healthFunc     func(ctx context.Context, subject contract.Subject) error
}

// FuncSourceOption configures a FuncSource.
type FuncSourceOption func(*FuncSource)

// WithCandidatesFunc sets the function that lists candidates.
func WithCandidatesFunc(
	fn func(ctx context.Context) ([]contract.Subject, error),
) FuncSourceOption {
	return func(s *FuncSource) { s.candidatesFunc = fn }
}

// WithReleaseFunc sets the function called for each rejected
// candidate.
func WithReleaseFunc(
	fn func(ctx context.Context, subject contract.Subject) error,
) FuncSourceOption {
	return func(s *FuncSource) { s.releaseFunc = fn }
}

// WithHealthFunc sets the function that probes a conforming
// candidate for liveness.
func WithHealthFunc(
	fn func(ctx context.Context, subject contract.Subject) error,
) FuncSourceOption {
	return func(s *FuncSource) { s.healthFunc = fn }
}

// NewFuncSource creates a FuncSource with the given options.
func NewFuncSource(opts ...FuncSourceOption) *FuncSource {
	s := &FuncSource{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FuncSource) Candidates(
	ctx context.Context,
) ([]contract.Subject, error) {
	if s.candidatesFunc == nil {
		return nil, fmt.Errorf("candidates function not configured")
	}
	return s.candidatesFunc(ctx)
}

func (s *FuncSource) Release(
	ctx context.Context, subject contract.Subject,
) error {
	if s.releaseFunc == nil {
		return nil // Release is optional
	}
	return s.releaseFunc(ctx, subject)
}

func (s *FuncSource) Health(
	ctx context.Context, subject contract.Subject,
) error {
	if s.healthFunc == nil {
		return nil // unset probe means always healthy
	}
	return s.healthFunc(ctx, subject)
}

// staticSource serves a fixed candidate list.
type staticSource []contract.Subject

func (s staticSource) Candidates(
	_ context.Context,
) ([]contract.Subject, error) {
	return s, nil
}
