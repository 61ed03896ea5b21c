package probe

import (
	"context"
	"fmt"

	"digital.vasic.conformance/pkg/contract"
	"digital.vasic.conformance/pkg/logging"
	"digital.vasic.conformance/pkg/verify"
)

// Selector probes candidates from a source and returns the
// first one that satisfies the required contracts.
type Selector struct {
	checker  *verify.Checker
	logger   logging.Logger
	onReject func(subject contract.Subject, err error)
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithChecker sets the checker used to probe candidates.
func WithChecker(c *verify.Checker) SelectorOption {
	return func(s *Selector) { s.checker = c }
}

// WithLogger sets the selector's logger.
func WithLogger(logger logging.Logger) SelectorOption {
	return func(s *Selector) { s.logger = logger }
}

// WithOnReject registers a callback invoked for every rejected
// candidate with the failure that disqualified it.
func WithOnReject(
	fn func(subject contract.Subject, err error),
) SelectorOption {
	return func(s *Selector) { s.onReject = fn }
}

// NewSelector creates a Selector with the supplied options.
// When no checker is given, one is built sharing the selector's
// logger.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		logger: logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.checker == nil {
		s.checker = verify.NewChecker(
			verify.WithLogger(s.logger),
		)
	}
	return s
}

// Select probes the source's candidates in order and returns
// the first subject whose candidate satisfies every contract.
// When the source can health-check, a conforming candidate must
// also pass its liveness probe. Every rejected candidate is
// reported to the OnReject callback and released when the
// source supports release. When all candidates are rejected the
// returned error is a *ErrNoCandidate carrying the reasons.
func (s *Selector) Select(
	ctx context.Context,
	source Source,
	contracts ...contract.Contract,
) (contract.Subject, error) {
	candidates, err := source.Candidates(ctx)
	if err != nil {
		return contract.Subject{}, fmt.Errorf(
			"failed to list candidates: %w", err,
		)
	}

	noCandidate := &ErrNoCandidate{
		Contracts: contractNames(contracts),
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return contract.Subject{}, err
		}

		checkErr := s.checker.EnsureSubject(
			candidate, contracts...,
		)
		if checkErr != nil {
			s.reject(ctx, source, candidate, checkErr, noCandidate)
			continue
		}

		if hc, ok := source.(HealthChecker); ok {
			if probeErr := hc.Health(ctx, candidate); probeErr != nil {
				s.reject(ctx, source, candidate, fmt.Errorf(
					"health probe failed: %w", probeErr,
				), noCandidate)
				continue
			}
		}

		s.logger.Info("candidate selected",
			logging.StringField(
				"subject", candidate.DisplayLabel(),
			),
			logging.IntField(
				"rejected", len(noCandidate.Rejections),
			),
		)
		return candidate, nil
	}

	return contract.Subject{}, noCandidate
}

// SelectFirst is Select over a literal candidate list.
func (s *Selector) SelectFirst(
	ctx context.Context,
	contracts []contract.Contract,
	subjects ...contract.Subject,
) (contract.Subject, error) {
	return s.Select(ctx, staticSource(subjects), contracts...)
}

// reject records a disqualified candidate, notifies the
// callback, and hands the candidate back to the source.
func (s *Selector) reject(
	ctx context.Context,
	source Source,
	subject contract.Subject,
	cause error,
	noCandidate *ErrNoCandidate,
) {
	label := subject.DisplayLabel()
	noCandidate.Rejections = append(
		noCandidate.Rejections,
		Rejection{Subject: label, Err: cause},
	)

	s.logger.Debug("candidate rejected",
		logging.StringField("subject", label),
		logging.ErrorField(cause),
	)

	if s.onReject != nil {
		s.onReject(subject, cause)
	}

	if r, ok := source.(Releaser); ok {
		if err := r.Release(ctx, subject); err != nil {
			s.logger.Warn("candidate release failed",
				logging.StringField("subject", label),
				logging.ErrorField(err),
			)
		}
	}
}

func contractNames(
	contracts []contract.Contract,
) []contract.Name {
	names := make([]contract.Name, 0, len(contracts))
	for _, c := range contracts {
		names = append(names, c.Name())
	}
	return names
}
