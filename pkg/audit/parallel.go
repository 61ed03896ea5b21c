package audit

import (
	"context"
	"sync"
	"sync/atomic"

	"digital.vasic.conformance/pkg/contract"
)

// parallelReport pairs a report with its original index so
// reports can be returned in submission order.
type parallelReport struct {
	index  int
	report *contract.Report
	err    error
}

// runParallel checks subjects concurrently with a semaphore
// limiting maxConcurrency goroutines. Reports are returned in
// the same order as the input subjects.
func runParallel(
	ctx context.Context,
	a *DefaultAuditor,
	subjects []contract.Subject,
	runID string,
	maxConcurrency int,
) ([]*contract.Report, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	sem := make(chan struct{}, maxConcurrency)
	reportsCh := make(chan parallelReport, len(subjects))

	var wg sync.WaitGroup
	var active int64

	for i, s := range subjects {
		wg.Add(1)
		go func(idx int, subject contract.Subject) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				reportsCh <- parallelReport{
					index: idx,
					err:   ctx.Err(),
				}
				return
			}

			// Re-check after acquiring: both select cases can
			// be ready at once.
			if err := ctx.Err(); err != nil {
				reportsCh <- parallelReport{index: idx, err: err}
				return
			}

			a.recorder.SetActiveAudits(
				int(atomic.AddInt64(&active, 1)),
			)
			defer func() {
				a.recorder.SetActiveAudits(
					int(atomic.AddInt64(&active, -1)),
				)
			}()

			rep, execErr := a.auditSubject(
				ctx, subject, runID,
			)
			reportsCh <- parallelReport{
				index:  idx,
				report: rep,
				err:    execErr,
			}
		}(i, s)
	}

	// Close channel after all goroutines complete.
	go func() {
		wg.Wait()
		close(reportsCh)
	}()

	// Collect reports in submission order.
	ordered := make([]*contract.Report, len(subjects))
	var firstErr error

	for pr := range reportsCh {
		if pr.err != nil && firstErr == nil {
			firstErr = pr.err
		}
		ordered[pr.index] = pr.report
	}

	// Filter out nil entries if context was cancelled.
	reports := make([]*contract.Report, 0, len(subjects))
	for _, rep := range ordered {
		if rep != nil {
			reports = append(reports, rep)
		}
	}

	return reports, firstErr
}
