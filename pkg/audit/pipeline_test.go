package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.conformance/pkg/contract"
)

func TestPipeline_Execute(t *testing.T) {
	a := NewAuditor(WithRegistry(setupRegistry(t)))
	p := NewPipeline(a)

	rep, err := p.Execute(context.Background(), carSubject())
	require.NoError(t, err)

	assert.Equal(t, contract.StatusConformant, rep.Status)
	assert.Equal(t, "vehicle.Car", rep.Subject)
	assert.NotEmpty(t, rep.RunID)
}

func TestPipeline_PreHookFailure(t *testing.T) {
	a := NewAuditor(WithRegistry(setupRegistry(t)))
	p := NewPipeline(a)

	var sawReport *contract.Report
	p.AddPreHook(func(
		_ context.Context,
		_ contract.Subject,
		rep *contract.Report,
	) error {
		sawReport = rep
		return errors.New("fixture missing")
	})

	rep, err := p.Execute(context.Background(), carSubject())
	require.NoError(t, err)

	// No report exists before the check runs.
	assert.Nil(t, sawReport)

	assert.Equal(t, contract.StatusError, rep.Status)
	assert.Contains(t, rep.Error, "pipeline pre-hook failed")
	assert.Contains(t, rep.Error, "fixture missing")
	assert.Equal(t, "vehicle.Car", rep.Subject)
	assert.NotEmpty(t, rep.RunID)
	assert.Zero(t, rep.OperationsChecked)
}

func TestPipeline_SecondPreHookFailureSkipsRest(t *testing.T) {
	a := NewAuditor(WithRegistry(setupRegistry(t)))
	p := NewPipeline(a)

	var order []string
	p.AddPreHook(func(
		_ context.Context, _ contract.Subject, _ *contract.Report,
	) error {
		order = append(order, "first")
		return nil
	})
	p.AddPreHook(func(
		_ context.Context, _ contract.Subject, _ *contract.Report,
	) error {
		order = append(order, "second")
		return errors.New("stop here")
	})
	p.AddPreHook(func(
		_ context.Context, _ contract.Subject, _ *contract.Report,
	) error {
		order = append(order, "third")
		return nil
	})

	rep, err := p.Execute(context.Background(), carSubject())
	require.NoError(t, err)

	assert.Equal(t, contract.StatusError, rep.Status)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPipeline_PostHookFailureWarnsOnly(t *testing.T) {
	logger := &stubLogger{}
	a := NewAuditor(
		WithRegistry(setupRegistry(t)),
		WithLogger(logger),
	)
	p := NewPipeline(a)

	p.AddPostHook(func(
		_ context.Context, _ contract.Subject, _ *contract.Report,
	) error {
		return errors.New("webhook unreachable")
	})

	rep, err := p.Execute(context.Background(), carSubject())
	require.NoError(t, err)

	assert.Equal(t, contract.StatusConformant, rep.Status)
	assert.True(t, logger.has("info:pipeline_post_hook_warning"))
}

func TestPipeline_PostHookSeesFinishedReport(t *testing.T) {
	a := NewAuditor(WithRegistry(setupRegistry(t)))
	p := NewPipeline(a)

	var sawStatus string
	p.AddPostHook(func(
		_ context.Context,
		_ contract.Subject,
		rep *contract.Report,
	) error {
		sawStatus = rep.Status
		return nil
	})

	_, err := p.Execute(context.Background(), carSubject())
	require.NoError(t, err)
	assert.Equal(t, contract.StatusConformant, sawStatus)
}

func TestPipeline_HookOrdering(t *testing.T) {
	var order []string

	a := NewAuditor(
		WithRegistry(setupRegistry(t)),
		WithPreHook(func(
			_ context.Context, _ contract.Subject, _ *contract.Report,
		) error {
			order = append(order, "auditor-pre")
			return nil
		}),
		WithPostHook(func(
			_ context.Context, _ contract.Subject, _ *contract.Report,
		) error {
			order = append(order, "auditor-post")
			return nil
		}),
	)
	p := NewPipeline(a)
	p.AddPreHook(func(
		_ context.Context, _ contract.Subject, _ *contract.Report,
	) error {
		order = append(order, "pipeline-pre")
		return nil
	})
	p.AddPostHook(func(
		_ context.Context, _ contract.Subject, _ *contract.Report,
	) error {
		order = append(order, "pipeline-post")
		return nil
	})

	_, err := p.Execute(context.Background(), carSubject())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pipeline-pre",
		"auditor-pre",
		"auditor-post",
		"pipeline-post",
	}, order)
}

func TestPipeline_ExecuteSequence_SharesRunID(t *testing.T) {
	a := NewAuditor(WithRegistry(setupRegistry(t)))
	p := NewPipeline(a)

	subjects := []contract.Subject{
		carSubject(),
		contract.NewSubject(
			"vehicle.Stalled", stalledCar(), "Movable",
		),
	}

	reports, err := p.ExecuteSequence(
		context.Background(), subjects,
	)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.NotEmpty(t, reports[0].RunID)
	assert.Equal(t, reports[0].RunID, reports[1].RunID)
	assert.Equal(t, contract.StatusConformant, reports[0].Status)
	assert.Equal(t, contract.StatusViolating, reports[1].Status)

	// Separate Execute calls get fresh run identifiers.
	rerun, err := p.Execute(context.Background(), carSubject())
	require.NoError(t, err)
	assert.NotEqual(t, reports[0].RunID, rerun.RunID)
}

func TestPipeline_ExecuteSequence_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	a := NewAuditor(
		WithRegistry(setupRegistry(t)),
		WithAuditHook(func(
			_ contract.Subject,
			rep *contract.Report,
			_ error,
		) (*contract.Report, error) {
			calls++
			if calls == 2 {
				return rep, boom
			}
			return rep, nil
		}),
	)
	p := NewPipeline(a)

	reports, err := p.ExecuteSequence(
		context.Background(), makeSubjects(3),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, reports, 1)
}
