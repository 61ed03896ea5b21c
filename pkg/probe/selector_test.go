package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.conformance/pkg/contract"
)

func movable(t *testing.T) contract.Contract {
	t.Helper()
	return contract.MustNew(
		"Movable", []string{"moveTo", "stop"},
	)
}

// carCandidate satisfies Movable through callable map entries.
func carCandidate() map[string]any {
	return map[string]any{
		"moveTo": func(x, y int) {},
		"stop":   func() {},
	}
}

// stalledCandidate is missing stop.
func stalledCandidate() map[string]any {
	return map[string]any{
		"moveTo": func(x, y int) {},
	}
}

// dataCandidate carries moveTo as plain data.
func dataCandidate() map[string]any {
	return map[string]any{
		"moveTo": 5,
		"stop":   func() {},
	}
}

func listSource(subjects ...contract.Subject) *FuncSource {
	return NewFuncSource(
		WithCandidatesFunc(func(
			_ context.Context,
		) ([]contract.Subject, error) {
			return subjects, nil
		}),
	)
}

func TestNewSelector_Defaults(t *testing.T) {
	s := NewSelector()
	assert.NotNil(t, s.checker)
	assert.NotNil(t, s.logger)
	assert.Nil(t, s.onReject)
}

func TestSelector_Select_FirstConforming(t *testing.T) {
	s := NewSelector()
	src := listSource(
		contract.NewSubject("vehicle.Stalled", stalledCandidate()),
		contract.NewSubject("vehicle.Car", carCandidate()),
		contract.NewSubject("vehicle.Backup", carCandidate()),
	)

	selected, err := s.Select(
		context.Background(), src, movable(t),
	)
	require.NoError(t, err)
	assert.Equal(t, "vehicle.Car", selected.Label)
}

func TestSelector_Select_SkipsNonCallableMember(t *testing.T) {
	var rejections []error
	s := NewSelector(
		WithOnReject(func(_ contract.Subject, err error) {
			rejections = append(rejections, err)
		}),
	)
	src := listSource(
		contract.NewSubject("vehicle.Data", dataCandidate()),
		contract.NewSubject("vehicle.Car", carCandidate()),
	)

	selected, err := s.Select(
		context.Background(), src, movable(t),
	)
	require.NoError(t, err)
	assert.Equal(t, "vehicle.Car", selected.Label)

	require.Len(t, rejections, 1)
	assert.Contains(
		t, rejections[0].Error(), "present but not callable",
	)
}

func TestSelector_Select_RejectsNilCandidate(t *testing.T) {
	s := NewSelector()
	src := listSource(
		contract.NewSubject("vehicle.Missing", nil),
		contract.NewSubject("vehicle.Car", carCandidate()),
	)

	selected, err := s.Select(
		context.Background(), src, movable(t),
	)
	require.NoError(t, err)
	assert.Equal(t, "vehicle.Car", selected.Label)
}

func TestSelector_Select_HealthProbeRejects(t *testing.T) {
	var rejected []string
	s := NewSelector(
		WithOnReject(func(subject contract.Subject, err error) {
			rejected = append(rejected, subject.Label)
			assert.Contains(t, err.Error(), "health probe failed")
		}),
	)
	src := NewFuncSource(
		WithCandidatesFunc(func(
			_ context.Context,
		) ([]contract.Subject, error) {
			return []contract.Subject{
				contract.NewSubject("vehicle.Dead", carCandidate()),
				contract.NewSubject("vehicle.Live", carCandidate()),
			}, nil
		}),
		WithHealthFunc(func(
			_ context.Context, subject contract.Subject,
		) error {
			if subject.Label == "vehicle.Dead" {
				return errors.New("no heartbeat")
			}
			return nil
		}),
	)

	selected, err := s.Select(
		context.Background(), src, movable(t),
	)
	require.NoError(t, err)
	assert.Equal(t, "vehicle.Live", selected.Label)
	assert.Equal(t, []string{"vehicle.Dead"}, rejected)
}

func TestSelector_Select_ReleasesRejectedOnly(t *testing.T) {
	var released []string
	s := NewSelector()
	src := NewFuncSource(
		WithCandidatesFunc(func(
			_ context.Context,
		) ([]contract.Subject, error) {
			return []contract.Subject{
				contract.NewSubject("vehicle.Stalled", stalledCandidate()),
				contract.NewSubject("vehicle.Data", dataCandidate()),
				contract.NewSubject("vehicle.Car", carCandidate()),
			}, nil
		}),
		WithReleaseFunc(func(
			_ context.Context, subject contract.Subject,
		) error {
			released = append(released, subject.Label)
			return nil
		}),
	)

	selected, err := s.Select(
		context.Background(), src, movable(t),
	)
	require.NoError(t, err)
	assert.Equal(t, "vehicle.Car", selected.Label)
	assert.Equal(
		t, []string{"vehicle.Stalled", "vehicle.Data"}, released,
	)
}

func TestSelector_Select_StopsProbingAfterWinner(t *testing.T) {
	var probed []string
	src := NewFuncSource(
		WithCandidatesFunc(func(
			_ context.Context,
		) ([]contract.Subject, error) {
			return []contract.Subject{
				contract.NewSubject("vehicle.First", carCandidate()),
				contract.NewSubject("vehicle.Second", carCandidate()),
			}, nil
		}),
		WithHealthFunc(func(
			_ context.Context, subject contract.Subject,
		) error {
			probed = append(probed, subject.Label)
			return nil
		}),
	)

	selected, err := NewSelector().Select(
		context.Background(), src, movable(t),
	)
	require.NoError(t, err)
	assert.Equal(t, "vehicle.First", selected.Label)
	assert.Equal(t, []string{"vehicle.First"}, probed)
}

func TestSelector_Select_NoCandidateSatisfies(t *testing.T) {
	s := NewSelector()
	src := listSource(
		contract.NewSubject("vehicle.Stalled", stalledCandidate()),
		contract.NewSubject("vehicle.Data", dataCandidate()),
	)

	_, err := s.Select(context.Background(), src, movable(t))
	require.Error(t, err)

	ne, ok := AsErrNoCandidate(err)
	require.True(t, ok)
	assert.Equal(t, []contract.Name{"Movable"}, ne.Contracts)
	require.Len(t, ne.Rejections, 2)
	assert.Equal(t, "vehicle.Stalled", ne.Rejections[0].Subject)
	assert.Equal(t, "vehicle.Data", ne.Rejections[1].Subject)

	msg := err.Error()
	assert.Contains(t, msg, "no candidate satisfies [Movable]")
	assert.Contains(t, msg, "vehicle.Stalled")
	assert.Contains(t, msg, "vehicle.Data")
}

func TestSelector_Select_EmptySource(t *testing.T) {
	s := NewSelector()

	_, err := s.Select(
		context.Background(), listSource(), movable(t),
	)
	require.Error(t, err)

	ne, ok := AsErrNoCandidate(err)
	require.True(t, ok)
	assert.Empty(t, ne.Rejections)
	assert.Contains(
		t, err.Error(), "source offered no candidates",
	)
}

func TestSelector_Select_SourceError(t *testing.T) {
	s := NewSelector()
	src := NewFuncSource(
		WithCandidatesFunc(func(
			_ context.Context,
		) ([]contract.Subject, error) {
			return nil, errors.New("discovery unavailable")
		}),
	)

	_, err := s.Select(context.Background(), src, movable(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list candidates")
	assert.Contains(t, err.Error(), "discovery unavailable")
}

func TestSelector_Select_ContextCancelled(t *testing.T) {
	s := NewSelector()
	src := listSource(
		contract.NewSubject("vehicle.Car", carCandidate()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Select(ctx, src, movable(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelector_SelectFirst(t *testing.T) {
	s := NewSelector()

	selected, err := s.SelectFirst(
		context.Background(),
		[]contract.Contract{movable(t)},
		contract.NewSubject("vehicle.Stalled", stalledCandidate()),
		contract.NewSubject("vehicle.Car", carCandidate()),
	)
	require.NoError(t, err)
	assert.Equal(t, "vehicle.Car", selected.Label)
}

func TestSelector_SelectFirst_Empty(t *testing.T) {
	s := NewSelector()

	_, err := s.SelectFirst(
		context.Background(),
		[]contract.Contract{movable(t)},
	)
	require.Error(t, err)
	_, ok := AsErrNoCandidate(err)
	assert.True(t, ok)
}
