package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	c, err := New("Movable", []string{"moveTo", "stop"})
	require.NoError(t, err)

	assert.Equal(t, Name("Movable"), c.Name())
	assert.Equal(t, []string{"moveTo", "stop"}, c.Operations())
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Valid())
}

func TestNew_BlankName(t *testing.T) {
	_, err := New("", []string{"moveTo"})
	require.Error(t, err)

	de, ok := AsDefinitionError(err)
	require.True(t, ok)
	assert.Equal(t, "name", de.Field)
	assert.Equal(t, -1, de.Index)
}

func TestNew_WhitespaceName(t *testing.T) {
	_, err := New("   ", []string{"moveTo"})
	require.Error(t, err)

	_, ok := AsDefinitionError(err)
	assert.True(t, ok)
}

func TestNew_EmptyOperations(t *testing.T) {
	_, err := New("Movable", []string{})
	require.Error(t, err)

	de, ok := AsDefinitionError(err)
	require.True(t, ok)
	assert.Equal(t, Name("Movable"), de.Contract)
	assert.Equal(t, "operations", de.Field)
}

func TestNew_NilOperations(t *testing.T) {
	_, err := New("Movable", nil)
	require.Error(t, err)

	_, ok := AsDefinitionError(err)
	assert.True(t, ok)
}

func TestNew_BlankOperation(t *testing.T) {
	_, err := New("Movable", []string{"moveTo", "  "})
	require.Error(t, err)

	de, ok := AsDefinitionError(err)
	require.True(t, ok)
	assert.Equal(t, "operations", de.Field)
	assert.Equal(t, 1, de.Index)
}

func TestNew_DuplicateOperation(t *testing.T) {
	_, err := New("Broken", []string{"a", "a"})
	require.Error(t, err)

	de, ok := AsDefinitionError(err)
	require.True(t, ok)
	assert.Equal(t, Name("Broken"), de.Contract)
	assert.Equal(t, 1, de.Index)
	assert.Contains(t, de.Error(), "duplicate")
}

func TestNew_CaseSensitiveNames(t *testing.T) {
	c, err := New("Mixed", []string{"moveTo", "moveto"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Requires("moveTo"))
	assert.True(t, c.Requires("moveto"))
	assert.False(t, c.Requires("MOVETO"))
}

func TestNew_WithDescription(t *testing.T) {
	c, err := New(
		"Movable",
		[]string{"moveTo", "stop"},
		WithDescription("objects that can be repositioned"),
	)
	require.NoError(t, err)
	assert.Equal(t, "objects that can be repositioned", c.Description())
}

func TestNew_WithEmbedded(t *testing.T) {
	base := MustNew("Stoppable", []string{"stop"})

	c, err := New(
		"Movable",
		[]string{"moveTo"},
		WithEmbedded(base),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"stop", "moveTo"}, c.Operations())
	assert.True(t, c.Requires("stop"))
	assert.True(t, c.Requires("moveTo"))
}

func TestNew_WithEmbedded_OverlapCollapses(t *testing.T) {
	base := MustNew("Stoppable", []string{"stop", "pause"})

	c, err := New(
		"Movable",
		[]string{"moveTo", "stop"},
		WithEmbedded(base),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"stop", "pause", "moveTo"}, c.Operations())
}

func TestNew_WithEmbedded_InvalidContract(t *testing.T) {
	var zero Contract

	_, err := New("Movable", []string{"moveTo"}, WithEmbedded(zero))
	require.Error(t, err)

	de, ok := AsDefinitionError(err)
	require.True(t, ok)
	assert.Equal(t, "embeds", de.Field)
	assert.Equal(t, 0, de.Index)
}

func TestNew_OnlyEmbedded(t *testing.T) {
	base := MustNew("Stoppable", []string{"stop"})

	c, err := New("Alias", nil, WithEmbedded(base))
	require.NoError(t, err)
	assert.Equal(t, []string{"stop"}, c.Operations())
}

func TestMustNew_Valid(t *testing.T) {
	c := MustNew("Movable", []string{"moveTo", "stop"})
	assert.True(t, c.Valid())
}

func TestMustNew_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustNew("Broken", nil)
	})
}

func TestExtend(t *testing.T) {
	base := MustNew("Movable", []string{"moveTo", "stop"})

	ext, err := Extend(base, "Steerable", []string{"turn"})
	require.NoError(t, err)

	assert.Equal(t, Name("Steerable"), ext.Name())
	assert.Equal(t, []string{"moveTo", "stop", "turn"}, ext.Operations())
}

func TestExtend_RestatingBaseOperation(t *testing.T) {
	base := MustNew("Movable", []string{"moveTo", "stop"})

	ext, err := Extend(base, "Steerable", []string{"turn", "stop"})
	require.NoError(t, err)
	assert.Equal(t, []string{"moveTo", "stop", "turn"}, ext.Operations())
}

func TestContract_Operations_ReturnsCopy(t *testing.T) {
	c := MustNew("Movable", []string{"moveTo", "stop"})

	ops := c.Operations()
	ops[0] = "mutated"

	assert.Equal(t, []string{"moveTo", "stop"}, c.Operations())
}

func TestContract_Requires(t *testing.T) {
	c := MustNew("Movable", []string{"moveTo", "stop"})

	assert.True(t, c.Requires("moveTo"))
	assert.True(t, c.Requires("stop"))
	assert.False(t, c.Requires("turn"))
	assert.False(t, c.Requires(""))
}

func TestContract_ZeroValueInvalid(t *testing.T) {
	var c Contract
	assert.False(t, c.Valid())
	assert.Equal(t, 0, c.Len())
}

func TestContract_String(t *testing.T) {
	c := MustNew("Movable", []string{"moveTo", "stop"})
	assert.Equal(t, "Movable[moveTo, stop]", c.String())
}

func TestContract_OrderPreserved(t *testing.T) {
	ops := []string{"zeta", "alpha", "mid", "beta"}
	c := MustNew("Ordered", ops)
	assert.Equal(t, ops, c.Operations())
}
