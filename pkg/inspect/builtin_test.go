package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type tank struct{}

func (tank) MoveTo(x, y int) {}

func (*tank) Stop() {}

type handlerSet struct {
	OnMove func(x, y int)
	Speed  int

	hidden func()
}

type embeddedHandlers struct {
	handlerSet
	Name string
}

func TestResolveMethod_ValueReceiver(t *testing.T) {
	ins := NewInspector()

	lookup := ins.Resolve(tank{}, "MoveTo")
	assert.True(t, lookup.Found)
	assert.True(t, lookup.Callable)
	assert.Equal(t, KindMethod, lookup.Kind)
	assert.Equal(t, "func(int, int)", lookup.Detail)
}

func TestResolveMethod_PointerReceiver(t *testing.T) {
	ins := NewInspector()

	// *tank exposes both methods; tank by value only MoveTo.
	assert.True(t, ins.Resolve(&tank{}, "Stop").Callable)
	assert.True(t, ins.Resolve(&tank{}, "MoveTo").Callable)
	assert.False(t, ins.Resolve(tank{}, "Stop").Found)
}

func TestResolveMethod_CaseSensitive(t *testing.T) {
	ins := NewInspector()

	assert.True(t, ins.Resolve(tank{}, "MoveTo").Found)
	assert.False(t, ins.Resolve(tank{}, "moveto").Found)
	assert.False(t, ins.Resolve(tank{}, "moveTo").Found)
}

func TestResolveMapEntry_FuncValue(t *testing.T) {
	ins := NewInspector()
	candidate := map[string]any{
		"moveTo": func(x, y int) {},
		"stop":   func() {},
	}

	lookup := ins.Resolve(candidate, "moveTo")
	assert.True(t, lookup.Found)
	assert.True(t, lookup.Callable)
	assert.Equal(t, KindMapEntry, lookup.Kind)
}

func TestResolveMapEntry_NonFuncValue(t *testing.T) {
	ins := NewInspector()
	candidate := map[string]any{"moveTo": 5}

	lookup := ins.Resolve(candidate, "moveTo")
	assert.True(t, lookup.Found)
	assert.False(t, lookup.Callable)
	assert.Equal(t, KindMapEntry, lookup.Kind)
	assert.Equal(t, "int", lookup.Detail)
}

func TestResolveMapEntry_MissingKey(t *testing.T) {
	ins := NewInspector()
	candidate := map[string]any{"moveTo": func() {}}

	lookup := ins.Resolve(candidate, "stop")
	assert.False(t, lookup.Found)
}

func TestResolveMapEntry_TypedFuncValues(t *testing.T) {
	ins := NewInspector()
	candidate := map[string]func(){
		"stop": func() {},
	}

	lookup := ins.Resolve(candidate, "stop")
	assert.True(t, lookup.Found)
	assert.True(t, lookup.Callable)
}

func TestResolveMapEntry_NilEntry(t *testing.T) {
	ins := NewInspector()
	candidate := map[string]any{"stop": nil}

	lookup := ins.Resolve(candidate, "stop")
	assert.True(t, lookup.Found)
	assert.False(t, lookup.Callable)
	assert.Equal(t, "nil", lookup.Detail)
}

func TestResolveMapEntry_NilFuncEntry(t *testing.T) {
	ins := NewInspector()
	var f func()
	candidate := map[string]func(){"stop": f}

	lookup := ins.Resolve(candidate, "stop")
	assert.True(t, lookup.Found)
	assert.False(t, lookup.Callable)
	assert.Equal(t, "nil func", lookup.Detail)
}

func TestResolveMapEntry_NamedKeyType(t *testing.T) {
	type opName string
	ins := NewInspector()
	candidate := map[opName]any{"moveTo": func() {}}

	lookup := ins.Resolve(candidate, "moveTo")
	assert.True(t, lookup.Found)
	assert.True(t, lookup.Callable)
}

func TestResolveMapEntry_NonStringKeys(t *testing.T) {
	ins := NewInspector()
	candidate := map[int]any{1: func() {}}

	lookup := ins.Resolve(candidate, "moveTo")
	assert.False(t, lookup.Found)
}

func TestResolveMapEntry_NilMap(t *testing.T) {
	ins := NewInspector()
	var candidate map[string]any

	lookup := ins.Resolve(candidate, "moveTo")
	assert.False(t, lookup.Found)
}

func TestResolveFuncField_FuncField(t *testing.T) {
	ins := NewInspector()
	candidate := handlerSet{OnMove: func(x, y int) {}}

	lookup := ins.Resolve(candidate, "OnMove")
	assert.True(t, lookup.Found)
	assert.True(t, lookup.Callable)
	assert.Equal(t, KindField, lookup.Kind)
}

func TestResolveFuncField_PointerToStruct(t *testing.T) {
	ins := NewInspector()
	candidate := &handlerSet{OnMove: func(x, y int) {}}

	lookup := ins.Resolve(candidate, "OnMove")
	assert.True(t, lookup.Found)
	assert.True(t, lookup.Callable)
}

func TestResolveFuncField_NilFuncField(t *testing.T) {
	ins := NewInspector()
	candidate := handlerSet{}

	lookup := ins.Resolve(candidate, "OnMove")
	assert.True(t, lookup.Found)
	assert.False(t, lookup.Callable)
	assert.Equal(t, "nil func", lookup.Detail)
}

func TestResolveFuncField_NonFuncField(t *testing.T) {
	ins := NewInspector()
	candidate := handlerSet{Speed: 3}

	lookup := ins.Resolve(candidate, "Speed")
	assert.True(t, lookup.Found)
	assert.False(t, lookup.Callable)
	assert.Equal(t, "int", lookup.Detail)
}

func TestResolveFuncField_UnexportedField(t *testing.T) {
	ins := NewInspector()
	candidate := handlerSet{hidden: func() {}}

	lookup := ins.Resolve(candidate, "hidden")
	assert.False(t, lookup.Found)
}

func TestResolveFuncField_PromotedField(t *testing.T) {
	ins := NewInspector()
	candidate := embeddedHandlers{
		handlerSet: handlerSet{OnMove: func(x, y int) {}},
	}

	lookup := ins.Resolve(candidate, "OnMove")
	assert.True(t, lookup.Found)
	assert.True(t, lookup.Callable)
}

func TestResolveFuncField_NilStructPointer(t *testing.T) {
	ins := NewInspector()
	var candidate *handlerSet

	lookup := ins.Resolve(candidate, "OnMove")
	assert.False(t, lookup.Found)
}

func TestResolveFuncField_InterfaceFieldHoldingFunc(t *testing.T) {
	type bag struct {
		Op any
	}
	ins := NewInspector()

	lookup := ins.Resolve(bag{Op: func() {}}, "Op")
	assert.True(t, lookup.Found)
	assert.True(t, lookup.Callable)

	lookup = ins.Resolve(bag{Op: "not a func"}, "Op")
	assert.True(t, lookup.Found)
	assert.False(t, lookup.Callable)
	assert.Equal(t, "string", lookup.Detail)
}
