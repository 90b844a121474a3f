package field

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyweb/core"
	"github.com/stretchr/testify/assert"
)

func mustPanicWithInvariant(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("expected invariant violation, got none")
			return
		}
		if !core.IsInvariantViolation(r) {
			t.Errorf("expected invariant violation, is %v", r)
		}
	}()
	f()
}

func TestNewFieldIsDirty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	f := New[int]("width", nil)
	if !f.Dirty() {
		t.Errorf("expected new field to be dirty")
	}
	_, ok := f.Peek()
	assert.False(t, ok)
	f.Set(42)
	assert.False(t, f.Dirty())
	assert.Equal(t, 42, f.Get())
}

func TestStaleReadPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	f := New[int]("width", nil)
	mustPanicWithInvariant(t, func() { f.Get() })
	f.Set(1)
	f.Mark()
	mustPanicWithInvariant(t, func() { f.Get() })
	g := New[int]("height", nil)
	mustPanicWithInvariant(t, func() { f.Read(g) })
}

func TestSetNotifiesDependents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	zoom := New[float64]("zoom", nil, DependsOn())
	width := New[float64]("width", nil, DependsOn(zoom))
	height := New[float64]("height", nil, DependsOn(width))
	zoom.Set(1.0)
	width.Set(100)
	height.Set(20)
	assert.False(t, width.Dirty())
	assert.False(t, height.Dirty())
	//
	zoom.Set(2.0)
	assert.True(t, width.Dirty(), "direct dependent must be dirty")
	assert.False(t, height.Dirty(), "indirect dependent is marked by recomputation")
	assert.False(t, zoom.Dirty())
	width.Set(200)
	assert.True(t, height.Dirty())
	//
	width.Set(200)
	height.Set(40)
	width.Mark()
	width.Set(200)
	assert.False(t, height.Dirty(), "unchanged value must not invalidate dependents")
}

func TestSetEqualValueSuppressesNotification(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	zoom := New[float64]("zoom", nil, DependsOn())
	width := New[float64]("width", nil, DependsOn(zoom))
	zoom.Set(1.0)
	width.Set(100)
	zoom.Set(1.0)
	if width.Dirty() {
		t.Errorf("expected width to stay clean after setting an equal zoom")
	}
	zoom.Mark()
	assert.False(t, width.Dirty())
	zoom.Set(1.0)
	assert.False(t, zoom.Dirty())
	assert.False(t, width.Dirty())
}

func TestReadRecordsDependency(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	a := New[int]("font-size", nil)
	b := New[int]("height", nil)
	a.Set(16)
	assert.Equal(t, 16, a.Read(b))
	assert.True(t, a.HasDependent(b))
	b.Set(20)
	a.Set(18)
	assert.True(t, b.Dirty())
	assert.Equal(t, 1, a.DependentsCount())
	a.Read(b) // no duplicate edge
	assert.Equal(t, 1, a.DependentsCount())
}

func TestReadThroughUndeclaredEdgePanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	zoom := New[float64]("zoom", nil, DependsOn())
	other := New[float64]("x", nil)
	width := New[float64]("width", nil, DependsOn(zoom))
	zoom.Set(1)
	other.Set(0)
	assert.Equal(t, 1.0, zoom.Read(width))
	mustPanicWithInvariant(t, func() { other.Read(width) })
	//
	children := NewSlice[int]("children", nil, Invalidates())
	children.Set([]int{1, 2})
	mustPanicWithInvariant(t, func() { children.Read(other) })
}

func TestFrozenDependencies(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	zoom := New[float64]("zoom", nil, DependsOn())
	width := New[float64]("width", nil, DependsOn(zoom))
	mustPanicWithInvariant(t, func() { width.SetDependencies(zoom) })
	//
	ascent := New[float64]("ascent", nil)
	ascent.SetDependencies(zoom)
	mustPanicWithInvariant(t, func() { ascent.SetDependencies(width) })
	//
	h1 := New[float64]("a", nil, DependsOn())
	h2 := New[float64]("b", nil, DependsOn())
	height := New[float64](Height, nil)
	height.SetDependencies(h1)
	height.SetDependencies(h1, h2) // height may re-declare
	h1.Set(1)
	h2.Set(2)
	height.Set(3)
	h2.Set(5)
	assert.True(t, height.Dirty())
}

func TestSliceFieldEquality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	children := NewSlice[string]("children", nil, Invalidates())
	height := New[int](Height, nil)
	height.SetDependencies(children)
	children.Set([]string{"a", "b"})
	height.Set(2)
	children.Set([]string{"a", "b"})
	assert.False(t, height.Dirty())
	children.Set([]string{"a", "c"})
	assert.True(t, height.Dirty())
}

func TestCopy(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	src := New[int]("height", nil, DependsOn())
	dst := New[int]("height", nil)
	src.Set(7)
	dst.Copy(src)
	assert.Equal(t, 7, dst.Get())
	assert.True(t, src.HasDependent(dst))
	src.Set(8)
	assert.True(t, dst.Dirty())
}

func TestAncestorDirtyBits(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	root := NewScope("root", nil)
	mid := NewScope("mid", root)
	inner := NewScope("inner", mid)
	leaf := NewScope("leaf", inner)
	for _, s := range []*Scope{root, mid, inner, leaf} {
		assert.True(t, s.HasDirtyDescendants(), "scopes start dirty")
		s.ClearDirtyDescendants()
	}
	f := New[int]("x", inner, DependsOn())
	f.Set(0) // notify walks up from inner
	for _, s := range []*Scope{root, mid, inner} {
		assert.True(t, s.HasDirtyDescendants(), "expected %s to be flagged", s)
		s.ClearDirtyDescendants()
	}
	assert.False(t, leaf.HasDirtyDescendants())
	// short-circuit at first flagged ancestor
	mid.MarkDirtyDescendants()
	root.ClearDirtyDescendants()
	f.Mark()
	assert.True(t, inner.HasDirtyDescendants())
	assert.True(t, mid.HasDirtyDescendants())
	if root.HasDirtyDescendants() {
		t.Errorf("expected walk to stop at mid, but root is flagged")
	}
}

func TestNilScopeIsSafe(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.field")
	defer teardown()
	//
	var s *Scope
	assert.False(t, s.HasDirtyDescendants())
	s.MarkDirtyDescendants()
	s.ClearDirtyDescendants()
	assert.Nil(t, s.Parent())
	assert.Equal(t, "<no scope>", s.String())
}
