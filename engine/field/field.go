package field

import (
	"fmt"
	"slices"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/npillmayer/tyweb/core"
)

// Height is the name of the only field which may re-declare its dependencies
// after they have been frozen. Containers of variable-length child lists
// replace the dependencies of their height whenever their children change.
const Height = "height"

// Cell is the type-independent part of a field. Dependencies between fields of
// different value types are expressed in terms of cells.
type Cell interface {
	cell() *base
}

// base holds the dependency bookkeeping shared by all fields.
type base struct {
	name                string
	parent              *Scope
	dirty               bool
	dependents          *linkedhashset.Set // of *base, in insertion order
	frozenDeps          bool
	frozenInvalidations bool
}

func (b *base) cell() *base {
	return b
}

// Option configures a field at construction time.
type Option func(*base)

// DependsOn freezes the dependencies of a field to deps. Calling DependsOn
// without arguments declares a field without any dependencies, e.g. an input
// field set from outside of the computation.
func DependsOn(deps ...Cell) Option {
	return func(b *base) {
		b.frozenDeps = true
		for _, d := range deps {
			d.cell().dependents.Add(b)
		}
	}
}

// Invalidates freezes the set of dependents of a field to fields. Reads with
// a requester not contained in this set are invariant violations.
func Invalidates(fields ...Cell) Option {
	return func(b *base) {
		b.frozenInvalidations = true
		for _, f := range fields {
			b.dependents.Add(f.cell())
		}
	}
}

func (b *base) init(name string, parent *Scope, opts []Option) {
	b.name = name
	b.parent = parent
	b.dirty = true
	b.dependents = linkedhashset.New()
	for _, opt := range opts {
		opt(b)
	}
}

// Name returns the name of a field, e.g. "width" or "font-size".
func (b *base) Name() string {
	return b.name
}

// Dirty is true if the field's value is stale.
func (b *base) Dirty() bool {
	return b.dirty
}

// Scope returns the scope which is flagged when the field becomes dirty.
func (b *base) Scope() *Scope {
	return b.parent
}

// Mark flags the field as stale. Ancestor scopes are flagged as having
// dirty descendants. Dependents are marked only once a recomputation
// changes the value (see Set). Marking a dirty field does nothing.
func (b *base) Mark() {
	if b.dirty {
		return
	}
	b.dirty = true
	b.parent.MarkDirtyDescendants()
}

// Notify marks every dependent of the field dirty. The field itself keeps its
// dirty state.
func (b *base) Notify() {
	b.dependents.Each(func(_ int, v interface{}) {
		v.(*base).Mark()
	})
	b.parent.MarkDirtyDescendants()
}

// SetDependencies declares the dependencies of a field with open dependencies
// and freezes them. Fields named Height are allowed to re-declare.
func (b *base) SetDependencies(deps ...Cell) {
	if b.frozenDeps && b.name != Height {
		core.Invariant("dependencies of field %q are frozen", b.name)
	}
	for _, d := range deps {
		d.cell().dependents.Add(b)
	}
	b.frozenDeps = true
}

// HasDependent is true if dependent will be invalidated by changes of b.
func (b *base) HasDependent(dependent Cell) bool {
	return b.dependents.Contains(dependent.cell())
}

// DependentsCount returns the number of fields depending on b.
func (b *base) DependentsCount() int {
	return b.dependents.Size()
}

// link records the edge b → requester, honouring frozen ends.
func (b *base) link(requester *base) {
	if requester.frozenDeps || b.frozenInvalidations {
		if !b.dependents.Contains(requester) {
			core.Invariant("field %q read by %q without declared dependency", b.name, requester.name)
		}
		return
	}
	b.dependents.Add(requester)
}

// --- Fields ----------------------------------------------------------------

// Field is a dependency-tracked value of type T.
type Field[T any] struct {
	base
	value T
	isSet bool
	equal func(T, T) bool
}

// New creates a field for comparable values. New fields are dirty.
func New[T comparable](name string, parent *Scope, opts ...Option) *Field[T] {
	return NewFunc(name, parent, func(a, b T) bool { return a == b }, opts...)
}

// NewSlice creates a field holding a slice. Slices are considered equal if they
// hold equal elements in identical order.
func NewSlice[E comparable](name string, parent *Scope, opts ...Option) *Field[[]E] {
	return NewFunc(name, parent, slices.Equal[[]E], opts...)
}

// NewFunc creates a field with a custom equality predicate.
func NewFunc[T any](name string, parent *Scope, equal func(T, T) bool, opts ...Option) *Field[T] {
	f := &Field[T]{equal: equal}
	f.base.init(name, parent, opts)
	return f
}

// Set stores a new value and clears the dirty flag. If the value differs
// from the previous one, all dependents are marked dirty.
func (f *Field[T]) Set(value T) {
	if !f.isSet || !f.equal(f.value, value) {
		f.Notify()
	}
	f.value = value
	f.isSet = true
	f.dirty = false
}

// Get returns the value of a clean field. Reading a dirty field is an
// invariant violation.
func (f *Field[T]) Get() T {
	if f.dirty {
		core.Invariant("read of dirty field %q", f.name)
	}
	return f.value
}

// Read returns the value of a clean field on behalf of requester, recording
// that requester depends on f.
func (f *Field[T]) Read(requester Cell) T {
	f.link(requester.cell())
	return f.Get()
}

// Copy sets f to the value of src, with f depending on src.
func (f *Field[T]) Copy(src *Field[T]) {
	f.Set(src.Read(f))
}

// Peek returns the last value set, regardless of the dirty flag.
// The flag is false if the field has never been set.
func (f *Field[T]) Peek() (T, bool) {
	return f.value, f.isSet
}

func (f *Field[T]) String() string {
	if f.dirty {
		return fmt.Sprintf("%s=<dirty>", f.name)
	}
	return fmt.Sprintf("%s=%v", f.name, f.value)
}
