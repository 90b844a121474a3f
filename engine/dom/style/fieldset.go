package style

import (
	"github.com/npillmayer/tyweb/engine/field"
)

// FieldSet holds the computed style of a content node, one field per
// property of the registry.
//
// Inherited properties depend on the corresponding field of the parent's
// field set. All other fields are created without dependencies. Field sets
// are created once per node and never rebuilt.
type FieldSet struct {
	fields []*field.Field[string]
}

// NewFieldSet creates the style fields for a node. parent is the field set
// of the node's parent, or nil for the root of a content tree.
func NewFieldSet(parent *FieldSet) *FieldSet {
	fs := &FieldSet{fields: make([]*field.Field[string], len(propertyTable))}
	for i, pd := range propertyTable {
		if pd.Inherited && parent != nil {
			fs.fields[i] = field.New[string](pd.Name, nil, field.DependsOn(parent.fields[i]))
		} else {
			fs.fields[i] = field.New[string](pd.Name, nil, field.DependsOn())
		}
	}
	return fs
}

// Field returns the field for a property, or nil for unknown properties.
func (fs *FieldSet) Field(name string) *field.Field[string] {
	pd, ok := Lookup(name)
	if !ok {
		return nil
	}
	return fs.fields[pd.index]
}

// Get returns the settled value of a property. It panics with an invariant
// violation if the property is stale.
func (fs *FieldSet) Get(name string) Property {
	f := fs.Field(name)
	if f == nil {
		return ""
	}
	return Property(f.Get())
}

// Read returns the settled value of a property on behalf of requester,
// recording the dependency.
func (fs *FieldSet) Read(name string, requester field.Cell) Property {
	f := fs.Field(name)
	if f == nil {
		return ""
	}
	return Property(f.Read(requester))
}

// Dirty is true if any property needs to be recomputed.
func (fs *FieldSet) Dirty() bool {
	for _, f := range fs.fields {
		if f.Dirty() {
			return true
		}
	}
	return false
}

// MarkAll flags every property of the set as stale.
func (fs *FieldSet) MarkAll() {
	for _, f := range fs.fields {
		f.Mark()
	}
}

// Values returns the last values set, regardless of their dirty state.
// Properties which have never been set are missing from the result.
func (fs *FieldSet) Values() map[string]string {
	values := make(map[string]string, len(fs.fields))
	for _, f := range fs.fields {
		if v, ok := f.Peek(); ok {
			values[f.Name()] = v
		}
	}
	return values
}
