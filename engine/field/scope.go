package field

// Scope is the dirty-tracking part of a node owning fields.
//
// A scope is flagged as having dirty descendants whenever a field below it is
// marked dirty. Owners clear the flag after they have recomputed their subtree.
type Scope struct {
	parent           *Scope
	label            string
	dirtyDescendants bool
}

// NewScope creates a scope below a parent scope, which may be nil for the root
// of a tree. New scopes start out with dirty descendants.
func NewScope(label string, parent *Scope) *Scope {
	return &Scope{
		parent:           parent,
		label:            label,
		dirtyDescendants: true,
	}
}

// Parent returns the enclosing scope, or nil.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// HasDirtyDescendants is true if any field below s has been marked dirty since
// the last call to ClearDirtyDescendants.
func (s *Scope) HasDirtyDescendants() bool {
	return s != nil && s.dirtyDescendants
}

// ClearDirtyDescendants resets the dirty-descendants flag of s.
// Ancestors are not affected.
func (s *Scope) ClearDirtyDescendants() {
	if s != nil {
		s.dirtyDescendants = false
	}
}

// MarkDirtyDescendants flags s and its ancestors as having dirty descendants.
// The walk stops at the first scope which has already been flagged.
func (s *Scope) MarkDirtyDescendants() {
	for p := s; p != nil && !p.dirtyDescendants; p = p.parent {
		p.dirtyDescendants = true
	}
}

func (s *Scope) String() string {
	if s == nil {
		return "<no scope>"
	}
	return s.label
}
