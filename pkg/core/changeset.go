package core

// Equality reports whether two property values are equal.
type Equality func(a, b any) bool

type change struct {
	old   any
	new   any
	equal Equality
}

// ChangeSet records which properties changed since the last update pass,
// with the value each had before its first write in the cycle and its
// latest value. Intermediate writes are coalesced.
//
// A nil *ChangeSet is empty.
type ChangeSet struct {
	order   []string
	entries map[string]*change
}

// NewChangeSet returns an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{entries: make(map[string]*change)}
}

// Record notes a write of newValue to name. If name is already present only
// its new value is replaced; the original old value is kept.
func (c *ChangeSet) Record(name string, oldValue, newValue any, equal Equality) {
	if c.entries == nil {
		c.entries = make(map[string]*change)
	}
	if e, ok := c.entries[name]; ok {
		e.new = newValue
		return
	}
	if equal == nil {
		equal = DefaultEqual
	}
	c.entries[name] = &change{old: oldValue, new: newValue, equal: equal}
	c.order = append(c.order, name)
}

// Has reports whether name was written this cycle, even if it ended up
// back at its old value.
func (c *ChangeSet) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.entries[name]
	return ok
}

// HasChanged reports whether name was written and its new value differs
// from its old value under the property's equality.
func (c *ChangeSet) HasChanged(name string) bool {
	if c == nil {
		return false
	}
	e, ok := c.entries[name]
	if !ok {
		return false
	}
	return !e.equal(e.old, e.new)
}

// Old returns the value name had before its first write this cycle.
func (c *ChangeSet) Old(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	e, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return e.old, true
}

// New returns the latest value written to name this cycle.
func (c *ChangeSet) New(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	e, ok := c.entries[name]
	if !ok {
		return nil, false
	}
	return e.new, true
}

// Names returns the recorded property names in first-write order.
func (c *ChangeSet) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Len returns the number of recorded properties.
func (c *ChangeSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// DrainAndClear returns the accumulated changes and resets c to empty.
func (c *ChangeSet) DrainAndClear() *ChangeSet {
	drained := &ChangeSet{order: c.order, entries: c.entries}
	if drained.entries == nil {
		drained.entries = make(map[string]*change)
	}
	c.order = nil
	c.entries = make(map[string]*change)
	return drained
}

// merge folds later into c: for properties present in both, c keeps its old
// value and takes later's new value.
func (c *ChangeSet) merge(later *ChangeSet) {
	if later == nil {
		return
	}
	for _, name := range later.order {
		e := later.entries[name]
		c.Record(name, e.old, e.new, e.equal)
	}
}

// OldValue returns the typed old value of name. The zero value is returned
// when name is absent or its old value is not a T (e.g. before the first pass).
func OldValue[T any](c *ChangeSet, name string) (T, bool) {
	v, ok := c.Old(name)
	t, _ := v.(T)
	return t, ok
}

// NewValue returns the typed new value of name.
func NewValue[T any](c *ChangeSet, name string) (T, bool) {
	v, ok := c.New(name)
	t, _ := v.(T)
	return t, ok
}
