package core

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/reactive/pkg/attr"
)

var (
	// ErrUnknownProperty is returned when reading or writing an undeclared property.
	ErrUnknownProperty = stderrors.New("core: unknown property")
	// ErrDuplicateProperty is returned when a property name is declared twice.
	ErrDuplicateProperty = stderrors.New("core: property already declared")
	// ErrDuplicateAttribute is returned when two properties map to the same attribute.
	ErrDuplicateAttribute = stderrors.New("core: attribute already mapped")
	// ErrNoConverter is returned when a reflecting property has no converter.
	ErrNoConverter = stderrors.New("core: no attribute converter for property")
	// ErrPropertyType is returned when a write does not match the declared type.
	ErrPropertyType = stderrors.New("core: value does not match property type")
	// ErrUnknownAttribute is returned when an external attribute maps to no property.
	ErrUnknownAttribute = stderrors.New("core: unknown attribute")
)

// PropertyOptions declares how a property participates in updates and reflection.
type PropertyOptions struct {
	// Attribute is the external attribute name. Defaults to the lower-cased
	// property name for properties that have a converter.
	Attribute string
	// Reflect writes the property to the attribute source after each pass
	// in which it changed.
	Reflect bool
	// State marks internal state that never maps to an attribute.
	State bool
	// Converter translates to and from the attribute string. Defaults to
	// attr.For(initial).
	Converter attr.Converter
	// Equal decides whether a write is a change. Defaults to DefaultEqual.
	Equal Equality
	// Untracked properties store writes without recording changes or
	// requesting updates.
	Untracked bool
}

type property struct {
	name      string
	value     any
	typ       reflect.Type
	attribute string
	reflect   bool
	untracked bool
	conv      attr.Converter
	equal     Equality

	// restored is the value held when initialization finished, after the
	// attribute source was applied.
	restored    any
	hasRestored bool
}

func newProperty(name string, initial any, opts PropertyOptions) (*property, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownProperty)
	}
	p := &property{
		name:      name,
		value:     initial,
		typ:       reflect.TypeOf(initial),
		reflect:   opts.Reflect,
		untracked: opts.Untracked,
		conv:      opts.Converter,
		equal:     opts.Equal,
	}
	if p.equal == nil {
		p.equal = DefaultEqual
	}
	if opts.State {
		if opts.Reflect {
			return nil, fmt.Errorf("property %q: state cannot reflect", name)
		}
		return p, nil
	}
	if p.conv == nil {
		p.conv = attr.For(initial)
	}
	if p.conv == nil {
		if opts.Reflect || opts.Attribute != "" {
			return nil, fmt.Errorf("%w %q (%T)", ErrNoConverter, name, initial)
		}
		return p, nil
	}
	p.attribute = opts.Attribute
	if p.attribute == "" {
		p.attribute = strings.ToLower(name)
	}
	return p, nil
}

func (p *property) accepts(v any) bool {
	if p.typ == nil {
		return true
	}
	if v == nil {
		switch p.typ.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(v).AssignableTo(p.typ)
}

func (p *property) reflects() bool {
	return p.reflect && p.attribute != "" && p.conv != nil
}

// DefaultEqual compares values by identity for reference kinds (pointers,
// maps, slices, channels) and by value otherwise. Functions are never equal.
func DefaultEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Func:
		return false
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Prop is a typed handle to a declared property.
//
// Prop is NOT thread-safe. It must only be accessed from the loop goroutine.
//
// Example:
//
//	func (c *counter) Init(h *core.Host) {
//	    c.count = core.NewProp(h, "count", 0, core.PropertyOptions{Reflect: true})
//	}
//
//	func (c *counter) Increment() {
//	    c.count.Update(func(n int) int { return n + 1 })
//	}
type Prop[T any] struct {
	host *Host
	name string
}

// NewProp declares a property on h and returns a typed handle to it.
// Call it from Component.Init; declaration errors are returned by
// Owner.NewHost.
func NewProp[T any](h *Host, name string, initial T, opts PropertyOptions) *Prop[T] {
	if err := h.Declare(name, initial, opts); err != nil {
		h.initErrs = append(h.initErrs, err)
	}
	return &Prop[T]{host: h, name: name}
}

// Name returns the property name.
func (p *Prop[T]) Name() string {
	return p.name
}

// Get returns the current value.
func (p *Prop[T]) Get() T {
	v, _ := p.host.Get(p.name)
	t, _ := v.(T)
	return t
}

// Set writes the value. Safe to call after disposal (becomes a no-op).
func (p *Prop[T]) Set(value T) {
	_ = p.host.Set(p.name, value)
}

// Update applies a transformation to the current value and writes the result.
func (p *Prop[T]) Update(transform func(T) T) {
	p.Set(transform(p.Get()))
}

// Changed reports whether the property changed in cs.
func (p *Prop[T]) Changed(cs *ChangeSet) bool {
	return cs.HasChanged(p.name)
}

// Restored returns the value the property held when the host finished
// initializing: the declared initial value, or the one read from the
// attribute source. ok is false for properties declared later.
func (p *Prop[T]) Restored() (T, bool) {
	v, ok := p.host.Restored(p.name)
	t, _ := v.(T)
	return t, ok
}

// Old returns the property's value before this cycle's first write.
func (p *Prop[T]) Old(cs *ChangeSet) (T, bool) {
	return OldValue[T](cs, p.name)
}
