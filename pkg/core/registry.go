package core

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrTagExists is returned when registering a tag twice.
	ErrTagExists = stderrors.New("core: tag already registered")
	// ErrInvalidTag is returned for tags that are not lower-case and hyphenated.
	ErrInvalidTag = stderrors.New("core: invalid tag")
	// ErrUnknownTag is returned when creating a host for an unregistered tag.
	ErrUnknownTag = stderrors.New("core: unknown tag")
	// ErrNilFactory is returned when registering without a factory.
	ErrNilFactory = stderrors.New("core: nil component factory")
)

// Registration describes a component available by tag.
type Registration struct {
	Tag         string
	Description string
	Factory     func() Component
}

// Registry maps tags to component factories. Create one per application;
// there is no process-wide registry.
type Registry struct {
	items map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Registration)}
}

// Register adds a component factory under tag. Tags are lower-case, start
// with a letter and contain at least one hyphen, e.g. "star-rating".
func (r *Registry) Register(reg Registration) error {
	if reg.Factory == nil {
		return ErrNilFactory
	}
	tag := strings.TrimSpace(reg.Tag)
	if !isValidTag(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, reg.Tag)
	}
	if _, ok := r.items[tag]; ok {
		return fmt.Errorf("%w: %q", ErrTagExists, tag)
	}
	reg.Tag = tag
	r.items[tag] = reg
	return nil
}

// Lookup returns the registration for tag.
func (r *Registry) Lookup(tag string) (Registration, bool) {
	reg, ok := r.items[tag]
	return reg, ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.items))
	for tag := range r.items {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Create builds a new component for tag and hosts it on owner.
func (r *Registry) Create(owner *Owner, tag string, opts ...HostOption) (*Host, error) {
	reg, ok := r.items[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	return owner.NewHost(reg.Factory(), opts...)
}

func isValidTag(tag string) bool {
	if tag == "" || tag[0] < 'a' || tag[0] > 'z' {
		return false
	}
	hyphen := false
	lastSep := false
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '-'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if isSep && (lastSep || i == len(tag)-1) {
			return false
		}
		hyphen = hyphen || isSep
		lastSep = isSep
	}
	return hyphen
}
