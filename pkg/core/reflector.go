package core

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"

	"github.com/go-drift/reactive/pkg/attr"
	"github.com/go-drift/reactive/pkg/errors"
)

// syncToExternal writes every reflecting property that changed in cs to the
// attribute source. A value the converter reports absent removes the attribute.
func (h *Host) syncToExternal(cs *ChangeSet) {
	if h.source == nil {
		return
	}
	for _, name := range cs.Names() {
		p := h.byName[name]
		if p == nil || !p.reflects() || !cs.HasChanged(name) {
			continue
		}
		raw, present := p.conv.ToAttribute(p.value)
		var err error
		if present {
			err = h.source.Set(p.attribute, raw)
		} else {
			err = h.source.Remove(p.attribute)
		}
		if err != nil {
			errors.Report(&errors.ReactiveError{
				Op:   "core.Host.syncToExternal",
				Kind: errors.KindReflection,
				Host: h.id,
				Err:  fmt.Errorf("attribute %s: %w", p.attribute, err),
			})
		}
	}
}

// SyncFromExternal applies an externally edited attribute to the property
// it maps to. The raw value is converted and written through Set, so an
// equal value produces no write. A conversion failure is reported as a
// warning and returned as an *errors.ReflectionError; the property keeps
// its value.
func (h *Host) SyncFromExternal(name, raw string, present bool) error {
	if h.disposed {
		return ErrDisposed
	}
	p, ok := h.byAttr[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	value, err := p.conv.FromAttribute(raw, present)
	if err == nil && !p.accepts(value) {
		err = fmt.Errorf("%w: %q holds %v, got %T", ErrPropertyType, p.name, p.typ, value)
	}
	if err != nil {
		rerr := &errors.ReflectionError{
			Host:      h.id,
			Attribute: name,
			Property:  p.name,
			Raw:       raw,
			Err:       err,
		}
		errors.ReportReflectionError(rerr)
		capitan.Emit(context.Background(), SignalReflectionMismatch,
			KeyHost.Field(h.id),
			KeyAttribute.Field(name),
			KeyError.Field(err.Error()),
		)
		return rerr
	}
	return h.Set(p.name, value)
}

// syncAllFromSource seeds properties from attributes already present in
// the source.
func (h *Host) syncAllFromSource() {
	if h.source == nil {
		return
	}
	for _, p := range h.props {
		if p.attribute == "" {
			continue
		}
		if raw, ok := h.source.Get(p.attribute); ok {
			_ = h.SyncFromExternal(p.attribute, raw, true)
		}
	}
}

// WatchAttributes applies changes reported by w until ctx is done. Each
// change is handed to the scheduler and applied on a later turn, so it
// enters the normal write path on the loop goroutine.
func (h *Host) WatchAttributes(ctx context.Context, w attr.Watcher) error {
	changes, err := w.Watch(ctx)
	if err != nil {
		return &errors.ReactiveError{
			Op:   "core.Host.WatchAttributes",
			Kind: errors.KindReflection,
			Host: h.id,
			Err:  err,
		}
	}
	go func() {
		for change := range changes {
			h.owner.sched.Schedule(func() {
				if _, mapped := h.byAttr[change.Name]; !mapped || h.disposed {
					return
				}
				_ = h.SyncFromExternal(change.Name, change.Value, change.Present)
			})
		}
	}()
	return nil
}
