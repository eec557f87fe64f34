package components

import (
	"fmt"

	"github.com/go-drift/reactive/pkg/attr"
	"github.com/go-drift/reactive/pkg/core"
	"github.com/go-drift/reactive/pkg/reducer"
)

// RatingTag is the registration tag for Rating.
const RatingTag = "rating-element"

// Rating is a thumbs up/down widget. Both vote and rating reflect to
// attributes. Changing the vote adjusts the rating before the render that
// shows it.
type Rating struct {
	core.ComponentBase
	host   *core.Host
	vote   *core.Prop[reducer.Vote]
	rating *core.Prop[int]
}

func (r *Rating) Init(h *core.Host) {
	r.host = h
	r.rating = core.NewProp(h, "rating", 0, core.PropertyOptions{Reflect: true})
	r.vote = core.NewProp(h, "vote", reducer.VoteUnset, core.PropertyOptions{
		Reflect:   true,
		Converter: attr.Enum(reducer.Votes...),
	})
}

// WillUpdate applies the vote delta. On the first pass the baseline is the
// vote restored from the attribute source, so a restored vote leaves the
// rating alone while a vote cast before the first render still counts.
func (r *Rating) WillUpdate(changed *core.ChangeSet) error {
	if !r.vote.Changed(changed) {
		return nil
	}
	old, _ := r.vote.Old(changed)
	if r.host.Passes() == 0 {
		old, _ = r.vote.Restored()
	}
	if delta := reducer.RatingDelta(old, r.vote.Get()); delta != 0 {
		r.rating.Update(func(n int) int { return n + delta })
	}
	return nil
}

func (r *Rating) Render(core.Props) (core.RenderOutput, error) {
	down, up := "down", "up"
	switch r.vote.Get() {
	case reducer.VoteUp:
		up = "UP"
	case reducer.VoteDown:
		down = "DOWN"
	}
	return fmt.Sprintf("[%s] %d [%s]", down, r.rating.Get(), up), nil
}

// Up votes up.
func (r *Rating) Up() {
	r.vote.Set(reducer.VoteUp)
}

// Down votes down.
func (r *Rating) Down() {
	r.vote.Set(reducer.VoteDown)
}

// Vote returns the current vote.
func (r *Rating) Vote() reducer.Vote {
	return r.vote.Get()
}

// Value returns the current rating.
func (r *Rating) Value() int {
	return r.rating.Get()
}
