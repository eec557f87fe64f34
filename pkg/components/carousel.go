package components

import (
	"fmt"
	"strings"

	"github.com/go-drift/reactive/pkg/core"
	"github.com/go-drift/reactive/pkg/reducer"
)

// CarouselTag is the registration tag for Carousel.
const CarouselTag = "story-viewer"

// DefaultCarouselWidth is the container width used without a LayoutProvider.
const DefaultCarouselWidth = 300

// LayoutProvider reports the width of the container a component renders into.
type LayoutProvider interface {
	Width() float64
}

// FixedWidth is a LayoutProvider with a constant width.
type FixedWidth float64

// Width returns w.
func (w FixedWidth) Width() float64 { return float64(w) }

// Carousel shows one story at a time. The index is clamped to the stories
// present and reflects to the "index" attribute; after each render every
// story is positioned relative to the current one.
type Carousel struct {
	core.ComponentBase

	// Layout supplies the container width. Defaults to DefaultCarouselWidth.
	Layout LayoutProvider

	index   *core.Prop[int]
	items   *core.Prop[[]string]
	offsets []float64
}

func (c *Carousel) Init(h *core.Host) {
	c.index = core.NewProp(h, "index", 0, core.PropertyOptions{Reflect: true})
	c.items = core.NewProp(h, "items", []string(nil), core.PropertyOptions{State: true})
}

// WillUpdate keeps the index in range when stories or the index change.
func (c *Carousel) WillUpdate(*core.ChangeSet) error {
	if clamped := reducer.Clamp(c.index.Get(), len(c.items.Get())); clamped != c.index.Get() {
		c.index.Set(clamped)
	}
	return nil
}

func (c *Carousel) Render(core.Props) (core.RenderOutput, error) {
	items := c.items.Get()
	if len(items) == 0 {
		return "(no stories)", nil
	}
	index := c.index.Get()
	var progress strings.Builder
	for i := range items {
		if i <= index {
			progress.WriteString("#")
		} else {
			progress.WriteString("-")
		}
	}
	return fmt.Sprintf("< %s > [%s]", items[index], progress.String()), nil
}

// Updated positions every story for the committed index.
func (c *Carousel) Updated(*core.ChangeSet) error {
	width := float64(DefaultCarouselWidth)
	if c.Layout != nil {
		width = c.Layout.Width()
	}
	c.offsets = reducer.Offsets(c.index.Get(), len(c.items.Get()), width)
	return nil
}

// SetItems replaces the stories.
func (c *Carousel) SetItems(items ...string) {
	c.items.Set(append([]string(nil), items...))
}

// Items returns the stories.
func (c *Carousel) Items() []string {
	return c.items.Get()
}

// Next moves to the next story, stopping at the last.
func (c *Carousel) Next() {
	c.index.Set(reducer.Next(c.index.Get(), len(c.items.Get())))
}

// Previous moves to the previous story, stopping at the first.
func (c *Carousel) Previous() {
	c.index.Set(reducer.Previous(c.index.Get(), len(c.items.Get())))
}

// MoveTo jumps to story i, clamped to the stories present.
func (c *Carousel) MoveTo(i int) {
	c.index.Set(reducer.Clamp(i, len(c.items.Get())))
}

// Index returns the current index.
func (c *Carousel) Index() int {
	return c.index.Get()
}

// Offsets returns the horizontal position of each story from the last
// committed pass.
func (c *Carousel) Offsets() []float64 {
	return c.offsets
}
