// Package components contains example components built on the reactive
// core: a counter, a thumbs up/down rating, a story carousel, two clocks,
// step buttons and a todo list.
//
// Each component renders to plain text. Register adds all of them to a
// core.Registry under their tags.
package components
