// Package widgets contains dumb render primitives.
//
// Allowed here:
// - stateless drawing/composition helpers (tile chrome, stacks, grid compositor)
//
// Not allowed here:
// - key handling, dashboard state transitions, or persistence
package widgets

// Widget renders itself into a width x height block of text.
type Widget interface {
	Render(width, height int) string
}
