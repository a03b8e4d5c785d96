// Package view declares the element handles the widget controllers are built
// against. Front-ends (DOM, terminal, tests) supply the implementations.
package view

type Element interface {
	SetVisible(visible bool)
}

type Text interface {
	Element
	SetText(text string)
}

type Image interface {
	Element
	SetSource(src string)
}

type Control interface {
	SetEnabled(enabled bool)
}

// Indicator is a highlight that can be switched on and off, such as the
// drag-over state of a drop zone.
type Indicator interface {
	SetActive(active bool)
}

type Event interface {
	PreventDefault()
}
