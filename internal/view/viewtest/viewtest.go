// Package viewtest provides recording element handles for controller tests.
package viewtest

import "sync"

type Element struct {
	mu      sync.Mutex
	visible bool
	text    string
	src     string
	enabled bool
	active  bool
	calls   int
}

// NewElement returns an element in the given initial visibility, enabled.
func NewElement(visible bool) *Element {
	return &Element{visible: visible, enabled: true}
}

func (e *Element) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = visible
	e.calls++
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
	e.calls++
}

func (e *Element) SetSource(src string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.src = src
	e.calls++
}

func (e *Element) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
	e.calls++
}

func (e *Element) SetActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = active
	e.calls++
}

func (e *Element) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *Element) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

func (e *Element) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

func (e *Element) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Calls reports how many mutations the element has received.
func (e *Element) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

type Event struct {
	mu        sync.Mutex
	prevented bool
}

func (e *Event) PreventDefault() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prevented = true
}

func (e *Event) Prevented() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prevented
}
