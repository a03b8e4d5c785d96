//go:build js && wasm

package dom

import (
	"fmt"
	"syscall/js"
)

// Element wraps one node of the page. It satisfies every handle interface in
// the view package; which ones are used depends on the node.
type Element struct {
	v       js.Value
	display string
}

func byID(doc js.Value, id string) (*Element, error) {
	v := doc.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil, fmt.Errorf("element #%s not found", id)
	}
	return &Element{v: v, display: "block"}, nil
}

func (e *Element) Value() js.Value {
	return e.v
}

func (e *Element) SetVisible(visible bool) {
	if visible {
		e.v.Get("style").Set("display", e.display)
		return
	}
	e.v.Get("style").Set("display", "none")
}

// SetText replaces the text content. Markup in text is never interpreted.
func (e *Element) SetText(text string) {
	e.v.Set("textContent", text)
}

func (e *Element) SetSource(src string) {
	e.v.Set("src", src)
}

func (e *Element) SetEnabled(enabled bool) {
	e.v.Set("disabled", !enabled)
}

func (e *Element) SetActive(active bool) {
	e.v.Get("classList").Call("toggle", DragOverClass, active)
}

// previewContainer shows a selected photo by swapping in a fresh <img>.
type previewContainer struct {
	*Element
	doc js.Value
}

func (p *previewContainer) SetSource(src string) {
	img := p.doc.Call("createElement", "img")
	img.Set("src", src)
	img.Set("alt", "Preview")
	img.Set("className", PreviewImageClass)
	p.v.Call("replaceChildren", img)
}

type event struct {
	v js.Value
}

func (e event) PreventDefault() {
	e.v.Call("preventDefault")
}
