//go:build js && wasm

package dom

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"syscall/js"

	"check-my-fit/internal/feedback"
	"check-my-fit/internal/selection"
	"check-my-fit/internal/submission"
	"check-my-fit/internal/upload"
	"check-my-fit/internal/view"
	"check-my-fit/internal/widget"
)

type area struct {
	input    *Element
	dropZone *Element
	elements upload.Elements
}

// Page holds the nodes of the try-on page and the listeners bound to them.
type Page struct {
	doc     js.Value
	form    *Element
	areas   map[selection.Slot]*area
	buttons []*Element

	submission submission.Elements
	feedback   feedback.Elements

	logger    *slog.Logger
	listeners []listener
}

type listener struct {
	target js.Value
	name   string
	fn     js.Func
}

// Ready blocks until the document has been parsed.
func Ready(ctx context.Context) error {
	doc := js.Global().Get("document")
	if doc.Get("readyState").String() != "loading" {
		return nil
	}

	done := make(chan struct{})
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		close(done)
		return nil
	})
	defer fn.Release()

	opts := js.Global().Get("Object").New()
	opts.Set("once", true)
	doc.Call("addEventListener", "DOMContentLoaded", fn, opts)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		doc.Call("removeEventListener", "DOMContentLoaded", fn)
		return ctx.Err()
	}
}

// Location returns the page URL.
func Location() string {
	return js.Global().Get("location").Get("href").String()
}

// Lookup finds every node the widget needs. A missing node is an error
// naming its ID.
func Lookup(logger *slog.Logger) (*Page, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	doc := js.Global().Get("document")
	p := &Page{
		doc:    doc,
		areas:  make(map[selection.Slot]*area, 2),
		logger: logger,
	}

	var err error
	get := func(id string) *Element {
		if err != nil {
			return nil
		}
		var el *Element
		el, err = byID(doc, id)
		return el
	}

	p.form = get(IDForm)
	submit := get(IDSubmit)
	label := get(IDSubmitLabel)
	loading := get(IDLoading)
	result := get(IDResultImage)
	placeholder := get(IDPlaceholder)
	errorDisplay := get(IDError)
	actions := get(IDActions)
	thanks := get(IDFeedbackThanks)
	if err != nil {
		return nil, err
	}
	loading.display = "flex"

	for _, slot := range []selection.Slot{selection.Person, selection.Outfit} {
		ids := AreaIDsFor(slot)
		input := get(ids.Input)
		dropZone := get(ids.DropZone)
		previewEl := get(ids.Preview)
		instructions := get(ids.Instructions)
		if err != nil {
			return nil, err
		}
		p.areas[slot] = &area{
			input:    input,
			dropZone: dropZone,
			elements: upload.Elements{
				DropZone:     dropZone,
				Preview:      &previewContainer{Element: previewEl, doc: doc},
				Instructions: instructions,
			},
		}
	}

	p.submission = submission.Elements{
		Submit:      submit,
		Label:       label,
		Loading:     loading,
		Result:      result,
		Placeholder: placeholder,
		Error:       errorDisplay,
		Actions:     actions,
	}

	nodes := doc.Call("querySelectorAll", FeedbackSelector)
	controls := make([]view.Control, 0, nodes.Length())
	for i := 0; i < nodes.Length(); i++ {
		b := &Element{v: nodes.Index(i), display: "inline-block"}
		p.buttons = append(p.buttons, b)
		controls = append(controls, b)
	}
	p.feedback = feedback.Elements{Thanks: thanks, Buttons: controls}

	return p, nil
}

// Options returns widget options wired to the page nodes. The caller fills
// in the generator and previewer.
func (p *Page) Options() widget.Options {
	return widget.Options{
		Person:     p.areas[selection.Person].elements,
		Outfit:     p.areas[selection.Outfit].elements,
		Submission: p.submission,
		Feedback:   p.feedback,
		Logger:     p.logger,
	}
}

// Bind attaches the page listeners to w.
func (p *Page) Bind(ctx context.Context, w *widget.Widget) {
	for slot, a := range p.areas {
		ua := w.Area(slot)

		p.on(a.input.v, "change", func(ev js.Value) {
			ua.Pick(ctx, files(ev.Get("target").Get("files")))
		})
		p.on(a.dropZone.v, "dragover", func(ev js.Value) {
			ua.DragOver(event{v: ev})
		})
		p.on(a.dropZone.v, "dragleave", func(ev js.Value) {
			ua.DragLeave()
		})
		p.on(a.dropZone.v, "drop", func(ev js.Value) {
			var list js.Value
			if dt := ev.Get("dataTransfer"); dt.Truthy() {
				list = dt.Get("files")
			}
			ua.Drop(ctx, event{v: ev}, files(list))
		})
	}

	p.on(p.form.v, "submit", func(ev js.Value) {
		ev.Call("preventDefault")
		// Submit waits on fetch, which needs the event loop back.
		go func() {
			if err := w.Submission.Submit(ctx); err != nil {
				p.logger.Debug("submit finished with error", "err", err)
			}
		}()
	})

	for i, b := range p.buttons {
		reaction := ReactionFor(b.v.Get("dataset").Get("reaction").String(), i)
		p.on(b.v, "click", func(ev js.Value) {
			w.Feedback.Record(reaction)
		})
	}
}

// Release removes the listeners.
func (p *Page) Release() {
	for _, l := range p.listeners {
		l.target.Call("removeEventListener", l.name, l.fn)
		l.fn.Release()
	}
	p.listeners = nil
}

func (p *Page) on(target js.Value, name string, handle func(ev js.Value)) {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("listener panic", "event", name, "panic", fmt.Sprint(r))
			}
		}()
		handle(args[0])
		return nil
	})
	target.Call("addEventListener", name, fn)
	p.listeners = append(p.listeners, listener{target: target, name: name, fn: fn})
}
