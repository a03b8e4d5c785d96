package widget

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"check-my-fit/internal/feedback"
	"check-my-fit/internal/generate"
	"check-my-fit/internal/preview"
	"check-my-fit/internal/selection"
	"check-my-fit/internal/submission"
	"check-my-fit/internal/upload"
	"check-my-fit/internal/view"
	"check-my-fit/internal/view/viewtest"
)

type page struct {
	personZone, personPreview, personInstructions *viewtest.Element
	outfitZone, outfitPreview, outfitInstructions *viewtest.Element

	submit, label, loading, result, placeholder, errorBox, actions *viewtest.Element
	thanks                                                         *viewtest.Element
	buttons                                                        []*viewtest.Element
}

func newPage() *page {
	p := &page{
		personZone:         viewtest.NewElement(true),
		personPreview:      viewtest.NewElement(false),
		personInstructions: viewtest.NewElement(true),
		outfitZone:         viewtest.NewElement(true),
		outfitPreview:      viewtest.NewElement(false),
		outfitInstructions: viewtest.NewElement(true),
		submit:             viewtest.NewElement(true),
		label:              viewtest.NewElement(true),
		loading:            viewtest.NewElement(false),
		result:             viewtest.NewElement(false),
		placeholder:        viewtest.NewElement(true),
		errorBox:           viewtest.NewElement(false),
		actions:            viewtest.NewElement(false),
		thanks:             viewtest.NewElement(false),
		buttons:            []*viewtest.Element{viewtest.NewElement(true), viewtest.NewElement(true)},
	}
	p.label.SetText(submission.IdleLabel)
	return p
}

func (p *page) options() Options {
	controls := make([]view.Control, len(p.buttons))
	for i, b := range p.buttons {
		controls[i] = b
	}
	return Options{
		Person: upload.Elements{DropZone: p.personZone, Preview: p.personPreview, Instructions: p.personInstructions},
		Outfit: upload.Elements{DropZone: p.outfitZone, Preview: p.outfitPreview, Instructions: p.outfitInstructions},
		Submission: submission.Elements{
			Submit:      p.submit,
			Label:       p.label,
			Loading:     p.loading,
			Result:      p.result,
			Placeholder: p.placeholder,
			Error:       p.errorBox,
			Actions:     p.actions,
		},
		Feedback: feedback.Elements{Thanks: p.thanks, Buttons: controls},
	}
}

func pngFile(t *testing.T, name string) *selection.Bytes {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return &selection.Bytes{FileName: name, MimeType: "image/png", Data: buf.Bytes()}
}

func newWidget(t *testing.T, p *page, handler http.HandlerFunc) (*Widget, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	opts := p.options()
	opts.Generator = generate.New(generate.Options{Endpoint: srv.URL + "/generate", HTTPClient: srv.Client()})
	opts.Previewer = preview.New(preview.Options{})

	w, err := New(opts)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return w, calls
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, `{"error":"bad form"}`, http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile(generate.FieldPerson); err != nil {
			http.Error(w, `{"error":"Person photo is required."}`, http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile(generate.FieldOutfit); err != nil {
			http.Error(w, `{"error":"Outfit photo is required."}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestEndToEndSuccessAndFeedback(t *testing.T) {
	p := newPage()
	w, calls := newWidget(t, p, reply(http.StatusOK, `{"image":"data:image/png;base64,AAA"}`))
	ctx := context.Background()

	w.Person.Pick(ctx, []selection.File{pngFile(t, "me.png")})
	w.Outfit.Drop(ctx, &viewtest.Event{}, []selection.File{pngFile(t, "coat.png")})
	w.Wait()

	for name, el := range map[string]*viewtest.Element{"person": p.personPreview, "outfit": p.outfitPreview} {
		if !el.Visible() || !strings.HasPrefix(el.Source(), "data:image/png;base64,") {
			t.Fatalf("%s preview = %.30q visible=%v", name, el.Source(), el.Visible())
		}
	}
	if p.personInstructions.Visible() || p.outfitInstructions.Visible() {
		t.Fatalf("instructions still visible after previews")
	}

	if err := w.Submission.Submit(ctx); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("endpoint calls = %d, want 1", calls.Load())
	}
	if p.result.Source() != "data:image/png;base64,AAA" || !p.result.Visible() {
		t.Fatalf("result = %q visible=%v", p.result.Source(), p.result.Visible())
	}
	if p.placeholder.Visible() || !p.actions.Visible() {
		t.Fatalf("placeholder=%v actions=%v", p.placeholder.Visible(), p.actions.Visible())
	}
	if !p.submit.Enabled() || p.label.Text() != submission.IdleLabel {
		t.Fatalf("controls not restored: enabled=%v label=%q", p.submit.Enabled(), p.label.Text())
	}

	if !w.Feedback.Record(feedback.Positive) {
		t.Fatalf("Record returned false")
	}
	if w.Feedback.Record(feedback.Negative) {
		t.Fatalf("second Record returned true")
	}
	if !p.thanks.Visible() || p.buttons[0].Enabled() || p.buttons[1].Enabled() {
		t.Fatalf("feedback not locked after Record")
	}
}

func TestEndToEndServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error field", status: http.StatusInternalServerError, body: `{"error":"bad outfit"}`, wantMsg: "bad outfit"},
		{name: "unparsable", status: http.StatusServiceUnavailable, body: `<h1>busy</h1>`, wantMsg: "503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPage()
			w, _ := newWidget(t, p, reply(tt.status, tt.body))
			ctx := context.Background()

			w.Person.HandleFile(ctx, pngFile(t, "me.png"))
			w.Outfit.HandleFile(ctx, pngFile(t, "coat.png"))
			w.Wait()

			if err := w.Submission.Submit(ctx); err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(p.errorBox.Text(), tt.wantMsg) || !p.errorBox.Visible() {
				t.Fatalf("error display = %q visible=%v, want %q", p.errorBox.Text(), p.errorBox.Visible(), tt.wantMsg)
			}
			if p.result.Visible() || !p.placeholder.Visible() {
				t.Fatalf("result=%v placeholder=%v", p.result.Visible(), p.placeholder.Visible())
			}
			if !p.submit.Enabled() || p.label.Text() != submission.IdleLabel || p.loading.Visible() {
				t.Fatalf("controls not restored after error")
			}
		})
	}
}

func TestEndToEndGuard(t *testing.T) {
	p := newPage()
	w, calls := newWidget(t, p, reply(http.StatusOK, `{"image":"x"}`))
	ctx := context.Background()

	w.Person.HandleFile(ctx, pngFile(t, "me.png"))
	w.Outfit.HandleFile(ctx, &selection.Bytes{FileName: "notes.txt", MimeType: "text/plain", Data: []byte("x")})
	w.Wait()

	if err := w.Submission.Submit(ctx); err == nil {
		t.Fatalf("expected validation error")
	}
	if calls.Load() != 0 {
		t.Fatalf("endpoint called %d times", calls.Load())
	}
	if p.errorBox.Text() != submission.IncompleteMessage {
		t.Fatalf("error display = %q", p.errorBox.Text())
	}
	if p.outfitPreview.Calls() != 0 {
		t.Fatalf("rejected outfit rendered a preview")
	}
}

func TestAreaLookup(t *testing.T) {
	p := newPage()
	w, _ := newWidget(t, p, reply(http.StatusOK, `{"image":"x"}`))

	if w.Area(selection.Person) != w.Person || w.Area(selection.Outfit) != w.Outfit {
		t.Fatalf("Area() returned the wrong controller")
	}
	if w.Area(selection.Slot("hat")) != nil {
		t.Fatalf("Area() returned a controller for an unknown slot")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	opts := newPage().options()
	if _, err := New(opts); err == nil {
		t.Fatalf("expected error without generator/previewer")
	}

	opts.Generator = generate.New(generate.Options{})
	opts.Previewer = preview.New(preview.Options{})
	opts.Outfit.Preview = nil
	if _, err := New(opts); err == nil {
		t.Fatalf("expected error for missing outfit element")
	}
}
