// Package terminal renders the widget as lines of styled text, one line per
// visible state change.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"check-my-fit/internal/feedback"
	"check-my-fit/internal/generate"
	"check-my-fit/internal/selection"
	"check-my-fit/internal/submission"
	"check-my-fit/internal/upload"
	"check-my-fit/internal/view"
)

type styles struct {
	label   lipgloss.Style
	info    lipgloss.Style
	busy    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")),
		info:    r.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		busy:    r.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF80")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#808080")),
	}
}

// Console serialises writes from every element onto one writer.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	styles styles
}

func New(w io.Writer) *Console {
	return &Console{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

func (c *Console) printf(label string, style lipgloss.Style, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(c.w, "%s %s\n", c.styles.label.Render(label), style.Render(msg))
}

type kind int

const (
	silent kind = iota
	previewKind
	loadingKind
	messageKind
	resultKind
	thanksKind
)

// Element implements every view handle. What it prints depends on the role
// it was created for; silent elements only keep state.
type Element struct {
	c     *Console
	kind  kind
	label string

	mu      sync.Mutex
	visible bool
	text    string
	source  string
	enabled bool
	active  bool
}

func (c *Console) element(k kind, label string) *Element {
	return &Element{c: c, kind: k, label: label, enabled: true}
}

func (e *Element) SetVisible(visible bool) {
	e.mu.Lock()
	changed := e.visible != visible
	e.visible = visible
	text, source := e.text, e.source
	e.mu.Unlock()

	if !changed || !visible {
		return
	}

	s := e.c.styles
	switch e.kind {
	case loadingKind:
		e.c.printf(e.label, s.busy, "generating your try-on...")
	case messageKind:
		e.c.printf(e.label, s.failure, "%s", text)
	case resultKind:
		e.c.printf(e.label, s.success, "ready (%s)", describeSource(source))
	case thanksKind:
		e.c.printf(e.label, s.muted, "thanks for your feedback")
	}
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	e.text = text
	visible := e.visible
	e.mu.Unlock()

	if e.kind == messageKind && visible && text != "" {
		e.c.printf(e.label, e.c.styles.failure, "%s", text)
	}
}

func (e *Element) SetSource(src string) {
	e.mu.Lock()
	e.source = src
	e.mu.Unlock()

	if e.kind == previewKind {
		e.c.printf(e.label, e.c.styles.info, "photo ready (%s)", describeSource(src))
	}
}

func (e *Element) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
}

func (e *Element) SetActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = active
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
	return e.source
}

func (e *Element) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// describeSource summarises an image reference without dumping base64.
func describeSource(src string) string {
	if !generate.IsDataURL(src) {
		return src
	}
	mimeType, data, err := generate.ParseDataURL(src)
	if err != nil {
		return "inline image"
	}
	return fmt.Sprintf("%s, %d bytes", mimeType, len(data))
}

// Area returns the element handles for one upload area.
func (c *Console) Area(slot selection.Slot) upload.Elements {
	label := strings.ToLower(string(slot))
	return upload.Elements{
		DropZone:     c.element(silent, label),
		Preview:      c.element(previewKind, label),
		Instructions: c.element(silent, label),
	}
}

// Submission returns the handles for the submit control and result region.
// The initial visibility matches a freshly loaded page.
func (c *Console) Submission() (submission.Elements, *Element) {
	result := c.element(resultKind, "result")
	placeholder := c.element(silent, "result")
	placeholder.visible = true

	return submission.Elements{
		Submit:      c.element(silent, "submit"),
		Label:       c.element(silent, "submit"),
		Loading:     c.element(loadingKind, "status"),
		Result:      result,
		Placeholder: placeholder,
		Error:       c.element(messageKind, "error"),
		Actions:     c.element(silent, "feedback"),
	}, result
}

// Feedback returns handles for the thanks message and the two reaction
// buttons.
func (c *Console) Feedback() feedback.Elements {
	return feedback.Elements{
		Thanks: c.element(thanksKind, "feedback"),
		Buttons: []view.Control{
			c.element(silent, "feedback"),
			c.element(silent, "feedback"),
		},
	}
}
