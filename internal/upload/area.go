package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"check-my-fit/internal/preview"
	"check-my-fit/internal/selection"
	"check-my-fit/internal/view"
)

type Previewer interface {
	ReadAsync(ctx context.Context, f selection.File) <-chan preview.Result
}

type Elements struct {
	DropZone     view.Indicator
	Preview      view.Image
	Instructions view.Element
}

type Options struct {
	Slot      selection.Slot
	State     *selection.State
	Elements  Elements
	Previewer Previewer
	Logger    *slog.Logger
}

// Area is one upload widget: a file picker and a drop zone feeding the same
// selection slot and preview.
type Area struct {
	slot      selection.Slot
	state     *selection.State
	el        Elements
	previewer Previewer
	logger    *slog.Logger

	mu      sync.Mutex
	seq     uint64
	pending sync.WaitGroup
}

func New(opts Options) (*Area, error) {
	switch {
	case opts.Slot == "":
		return nil, errors.New("upload: slot is empty")
	case opts.State == nil:
		return nil, errors.New("upload: selection state is nil")
	case opts.Previewer == nil:
		return nil, errors.New("upload: previewer is nil")
	case opts.Elements.DropZone == nil || opts.Elements.Preview == nil || opts.Elements.Instructions == nil:
		return nil, errors.New("upload: missing element")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Area{
		slot:      opts.Slot,
		state:     opts.State,
		el:        opts.Elements,
		previewer: opts.Previewer,
		logger:    logger.With("area", string(opts.Slot)),
	}, nil
}

func (a *Area) Slot() selection.Slot {
	return a.slot
}

// Pick handles a change event from the file picker.
func (a *Area) Pick(ctx context.Context, files []selection.File) {
	if len(files) == 0 {
		return
	}
	a.HandleFile(ctx, files[0])
}

func (a *Area) DragOver(ev view.Event) {
	if ev != nil {
		ev.PreventDefault()
	}
	a.el.DropZone.SetActive(true)
}

func (a *Area) DragLeave() {
	a.el.DropZone.SetActive(false)
}

func (a *Area) Drop(ctx context.Context, ev view.Event, files []selection.File) {
	if ev != nil {
		ev.PreventDefault()
	}
	a.el.DropZone.SetActive(false)
	if len(files) == 0 {
		return
	}
	a.HandleFile(ctx, files[0])
}

// HandleFile stores f in the area's slot and starts rendering its preview.
// Files that are missing or not declared as images are ignored and false is
// returned.
func (a *Area) HandleFile(ctx context.Context, f selection.File) bool {
	if !selection.IsImage(f) {
		if f != nil {
			a.logger.Debug("file rejected", "name", f.Name(), "mime", f.Type())
		}
		return false
	}

	a.state.Set(a.slot, f)

	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	a.logger.Debug("file accepted", "name", f.Name(), "mime", f.Type(), "seq", seq)

	a.pending.Add(1)
	go func() {
		defer a.pending.Done()
		a.render(seq, <-a.previewer.ReadAsync(ctx, f))
	}()
	return true
}

// Wait blocks until every preview started so far has been applied or dropped.
func (a *Area) Wait() {
	a.pending.Wait()
}

func (a *Area) render(seq uint64, res preview.Result) {
	if res.Err != nil {
		a.logger.Debug("preview failed", "seq", seq, "err", res.Err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// A newer file was accepted while this one was decoding.
	if seq != a.seq {
		a.logger.Debug("stale preview dropped", "seq", seq, "latest", a.seq)
		return
	}

	a.el.Preview.SetSource(res.Source)
	a.el.Preview.SetVisible(true)
	a.el.Instructions.SetVisible(false)
}
