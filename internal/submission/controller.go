package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"check-my-fit/internal/selection"
	"check-my-fit/internal/view"
)

const (
	IdleLabel         = "Check My Fit"
	WorkingLabel      = "Generating..."
	IncompleteMessage = "Please select both your photo and an outfit photo."
)

var (
	ErrIncompleteSelection = errors.New("submission: person or outfit photo missing")
	ErrBusy                = errors.New("submission: already in progress")
)

type Generator interface {
	Generate(ctx context.Context, person, outfit selection.File) (string, error)
}

// FeedbackResetter is reset every time a new attempt starts loading.
type FeedbackResetter interface {
	Reset()
}

type Phase int

const (
	Idle Phase = iota
	Loading
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Succeeded:
		return "success"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// State is the outcome of the latest attempt. Image is set only when
// Succeeded, Message only when Failed.
type State struct {
	Phase   Phase
	Image   string
	Message string
}

type Elements struct {
	Submit      view.Control
	Label       view.Text
	Loading     view.Element
	Result      view.Image
	Placeholder view.Element
	Error       view.Text
	Actions     view.Element
}

type Options struct {
	Selection *selection.State
	Generator Generator
	Feedback  FeedbackResetter
	Elements  Elements
	Logger    *slog.Logger
}

type Controller struct {
	selection *selection.State
	gen       Generator
	feedback  FeedbackResetter
	el        Elements
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

func New(opts Options) (*Controller, error) {
	el := opts.Elements
	switch {
	case opts.Selection == nil:
		return nil, errors.New("submission: selection state is nil")
	case opts.Generator == nil:
		return nil, errors.New("submission: generator is nil")
	case el.Submit == nil || el.Label == nil || el.Loading == nil || el.Result == nil ||
		el.Placeholder == nil || el.Error == nil || el.Actions == nil:
		return nil, errors.New("submission: missing element")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Controller{
		selection: opts.Selection,
		gen:       opts.Generator,
		feedback:  opts.Feedback,
		el:        el,
		logger:    logger,
	}, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one generation attempt and blocks until it has been rendered.
// The returned error has already been shown to the user; it is returned for
// logging and exit codes.
func (c *Controller) Submit(ctx context.Context) error {
	person, outfit, complete := c.selection.Both()

	c.mu.Lock()
	if c.state.Phase == Loading {
		c.mu.Unlock()
		return ErrBusy
	}
	if !complete {
		c.showError(IncompleteMessage)
		c.mu.Unlock()
		c.logger.Debug("submit rejected", "person", person != nil, "outfit", outfit != nil)
		return ErrIncompleteSelection
	}
	c.state = State{Phase: Loading}
	c.enterLoading()
	c.mu.Unlock()

	start := time.Now()
	img, err := c.generate(ctx, person, outfit)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.finishLocked()

	if err != nil {
		c.state = State{Phase: Failed, Message: err.Error()}
		c.showError(err.Error())
		c.el.Result.SetVisible(false)
		c.el.Placeholder.SetVisible(true)
		c.logger.Error("generation failed", "err", err, "dur_ms", time.Since(start).Milliseconds())
		return err
	}

	c.state = State{Phase: Succeeded, Image: img}
	c.el.Result.SetSource(img)
	c.el.Result.SetVisible(true)
	c.el.Placeholder.SetVisible(false)
	c.el.Actions.SetVisible(true)
	c.logger.Info("generation succeeded", "dur_ms", time.Since(start).Milliseconds())
	return nil
}

// generate keeps a panicking generator from leaving the controls disabled.
func (c *Controller) generate(ctx context.Context, person, outfit selection.File) (img string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return c.gen.Generate(ctx, person, outfit)
}

func (c *Controller) enterLoading() {
	c.el.Submit.SetEnabled(false)
	c.el.Label.SetText(WorkingLabel)
	c.el.Loading.SetVisible(true)
	c.el.Result.SetVisible(false)
	c.el.Placeholder.SetVisible(false)
	c.el.Error.SetVisible(false)
	c.el.Actions.SetVisible(false)
	if c.feedback != nil {
		c.feedback.Reset()
	}
}

// finishLocked restores the idle controls whatever the outcome was.
func (c *Controller) finishLocked() {
	c.el.Submit.SetEnabled(true)
	c.el.Label.SetText(IdleLabel)
	c.el.Loading.SetVisible(false)
}

func (c *Controller) showError(message string) {
	c.el.Error.SetText(message)
	c.el.Error.SetVisible(true)
}
