// Package widget assembles the try-on page: one selection state shared by
// two upload areas, a submission controller and the feedback buttons.
package widget

import (
	"errors"
	"fmt"
	"log/slog"

	"check-my-fit/internal/feedback"
	"check-my-fit/internal/selection"
	"check-my-fit/internal/submission"
	"check-my-fit/internal/upload"
)

type Options struct {
	Person     upload.Elements
	Outfit     upload.Elements
	Submission submission.Elements
	Feedback   feedback.Elements

	Generator submission.Generator
	Previewer upload.Previewer
	Logger    *slog.Logger
}

type Widget struct {
	Selection  *selection.State
	Person     *upload.Area
	Outfit     *upload.Area
	Submission *submission.Controller
	Feedback   *feedback.Controller
}

func New(opts Options) (*Widget, error) {
	if opts.Generator == nil {
		return nil, errors.New("widget: generator is nil")
	}
	if opts.Previewer == nil {
		return nil, errors.New("widget: previewer is nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := selection.NewState()

	person, err := upload.New(upload.Options{
		Slot:      selection.Person,
		State:     state,
		Elements:  opts.Person,
		Previewer: opts.Previewer,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("person area: %w", err)
	}

	outfit, err := upload.New(upload.Options{
		Slot:      selection.Outfit,
		State:     state,
		Elements:  opts.Outfit,
		Previewer: opts.Previewer,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("outfit area: %w", err)
	}

	fb := feedback.New(feedback.Options{
		Elements: opts.Feedback,
		Logger:   logger,
	})

	sub, err := submission.New(submission.Options{
		Selection: state,
		Generator: opts.Generator,
		Feedback:  fb,
		Elements:  opts.Submission,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	return &Widget{
		Selection:  state,
		Person:     person,
		Outfit:     outfit,
		Submission: sub,
		Feedback:   fb,
	}, nil
}

// Area returns the upload area bound to slot, or nil.
func (w *Widget) Area(slot selection.Slot) *upload.Area {
	switch slot {
	case selection.Person:
		return w.Person
	case selection.Outfit:
		return w.Outfit
	}
	return nil
}

// Wait blocks until both areas have finished rendering their previews.
func (w *Widget) Wait() {
	w.Person.Wait()
	w.Outfit.Wait()
}
