package feedback

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"check-my-fit/internal/view"
)

type Reaction string

const (
	Positive Reaction = "positive"
	Negative Reaction = "negative"
)

// ParseReaction accepts the spellings used by buttons and flags.
func ParseReaction(value string) (Reaction, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "positive", "up", "yes", "like", "👍":
		return Positive, true
	case "negative", "down", "no", "dislike", "👎":
		return Negative, true
	}
	return "", false
}

type Phase int

const (
	Pending Phase = iota
	Recorded
)

func (p Phase) String() string {
	if p == Recorded {
		return "recorded"
	}
	return "pending"
}

type State struct {
	Phase    Phase
	Reaction Reaction
}

type Elements struct {
	Thanks  view.Element
	Buttons []view.Control
}

type Options struct {
	Elements Elements
	Logger   *slog.Logger
}

type Controller struct {
	el     Elements
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Controller{
		el:     opts.Elements,
		logger: logger,
	}
}

// Record acknowledges the first reaction for the current result and locks
// the buttons. It returns false when a reaction was already recorded.
func (c *Controller) Record(r Reaction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == Recorded {
		return false
	}

	c.state = State{Phase: Recorded, Reaction: r}
	if c.el.Thanks != nil {
		c.el.Thanks.SetVisible(true)
	}
	c.setButtonsEnabled(false)

	c.logger.Info("feedback recorded", "reaction", string(r))
	return true
}

// Reset makes the buttons usable again for the next result.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{Phase: Pending}
	c.setButtonsEnabled(true)
	if c.el.Thanks != nil {
		c.el.Thanks.SetVisible(false)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setButtonsEnabled(enabled bool) {
	for _, b := range c.el.Buttons {
		if b != nil {
			b.SetEnabled(enabled)
		}
	}
}
