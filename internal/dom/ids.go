// Package dom binds the widget to the try-on page in the browser. The
// bindings only build for js/wasm; the ID table and URL helpers are plain Go.
package dom

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"check-my-fit/internal/feedback"
	"check-my-fit/internal/selection"
)

const (
	IDForm            = "tryon-form"
	IDResultImage     = "result-image"
	IDPlaceholder     = "result-placeholder"
	IDLoading         = "loading-spinner"
	IDError           = "error-display"
	IDSubmit          = "generate-btn"
	IDSubmitLabel     = "btn-text"
	IDActions         = "post-generation-actions"
	IDFeedbackThanks  = "feedback-thanks"
	FeedbackSelector  = ".feedback-btn"
	DragOverClass     = "drag-over"
	PreviewImageClass = "preview-image"
)

type AreaIDs struct {
	Input        string
	DropZone     string
	Preview      string
	Instructions string
}

func AreaIDsFor(slot selection.Slot) AreaIDs {
	prefix := string(slot)
	return AreaIDs{
		Input:        prefix + "-photo-input",
		DropZone:     prefix + "-drop-zone",
		Preview:      prefix + "-preview-container",
		Instructions: prefix + "-instructions",
	}
}

// ResolveEndpoint makes endpoint absolute against the page location.
func ResolveEndpoint(pageURL, endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", errors.New("endpoint is empty")
	}

	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("page url %q is not absolute", pageURL)
	}
	return base.ResolveReference(ref).String(), nil
}

// ReactionFor maps a feedback button to a reaction: its data-reaction value
// when it has a known one, otherwise first button positive, the rest negative.
func ReactionFor(dataReaction string, index int) feedback.Reaction {
	if r, ok := feedback.ParseReaction(dataReaction); ok {
		return r
	}
	if index == 0 {
		return feedback.Positive
	}
	return feedback.Negative
}
