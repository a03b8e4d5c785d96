package selection

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

type Slot string

const (
	Person Slot = "person"
	Outfit Slot = "outfit"
)

// File is a user-selected blob. Open may block, e.g. while a browser hands
// the bytes over.
type File interface {
	Name() string
	Type() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// IsImage reports whether the declared type of f starts with "image/".
func IsImage(f File) bool {
	if f == nil {
		return false
	}
	return strings.HasPrefix(f.Type(), "image/")
}

type Bytes struct {
	FileName string
	MimeType string
	Data     []byte
}

func (b *Bytes) Name() string { return b.FileName }

func (b *Bytes) Type() string { return b.MimeType }

func (b *Bytes) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

type State struct {
	mu        sync.Mutex
	person    File
	outfit    File
	updatedAt time.Time
}

func NewState() *State {
	return &State{}
}

// Set replaces whatever the slot held before.
func (s *State) Set(slot Slot, f File) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch slot {
	case Person:
		s.person = f
	case Outfit:
		s.outfit = f
	default:
		return
	}
	s.updatedAt = time.Now()
}

func (s *State) Get(slot Slot) File {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch slot {
	case Person:
		return s.person
	case Outfit:
		return s.outfit
	}
	return nil
}

// Both returns the two files and whether both slots are set.
func (s *State) Both() (person File, outfit File, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.person, s.outfit, s.person != nil && s.outfit != nil
}

func (s *State) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}
