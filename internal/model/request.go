// Package model defines the core data structures for goalnotify.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
)

// Default display options applied by Options.Normalize.
const (
	DefaultDuration = 5000 // milliseconds
	DefaultIcon     = "ℹ️"
)

// Options controls how a toast is displayed.
type Options struct {
	// Duration the toast stays fully visible, in milliseconds.
	Duration int `json:"duration"`
	// Icon is the glyph shown on the left of the toast.
	Icon string `json:"icon"`
	// BgColor overrides the toast background. Empty means the renderer
	// default (black). Accepts #RGB, #RRGGBB or a CSS color name.
	BgColor string `json:"bg_color,omitempty"`
	// Silent suppresses the renderer's chime for this toast.
	Silent bool `json:"silent,omitempty"`
}

// Request is a single toast request travelling from a producer to the
// renderer. It is produced once, consumed exactly once, then discarded.
type Request struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Options Options `json:"options"`
}

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidDuration = errors.New("duration must be greater than 0")
	ErrInvalidColor    = errors.New("bg_color must be #RGB, #RRGGBB or a color name")
)

// hexColorRe matches #RGB and #RRGGBB. Named colors are matched separately.
var (
	hexColorRe   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	namedColorRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)
)

// NewRequest creates a Request with a generated ULID and normalized options.
func NewRequest(title, message string, opts Options) (*Request, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	opts.Normalize()
	return &Request{
		ID:      id.String(),
		Title:   title,
		Message: message,
		Options: opts,
	}, nil
}

// Normalize fills zero-valued fields with defaults.
func (o *Options) Normalize() {
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.Icon == "" {
		o.Icon = DefaultIcon
	}
}

// DurationTime returns the hold duration as a time.Duration.
func (o Options) DurationTime() time.Duration {
	return time.Duration(o.Duration) * time.Millisecond
}

// Validate checks that the request is displayable.
func (r *Request) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	if r.Options.Duration <= 0 {
		return ErrInvalidDuration
	}
	if c := r.Options.BgColor; c != "" && !ValidColor(c) {
		return ErrInvalidColor
	}
	return nil
}

// ValidColor reports whether s is an acceptable background color value.
func ValidColor(s string) bool {
	return hexColorRe.MatchString(s) || namedColorRe.MatchString(s)
}
