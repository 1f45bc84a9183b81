// Package dates formats and parses document dates with strftime patterns.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultPattern is the pattern dates are stamped with and the default
// output pattern.
const DefaultPattern = "%Y-%m-%d %H:%M:%S"

// fallbackLayouts are accepted on input in addition to the configured and
// default patterns.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
}

// Dates is the date collaborator for one build.
type Dates struct {
	pattern string
	now     func() time.Time
	loc     *time.Location
}

// Option configures Dates.
type Option func(*Dates)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Dates) {
		d.now = now
	}
}

// WithLocation sets the location used for values without a zone.
func WithLocation(loc *time.Location) Option {
	return func(d *Dates) {
		d.loc = loc
	}
}

// New returns Dates formatting with pattern. An empty pattern selects
// DefaultPattern.
func New(pattern string, opts ...Option) (*Dates, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	if err := Validate(pattern); err != nil {
		return nil, err
	}
	d := &Dates{pattern: pattern, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Validate reports whether pattern is a usable strftime pattern.
func Validate(pattern string) error {
	if !strings.Contains(pattern, "%") {
		return fmt.Errorf("date format %q has no conversion specifiers", pattern)
	}
	if _, err := strftime.Layout(pattern); err != nil {
		return fmt.Errorf("date format %q: %w", pattern, err)
	}
	return nil
}

// Pattern returns the output pattern.
func (d *Dates) Pattern() string {
	return d.pattern
}

// Format formats t with the output pattern.
func (d *Dates) Format(t time.Time) string {
	return strftime.Format(d.pattern, t)
}

// Current returns the current time in DefaultPattern, the form drafts are
// stamped with.
func (d *Dates) Current() string {
	return strftime.Format(DefaultPattern, d.now().In(d.loc))
}

// Parse parses value using the output pattern, DefaultPattern, or one of the
// common ISO layouts.
func (d *Dates) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, pattern := range []string{d.pattern, DefaultPattern} {
		if t, err := strftime.Parse(pattern, value); err == nil {
			return d.localize(t), nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, value, d.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// Normalize renders a raw metadata value with the output pattern in the
// configured location. Strings are parsed first; nil and empty strings yield
// "". Values carrying a zone offset are converted to the configured
// location. UTC times, which is how YAML decodes zoneless timestamps, keep
// their wall clock.
func (d *Dates) Normalize(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		return d.Format(d.localize(val).In(d.loc)), nil
	case string:
		if strings.TrimSpace(val) == "" {
			return "", nil
		}
		t, err := d.Parse(val)
		if err != nil {
			return "", err
		}
		return d.Format(t.In(d.loc)), nil
	default:
		return d.Normalize(fmt.Sprint(val))
	}
}

// localize reinterprets a zone-less UTC result from strftime.Parse in d.loc.
func (d *Dates) localize(t time.Time) time.Time {
	if t.Location() != time.UTC || d.loc == time.UTC {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), d.loc)
}
