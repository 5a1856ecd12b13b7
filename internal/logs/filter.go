package logs

import (
	"fmt"
	"regexp"

	"github.com/charliek/logdash/internal/domain"
)

// MaxPatternLength caps patterns arriving as API query parameters
const MaxPatternLength = 256

// Filter is a compiled filter pattern. A Filter without a compiled pattern
// matches every record.
type Filter struct {
	text  string
	regex *regexp.Regexp
	err   error
}

// MatchSubject builds the string a filter pattern is tested against
func MatchSubject(r domain.LogRecord) string {
	return r.Level + " " + r.Service + " " + r.Message
}

// CompileFilter compiles a pattern supplied over the API, returning
// ErrInvalidPattern when it is too long or does not compile. An empty text
// yields a match-all filter.
func CompileFilter(text string) (*Filter, error) {
	if len(text) > MaxPatternLength {
		return nil, fmt.Errorf("%w: pattern exceeds maximum length of %d characters", domain.ErrInvalidPattern, MaxPatternLength)
	}
	return compile(text)
}

// NewFilter compiles a pattern committed in the dashboard. Any length is
// accepted. An invalid pattern disables filtering instead of failing: the
// result matches every record and Err reports why.
func NewFilter(text string) *Filter {
	f, err := compile(text)
	if err != nil {
		return &Filter{text: text, err: err}
	}
	return f
}

func compile(text string) (*Filter, error) {
	f := &Filter{text: text}
	if text == "" {
		return f, nil
	}

	re, err := regexp.Compile(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPattern, err)
	}
	f.regex = re

	return f, nil
}

// Matches returns true if the record passes the filter
func (f *Filter) Matches(r domain.LogRecord) bool {
	if f == nil || f.regex == nil {
		return true
	}
	return f.regex.MatchString(MatchSubject(r))
}

// Active reports whether the filter rejects anything at all
func (f *Filter) Active() bool {
	return f != nil && f.regex != nil
}

// Text returns the pattern text as committed by the user
func (f *Filter) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// Err returns the compile error that disabled the filter, if any
func (f *Filter) Err() error {
	if f == nil {
		return nil
	}
	return f.err
}
