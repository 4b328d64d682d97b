package fetch

import (
	"fmt"
	"net/http"
	"time"
)

// TimestampParser extracts a remote modification timestamp from probe response
// headers. The freshness comparison only sees the resulting time.Time, so the
// store's metadata encoding can change without touching the decision rule.
type TimestampParser interface {
	Parse(headers http.Header) (time.Time, error)
}

// HTTPDateParser reads the standard Last-Modified header (RFC 7231 dates).
type HTTPDateParser struct{}

// Parse implements TimestampParser.
func (HTTPDateParser) Parse(headers http.Header) (time.Time, error) {
	value := headers.Get("Last-Modified")
	if value == "" {
		return time.Time{}, fmt.Errorf("missing Last-Modified header")
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable Last-Modified header %q: %w", value, err)
	}
	return t, nil
}
