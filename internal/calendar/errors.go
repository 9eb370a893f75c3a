package calendar

import "fmt"

const bodyExcerptLen = 300

// FetchError means the feed could not be used: unreachable, an error status,
// or a payload that does not parse.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calendar fetch: %v", e.Err)
	}
	return fmt.Sprintf("calendar fetch: HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *FetchError) Unwrap() error { return e.Err }

func excerpt(b []byte) string {
	if len(b) > bodyExcerptLen {
		b = b[:bodyExcerptLen]
	}
	return string(b)
}
