package rendering

import (
	"errors"
	"fmt"
)

// ErrNoCompany is returned when a page is rendered without a company.
var ErrNoCompany = errors.New("company is required")

// PageError reports a failure to build one of the HTML pages. Page is the
// template name ("careers", "preview", "unavailable").
type PageError struct {
	Page  string
	Parse bool // true when the template itself failed to parse
	Err   error
}

func (e *PageError) Error() string {
	stage := "execute"
	if e.Parse {
		stage = "parse"
	}
	return fmt.Sprintf("rendering %s page: %s: %v", e.Page, stage, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
