package logging

import (
	"errors"
	"fmt"
)

const maxErrorChain = 32

// errorLink is one level of an error's unwrap chain.
type errorLink struct {
	Type    string
	Message string
	Depth   int
}

// errorChain walks err depth-first through Unwrap() error and
// Unwrap() []error.
func errorChain(err error) []errorLink {
	var links []errorLink
	var walk func(error, int)
	walk = func(e error, depth int) {
		if e == nil || len(links) >= maxErrorChain {
			return
		}
		links = append(links, errorLink{Type: fmt.Sprintf("%T", e), Message: e.Error(), Depth: depth})
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, child := range u.Unwrap() {
				walk(child, depth+1)
			}
		default:
			walk(errors.Unwrap(e), depth+1)
		}
	}
	walk(err, 0)
	return links
}
