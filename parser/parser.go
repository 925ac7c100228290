// Copyright © 2025 The Lambdust authors

package parser

import (
	"github.com/akasaka-miraina/lambdust-sub006/parser/combinator"
	"github.com/akasaka-miraina/lambdust-sub006/parser/rdparser"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// Option configures the reader returned by NewReader.
type Option func(*config)

type config struct {
	combinator bool
}

// WithCombinator selects the parser combinator reader instead of the
// default recursive descent reader.  The combinator reader accepts the
// same core grammar and exists to cross-check the default reader, but
// it does not track source locations as precisely and does not support
// block comments.
func WithCombinator() Option {
	return func(c *config) {
		c.combinator = true
	}
}

// NewReader returns a new scheme.Reader
func NewReader(opts ...Option) scheme.Reader {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.combinator {
		return combinator.NewReader()
	}
	return rdparser.NewReader()
}
