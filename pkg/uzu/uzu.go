// Package uzu parses mini-notation patterns into an AST and into the
// timed events of one cycle.
//
//	events, err := uzu.Parse("bd*2 [sd cp] <hh oh>")
//
// Syntax errors are *uzu.Error values carrying the byte offset, line and
// column of the problem. A pattern that expands past the event budget
// fails with a *uzu.LimitError.
package uzu

import (
	"github.com/rpmessner/uzu-parser/internal/models"
	"github.com/rpmessner/uzu-parser/internal/notation/ast"
	"github.com/rpmessner/uzu-parser/internal/notation/euclid"
	"github.com/rpmessner/uzu-parser/internal/notation/interpreter"
	"github.com/rpmessner/uzu-parser/internal/notation/parser"
)

type (
	Event      = models.Event
	Params     = models.Params
	Node       = ast.Node
	Error      = parser.Error
	LimitError = interpreter.LimitError
)

const (
	// DefaultMaxDepth is the group nesting limit applied unless WithMaxDepth overrides it
	DefaultMaxDepth = parser.DefaultMaxDepth
	// DefaultMaxEvents is the event budget applied unless WithMaxEvents overrides it
	DefaultMaxEvents = interpreter.DefaultMaxEvents
)

type options struct {
	parse     []parser.Option
	interpret []interpreter.Option
}

// Option configures parsing and interpretation
type Option func(*options)

// WithMaxDepth sets the group nesting limit
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.parse = append(o.parse, parser.WithMaxDepth(depth))
	}
}

// WithMaxEvents sets how many events a pattern may expand to
func WithMaxEvents(n int) Option {
	return func(o *options) {
		o.interpret = append(o.interpret, interpreter.WithMaxEvents(n))
	}
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse parses input and returns its events, sorted by time
func Parse(input string, opts ...Option) ([]Event, error) {
	o := collect(opts)
	root, err := parser.Parse(input, o.parse...)
	if err != nil {
		return nil, err
	}
	return interpreter.Interpret(root, o.interpret...)
}

// ParseAST parses input without interpreting it
func ParseAST(input string, opts ...Option) (Node, error) {
	return parser.Parse(input, collect(opts).parse...)
}

// Interpret flattens a parsed pattern into events over one cycle
func Interpret(root Node, opts ...Option) ([]Event, error) {
	return interpreter.Interpret(root, collect(opts).interpret...)
}

// Euclid returns the Bjorklund distribution of k onsets over n steps rotated left by offset
func Euclid(k, n, offset int) ([]bool, error) {
	return euclid.Pattern(k, n, offset)
}
