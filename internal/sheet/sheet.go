// Package sheet parses "sheets": several named mini-notation patterns in one
// document, written as pattern(...) calls.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Conceptual-Machines/grammar-school-go/gs"

	"github.com/rpmessner/uzu-parser/internal/models"
	"github.com/rpmessner/uzu-parser/internal/notation/interpreter"
	"github.com/rpmessner/uzu-parser/internal/notation/parser"
	"github.com/rpmessner/uzu-parser/pkg/embedded"
)

// ParamOrbit is the event parameter set from a pattern's orbit argument
const ParamOrbit = "orbit"

// Pattern is one named pattern of a sheet with its interpreted events
type Pattern struct {
	Name     string         `json:"name"`
	Notation string         `json:"notation"`
	Orbit    *int           `json:"orbit,omitempty"`
	Events   []models.Event `json:"events"`
}

// NotationError reports a pattern whose notation failed to parse
type NotationError struct {
	Pattern string
	Err     *parser.Error
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("pattern %q: %s", e.Pattern, e.Err)
}

func (e *NotationError) Unwrap() error {
	return e.Err
}

// Parser parses sheet DSL code using Grammar School.
// A Parser is not safe for concurrent use.
type Parser struct {
	engine        *gs.Engine
	sheetDSL      *SheetDSL
	parseOpts     []parser.Option
	interpretOpts []interpreter.Option
	patterns      []Pattern
	failure       error
}

// Option configures a sheet Parser
type Option func(*Parser)

// WithParseOptions passes opts to every notation parse
func WithParseOptions(opts ...parser.Option) Option {
	return func(p *Parser) {
		p.parseOpts = append(p.parseOpts, opts...)
	}
}

// WithInterpretOptions passes opts to every pattern interpretation
func WithInterpretOptions(opts ...interpreter.Option) Option {
	return func(p *Parser) {
		p.interpretOpts = append(p.interpretOpts, opts...)
	}
}

// SheetDSL implements the DSL side-effect methods
type SheetDSL struct {
	parser *Parser
}

// NewParser creates a sheet parser
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{sheetDSL: &SheetDSL{}}
	for _, opt := range opts {
		opt(p)
	}
	p.sheetDSL.parser = p

	engine, err := gs.NewEngine(embedded.SheetGrammar, p.sheetDSL, gs.NewLarkParser())
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	p.engine = engine
	return p, nil
}

// Parse executes sheet code and returns its patterns in call order
func (p *Parser) Parse(ctx context.Context, code string) ([]Pattern, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("empty sheet")
	}

	p.patterns = make([]Pattern, 0)
	p.failure = nil

	if err := p.engine.Execute(ctx, code); err != nil {
		if p.failure != nil {
			return nil, p.failure
		}
		return nil, fmt.Errorf("failed to execute sheet: %w", err)
	}

	if len(p.patterns) == 0 {
		return nil, fmt.Errorf("no patterns found in sheet")
	}

	log.Printf("✅ Sheet Parser: parsed %d patterns", len(p.patterns))
	return p.patterns, nil
}

// Pattern handles pattern() calls
func (d *SheetDSL) Pattern(args gs.Args) error {
	p := d.parser

	name := ""
	if v, ok := args["name"]; ok && v.Kind == gs.ValueString {
		name = strings.Trim(v.Str, "\"")
	}
	if name == "" {
		return p.fail(fmt.Errorf("pattern: missing name"))
	}

	notation := ""
	if v, ok := args["notation"]; ok && v.Kind == gs.ValueString {
		notation = strings.Trim(v.Str, "\"")
	}
	if strings.TrimSpace(notation) == "" {
		return p.fail(fmt.Errorf("pattern %q: missing notation", name))
	}

	var orbit *int
	if v, ok := args["orbit"]; ok && v.Kind == gs.ValueNumber {
		o := int(v.Num)
		orbit = &o
	}

	root, err := parser.Parse(notation, p.parseOpts...)
	if err != nil {
		var perr *parser.Error
		if errors.As(err, &perr) {
			return p.fail(&NotationError{Pattern: name, Err: perr})
		}
		return p.fail(fmt.Errorf("pattern %q: %w", name, err))
	}

	events, err := interpreter.Interpret(root, p.interpretOpts...)
	if err != nil {
		return p.fail(fmt.Errorf("pattern %q: %w", name, err))
	}
	if orbit != nil {
		for i := range events {
			if _, exists := events[i].Params.Get(ParamOrbit); !exists {
				events[i].Params.Set(ParamOrbit, *orbit)
			}
		}
	}

	p.patterns = append(p.patterns, Pattern{
		Name:     name,
		Notation: notation,
		Orbit:    orbit,
		Events:   events,
	})
	log.Printf("🎛️ Pattern: name=%s, notation=%q (%d events)", name, notation, len(events))
	return nil
}

func (p *Parser) fail(err error) error {
	if p.failure == nil {
		p.failure = err
	}
	return err
}
