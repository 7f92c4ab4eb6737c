// Package parser turns mini-notation text into an ast tree.
//
// The source is split into tokens by a participle lexer and the grammar is
// parsed by recursive descent over the token stream:
//
//	pattern           = sequence_or_stack EOF
//	sequence_or_stack = sequence { "," sequence }
//	sequence          = [ item { separator item } ]
//	item              = subdivision | alternation | polymetric | harmony
//	                  | random_choice | atom | "~" | "_"
//	subdivision       = "[" sequence_or_stack "]" { ("*" | "!") int | "/" float | "@" float }
//	alternation       = "<" sequence ">" [ "@" float ]
//	polymetric        = "{" sequence { "," sequence } "}" [ "%" int ] [ "@" float ]
//	random_choice     = option "|" option { "|" option }
//	atom              = name { modifier } { "|" param ":" value }
//
// Invalid modifier values never fail the parse: the atom falls back to a
// plain sound named after its literal text. Structural problems (unclosed
// groups, stray characters, excessive nesting) are reported as *Error.
package parser

import (
	"github.com/rpmessner/uzu-parser/internal/notation/ast"
)

// DefaultMaxDepth bounds group nesting so hostile input cannot exhaust the stack
const DefaultMaxDepth = 64

// Option configures a parse
type Option func(*parser)

// WithMaxDepth overrides the maximum group nesting depth.
// Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(p *parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

type parser struct {
	src      string
	tokens   []token
	i        int
	depth    int
	maxDepth int
}

// Parse parses src into a *ast.Sequence, or an *ast.Stack when the top level
// contains commas. The returned error, if any, is an *Error.
func Parse(src string, opts ...Option) (ast.Node, error) {
	p := &parser{src: src, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}

	tokens, lerr := tokenize(src)
	if lerr != nil {
		return nil, lerr
	}
	p.tokens = tokens

	root, err := p.parseSequenceOrStack()
	if err != nil {
		return nil, err
	}

	p.skipSeparators()
	if !p.eof() {
		return nil, p.errorf(p.pos(), "unexpected %s", p.describe())
	}
	return root, nil
}

func (p *parser) parseSequenceOrStack() (ast.Node, *Error) {
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if !p.punct(',') {
		return first, nil
	}

	groups := []*ast.Sequence{first}
	for p.punct(',') {
		p.i++
		seq, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		groups = append(groups, seq)
	}
	return &ast.Stack{
		Groups: groups,
		Span:   ast.Span{Start: first.Span.Start, End: groups[len(groups)-1].Span.End},
	}, nil
}

func (p *parser) parseSequence() (*ast.Sequence, *Error) {
	p.skipSeparators()
	seq := &ast.Sequence{Span: ast.Span{Start: p.pos(), End: p.pos()}}

	for !p.eof() && !p.atTerminator() {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		seq.Children = append(seq.Children, item)
		seq.Span.End = p.pos()

		if p.eof() || p.atTerminator() {
			break
		}
		if !p.consumeSeparator() {
			return nil, p.errorf(p.pos(), "unexpected %s, expected a separator", p.describe())
		}
	}
	return seq, nil
}

func (p *parser) parseItem() (ast.Node, *Error) {
	switch t := p.peek(); {
	case isPunct(t, '['):
		return p.parseSubdivision()
	case isPunct(t, '<'):
		return p.parseAlternation()
	case isPunct(t, '{'):
		return p.parsePolymetric()
	case t.kind == tokenWord && t.text == "_":
		p.i++
		return &ast.Elongation{Span: ast.Span{Start: t.start, End: t.end}}, nil
	case t.kind == tokenWord && t.text[0] == '^':
		if n, ok := p.scaleDegree(); ok {
			return n, nil
		}
	case isPunct(t, '@'):
		if n, ok := p.chordOrRoman(); ok {
			return n, nil
		}
	}
	return p.parseChoice()
}

// parseChoice parses an atom or rest and, if a '|' follows, the remaining
// options of a random choice
func (p *parser) parseChoice() (ast.Node, *Error) {
	start := p.pos()
	first, err := p.parseOption()
	if err != nil {
		return nil, err
	}
	if !p.punct('|') {
		return first, nil
	}

	options := []ast.Node{first}
	for p.punct('|') {
		p.i++
		opt, err := p.parseOption()
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return &ast.RandomChoice{Options: options, Span: ast.Span{Start: start, End: p.pos()}}, nil
}

func (p *parser) parseOption() (ast.Node, *Error) {
	t := p.peek()
	if isPunct(t, '~') {
		p.i++
		return &ast.Rest{Span: ast.Span{Start: t.start, End: t.end}}, nil
	}
	if isPunct(t, '@') || t.kind == tokenWord {
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return atom, nil
	}
	return nil, p.errorf(p.pos(), "unexpected %s", p.describe())
}

func (p *parser) parseSubdivision() (ast.Node, *Error) {
	open := p.pos()
	if err := p.enter(open); err != nil {
		return nil, err
	}
	p.i++

	inner, err := p.parseSequenceOrStack()
	if err != nil {
		return nil, err
	}
	if err := p.expect(']', open); err != nil {
		return nil, err
	}
	p.leave()

	// "!" repeats like "*"; when both are given the counts multiply
	sub := &ast.Subdivision{Inner: inner, Weight: 1}
	for p.atModifier() {
		switch p.peek().text[0] {
		case '*', '!':
			p.i++
			if n, ok := p.positiveInt(); ok {
				if sub.Repeat != nil {
					n *= *sub.Repeat
				}
				sub.Repeat = &n
			}
			continue
		case '/':
			p.i++
			if f, ok := p.positiveFloat(); ok {
				sub.Division = &f
			}
			continue
		case '@':
			p.i++
			if f, ok := p.positiveFloat(); ok {
				sub.Weight = f
			}
			continue
		}
		break
	}
	sub.Span = ast.Span{Start: open, End: p.pos()}
	return sub, nil
}

func (p *parser) parseAlternation() (ast.Node, *Error) {
	open := p.pos()
	if err := p.enter(open); err != nil {
		return nil, err
	}
	p.i++

	seq, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if err := p.expect('>', open); err != nil {
		return nil, err
	}
	p.leave()

	alt := &ast.Alternation{Options: seq.Children, Weight: 1}
	if p.punct('@') {
		p.i++
		if f, ok := p.positiveFloat(); ok {
			alt.Weight = f
		}
	}
	alt.Span = ast.Span{Start: open, End: p.pos()}
	return alt, nil
}

func (p *parser) parsePolymetric() (ast.Node, *Error) {
	open := p.pos()
	if err := p.enter(open); err != nil {
		return nil, err
	}
	p.i++

	var groups []*ast.Sequence
	for {
		seq, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		groups = append(groups, seq)
		if !p.punct(',') {
			break
		}
		p.i++
	}
	if err := p.expect('}', open); err != nil {
		return nil, err
	}
	p.leave()

	poly := &ast.Polymetric{Groups: groups, Weight: 1}
	if p.punct('%') {
		p.i++
		if n, ok := p.positiveInt(); ok {
			poly.Steps = &n
		}
	}
	if p.punct('@') {
		p.i++
		if f, ok := p.positiveFloat(); ok {
			poly.Weight = f
		}
	}
	poly.Span = ast.Span{Start: open, End: p.pos()}
	return poly, nil
}

func (p *parser) enter(open int) *Error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(open, "maximum nesting depth of %d exceeded", p.maxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// expect consumes the closing delimiter of the group opened at open
func (p *parser) expect(closer byte, open int) *Error {
	if p.eof() {
		return p.errorf(open, "unterminated %q", p.src[open])
	}
	if !p.punct(closer) {
		return p.errorf(p.pos(), "unexpected %s, expected %q to close %q at offset %d",
			p.describe(), closer, p.src[open], open)
	}
	p.i++
	return nil
}
