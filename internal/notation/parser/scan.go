package parser

import (
	"errors"

	"github.com/alecthomas/participle/v2/lexer"
)

// notationLexer splits a pattern into words, separators and punctuation.
// Rules are tried in order: a '.' followed by a digit stays inside a word
// ("bd.2", "0.5") before the bare-dot separator rule gets a chance.
// Any non-ASCII rune is a word character so UTF-8 sound names pass through.
var notationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Space", Pattern: `[ \t\r\n]+`},
	{Name: "Word", Pattern: `(?:[A-Za-z0-9#^_\-]|[^\x00-\x7F]|\.[0-9])+`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Punct", Pattern: `[~:?@!*/%()|\[\]<>{},]`},
	{Name: "Other", Pattern: `(?s:.)`},
})

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenSpace
	tokenWord
	tokenDot
	tokenPlus
	tokenPunct
	tokenOther
)

var tokenKinds = func() map[lexer.TokenType]tokenKind {
	symbols := notationLexer.Symbols()
	return map[lexer.TokenType]tokenKind{
		symbols["Space"]: tokenSpace,
		symbols["Word"]:  tokenWord,
		symbols["Dot"]:   tokenDot,
		symbols["Plus"]:  tokenPlus,
		symbols["Punct"]: tokenPunct,
		symbols["Other"]: tokenOther,
	}
}()

// token is a lexer token reduced to its kind and byte span in the source
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

// tokenize lexes src completely. Every byte of src belongs to exactly one
// token, so the start of a token is always the end of the one before it.
func tokenize(src string) ([]token, *Error) {
	lex, err := notationLexer.LexString("", src)
	if err != nil {
		return nil, lexError(src, err)
	}

	var tokens []token
	for {
		t, err := lex.Next()
		if err != nil {
			return nil, lexError(src, err)
		}
		if t.EOF() {
			break
		}
		tokens = append(tokens, token{
			kind:  tokenKinds[t.Type],
			text:  t.Value,
			start: t.Pos.Offset,
			end:   t.Pos.Offset + len(t.Value),
		})
	}
	return append(tokens, token{kind: tokenEOF, start: len(src), end: len(src)}), nil
}

func lexError(src string, err error) *Error {
	p := &parser{src: src}
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		return p.errorf(lerr.Pos.Offset, "%s", lerr.Msg)
	}
	return p.errorf(0, "%s", err.Error())
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isOpener(c byte) bool {
	return c == '[' || c == '<' || c == '{'
}

func isCloser(c byte) bool {
	return c == ']' || c == '>' || c == '}'
}

// isTerminator reports whether c ends the current sequence
func isTerminator(c byte) bool {
	return isCloser(c) || c == ','
}

func isModifier(c byte) bool {
	switch c {
	case ':', '(', '?', '@', '*', '!', '/', '%':
		return true
	}
	return false
}

// startsNumber reports whether s begins with a numeric literal
func startsNumber(s string) bool {
	if s == "" {
		return false
	}
	if isDigit(s[0]) {
		return true
	}
	if s[0] == '.' || s[0] == '-' || s[0] == '+' {
		rest := s[1:]
		return rest != "" && (isDigit(rest[0]) || (rest[0] == '.' && len(rest) > 1 && isDigit(rest[1])))
	}
	return false
}

// at returns the token at index i, or the EOF token past the end
func (p *parser) at(i int) token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *parser) peek() token {
	return p.at(p.i)
}

func (p *parser) eof() bool {
	return p.peek().kind == tokenEOF
}

// pos is the byte offset of the cursor
func (p *parser) pos() int {
	return p.peek().start
}

func isPunct(t token, c byte) bool {
	return t.kind == tokenPunct && t.text[0] == c
}

// punct reports whether the cursor is on the punctuation c
func (p *parser) punct(c byte) bool {
	return isPunct(p.peek(), c)
}

func (p *parser) atTerminator() bool {
	t := p.peek()
	return t.kind == tokenPunct && isTerminator(t.text[0])
}

func (p *parser) atModifier() bool {
	t := p.peek()
	return t.kind == tokenPunct && isModifier(t.text[0])
}

// scanValue consumes a modifier value: the adjacent word and '+' tokens.
// Letters are included so that "bd*x" is swallowed whole and handled by the
// literal fallback.
func (p *parser) scanValue() string {
	start := p.pos()
	for k := p.peek().kind; k == tokenWord || k == tokenPlus; k = p.peek().kind {
		p.i++
	}
	return p.src[start:p.pos()]
}

// skipSeparators consumes whitespace and bare dots
func (p *parser) skipSeparators() {
	for k := p.peek().kind; k == tokenSpace || k == tokenDot; k = p.peek().kind {
		p.i++
	}
}

// consumeSeparator consumes the separator between two sequence items.
// A closing delimiter directly followed by an opening one counts as a
// zero-width separator.
func (p *parser) consumeSeparator() bool {
	if k := p.peek().kind; k == tokenSpace || k == tokenDot {
		p.skipSeparators()
		return true
	}
	if p.i == 0 {
		return false
	}
	prev, next := p.tokens[p.i-1], p.peek()
	return prev.kind == tokenPunct && isCloser(prev.text[0]) &&
		next.kind == tokenPunct && isOpener(next.text[0])
}
