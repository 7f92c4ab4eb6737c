package parser

import (
	"strconv"

	"github.com/rpmessner/uzu-parser/internal/notation/ast"
)

// harmonyBoundary reports whether a harmony leaf may end before token i.
// A modifier or '|' right after the leaf turns it back into a plain atom.
func (p *parser) harmonyBoundary(i int) bool {
	t := p.at(i)
	return t.kind != tokenPunct || (!isModifier(t.text[0]) && t.text[0] != '|')
}

// scaleDegree recognises "^3", "^b7", "^#11" at the cursor
func (p *parser) scaleDegree() (ast.Node, bool) {
	t := p.peek()
	digits := t.text[1:]

	accidental := ""
	if digits != "" && (digits[0] == 'b' || digits[0] == '#') {
		accidental = digits[:1]
		digits = digits[1:]
	}
	if digits == "" || digits[0] == '0' || !allDigits(digits) || !p.harmonyBoundary(p.i+1) {
		return nil, false
	}
	degree, err := strconv.Atoi(digits)
	if err != nil || degree < 1 || degree > 13 {
		return nil, false
	}

	p.i++
	return &ast.ScaleDegree{
		Degree:     degree,
		Accidental: accidental,
		Span:       ast.Span{Start: t.start, End: t.end},
	}, true
}

// chordOrRoman recognises "@Dm7", "@C/E" and "@ii", "@bVII7" at the cursor
func (p *parser) chordOrRoman() (ast.Node, bool) {
	start := p.pos()
	name := p.at(p.i + 1)
	if name.kind != tokenWord {
		return nil, false
	}

	switch c := name.text[0]; {
	case c >= 'A' && c <= 'G':
		i := p.scanChord(p.i + 2)
		if !p.harmonyBoundary(i) {
			return nil, false
		}
		end := p.at(i).start
		p.i = i
		return &ast.ChordSymbol{Value: p.src[name.start:end], Span: ast.Span{Start: start, End: end}}, true

	case isRomanStart(c):
		letter := 0
		if c == 'b' || c == '#' {
			letter = 1
		}
		if letter >= len(name.text) || !isRomanLetter(name.text[letter]) || !p.harmonyBoundary(p.i+2) {
			return nil, false
		}
		p.i += 2
		return &ast.RomanNumeral{Value: name.text, Span: ast.Span{Start: start, End: name.end}}, true
	}
	return nil, false
}

// scanChord skips "/Bass" slash suffixes following the chord name at token i
func (p *parser) scanChord(i int) int {
	for isPunct(p.at(i), '/') {
		bass := p.at(i + 1)
		if bass.kind != tokenWord || bass.text[0] < 'A' || bass.text[0] > 'G' {
			break
		}
		i += 2
	}
	return i
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isRomanStart(c byte) bool {
	return isRomanLetter(c) || c == 'b' || c == '#'
}

func isRomanLetter(c byte) bool {
	switch c {
	case 'i', 'I', 'v', 'V':
		return true
	}
	return false
}
