package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/rpmessner/uzu-parser/internal/models"
	"github.com/rpmessner/uzu-parser/internal/notation/ast"
	"github.com/rpmessner/uzu-parser/internal/notation/euclid"
)

// parseAtom parses a sound name, its modifiers and any trailing |key:value
// parameters. If a modifier is malformed the whole name+modifier text
// becomes the sound name and no modifiers are kept.
func (p *parser) parseAtom() (*ast.Atom, *Error) {
	start := p.pos()
	if p.punct('@') {
		p.i++
	}
	if p.peek().kind == tokenWord {
		p.i++
	}

	atom := &ast.Atom{Value: p.src[start:p.pos()], Weight: 1}
	valid := true
	seen := make(map[byte]bool)

	for p.atModifier() {
		mod := p.peek().text[0]
		if seen[mod] {
			valid = false
		}
		seen[mod] = true

		ok, err := p.parseModifier(atom, mod)
		if err != nil {
			return nil, err
		}
		if !ok {
			valid = false
		}
	}

	end := p.pos()
	if !valid {
		atom = &ast.Atom{Value: p.src[start:end], Weight: 1}
	}

	atom.Params = p.parseParams()
	atom.Span = ast.Span{Start: start, End: p.pos()}
	return atom, nil
}

// parseModifier consumes one modifier starting at the cursor and stores it on
// atom. It reports false when the value is malformed or out of range.
func (p *parser) parseModifier(atom *ast.Atom, mod byte) (bool, *Error) {
	open := p.pos()
	p.i++

	switch mod {
	case ':':
		n, err := strconv.Atoi(p.scanValue())
		if err != nil || n < 0 {
			return false, nil
		}
		atom.Sample = &n

	case '(':
		e, ok, err := p.parseEuclid(open)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		atom.Euclid = e

	case '?':
		prob := 0.5
		if p.atProbabilityValue() {
			f, ok := parseFloat(p.scanValue())
			if !ok || f < 0 || f > 1 {
				return false, nil
			}
			prob = f
		}
		atom.Probability = &prob

	case '@':
		f, ok := parseFloat(p.scanValue())
		if !ok || f <= 0 {
			return false, nil
		}
		atom.Weight = f

	case '*':
		n, err := strconv.Atoi(p.scanValue())
		if err != nil || n <= 0 {
			return false, nil
		}
		atom.Repeat = &n

	case '!':
		n, err := strconv.Atoi(p.scanValue())
		if err != nil || n <= 0 {
			return false, nil
		}
		atom.Replicate = &n

	case '/':
		f, ok := parseFloat(p.scanValue())
		if !ok || f <= 0 {
			return false, nil
		}
		atom.Division = &f

	case '%':
		f, ok := parseFloat(p.scanValue())
		if !ok || f <= 0 {
			return false, nil
		}
		atom.Speed = &f
	}
	return true, nil
}

// atProbabilityValue reports whether the token after '?' is its value.
// A bare '?' keeps the default probability.
func (p *parser) atProbabilityValue() bool {
	t := p.peek()
	if t.kind != tokenWord && t.kind != tokenPlus {
		return false
	}
	return startsNumber(p.src[t.start:]) || isASCIILetter(t.text[0])
}

// parseEuclid reads "(k,n[,offset])" with the cursor just past the '('.
// Step counts above euclid.MaxSteps are treated like any other bad value.
func (p *parser) parseEuclid(open int) (*ast.Euclid, bool, *Error) {
	for !p.eof() && !p.punct(')') {
		if t := p.peek(); t.kind == tokenPunct {
			if c := t.text[0]; isOpener(c) || isCloser(c) || c == '|' || c == '(' {
				break
			}
		}
		p.i++
	}
	if !p.punct(')') {
		return nil, false, p.errorf(open, "unterminated %q", '(')
	}
	body := p.src[open+1 : p.pos()]
	p.i++

	parts := strings.Split(body, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, false, nil
	}
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false, nil
		}
		nums[i] = n
	}

	e := &ast.Euclid{K: nums[0], N: nums[1]}
	if len(nums) == 3 {
		e.Offset = nums[2]
	}
	if !euclid.Valid(e.K, e.N) {
		return nil, false, nil
	}
	return e, true, nil
}

// parseParams consumes "|key:value" segments for known parameter names.
// Anything else after '|' is left for the random choice parser.
func (p *parser) parseParams() models.Params {
	var params models.Params
	for p.punct('|') {
		key, value, next, ok := p.paramAt(p.i + 1)
		if !ok {
			break
		}
		params.Set(key, value)
		p.i = next
	}
	return params
}

// paramAt reads "key:value" starting at token i and returns the index of
// the token after the value
func (p *parser) paramAt(i int) (string, any, int, bool) {
	key := p.at(i)
	if key.kind != tokenWord || !IsKnownParam(key.text) || !isPunct(p.at(i+1), ':') {
		return "", nil, 0, false
	}
	i += 2

	valueStart := p.at(i).start
	for k := p.at(i).kind; k == tokenWord || k == tokenPlus; k = p.at(i).kind {
		i++
	}
	if p.at(i).start == valueStart {
		return "", nil, 0, false
	}
	raw := p.src[valueStart:p.at(i).start]
	if f, ok := parseFloat(raw); ok {
		return key.text, f, i, true
	}
	return key.text, raw, i, true
}

// positiveInt consumes a value and reports whether it is an int > 0
func (p *parser) positiveInt() (int, bool) {
	n, err := strconv.Atoi(p.scanValue())
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// positiveFloat consumes a value and reports whether it is a finite float > 0
func (p *parser) positiveFloat() (float64, bool) {
	f, ok := parseFloat(p.scanValue())
	if !ok || f <= 0 {
		return 0, false
	}
	return f, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
