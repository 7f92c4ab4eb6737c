// Package ast defines the syntax tree produced by the mini-notation parser.
//
// Nodes form a closed set: every node type implements Node through an
// unexported marker method, so switches over Node can be exhaustive.
// Trees are built once by the parser and never mutated afterwards.
package ast

import (
	"strconv"

	"github.com/rpmessner/uzu-parser/internal/models"
)

// Kind discriminates node variants in the external (JSON) shape
type Kind string

const (
	KindAtom         Kind = "atom"
	KindRest         Kind = "rest"
	KindElongation   Kind = "elongation"
	KindSequence     Kind = "sequence"
	KindStack        Kind = "stack"
	KindSubdivision  Kind = "subdivision"
	KindAlternation  Kind = "alternation"
	KindPolymetric   Kind = "polymetric"
	KindRandomChoice Kind = "random_choice"
	KindScaleDegree  Kind = "scale_degree"
	KindChordSymbol  Kind = "chord_symbol"
	KindRomanNumeral Kind = "roman_numeral"
)

// Span is a half-open byte interval [Start, End) of the source
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered
func (s Span) Len() int { return s.End - s.Start }

// Node is implemented by every AST node
type Node interface {
	Kind() Kind
	Pos() Span
	node()
}

// Euclid holds the (k, n, offset) arguments of a Euclidean modifier
type Euclid struct {
	K      int `json:"k"`
	N      int `json:"n"`
	Offset int `json:"offset"`
}

// Atom is a sound name with its modifiers
type Atom struct {
	Value       string
	Sample      *int
	Weight      float64
	Repeat      *int
	Replicate   *int
	Probability *float64
	Division    *float64
	Speed       *float64
	Euclid      *Euclid
	Params      models.Params
	Span        Span
}

// Rest is "~": silent, but takes up its slot
type Rest struct {
	Span Span
}

// Elongation is a standalone "_" extending the previous item
type Elongation struct {
	Span Span
}

// Sequence is an ordered list of items sharing a window by weight
type Sequence struct {
	Children []Node
	Span     Span
}

// Stack plays its groups simultaneously over the same window
type Stack struct {
	Groups []*Sequence
	Span   Span
}

// Subdivision is a bracketed group "[...]"
type Subdivision struct {
	Inner    Node
	Repeat   *int
	Division *float64
	Weight   float64
	Span     Span
}

// Alternation is "<...>": one option per cycle, chosen downstream
type Alternation struct {
	Options []Node
	Weight  float64
	Span    Span
}

// Polymetric is "{...}" with optional "%steps"
type Polymetric struct {
	Groups []*Sequence
	Steps  *int
	Weight float64
	Span   Span
}

// RandomChoice is "a|b|c": one option picked at random downstream
type RandomChoice struct {
	Options []Node
	Span    Span
}

// ScaleDegree is "^3", "^b7" or "^#11"
type ScaleDegree struct {
	Degree     int
	Accidental string
	Span       Span
}

// Value returns the degree as an int, or as a string like "b7" when it carries an accidental
func (s *ScaleDegree) Value() any {
	if s.Accidental == "" {
		return s.Degree
	}
	return s.Accidental + strconv.Itoa(s.Degree)
}

// ChordSymbol is "@Dm7"
type ChordSymbol struct {
	Value string
	Span  Span
}

// RomanNumeral is "@ii", "@V7", "@bVII"
type RomanNumeral struct {
	Value string
	Span  Span
}

func (*Atom) Kind() Kind         { return KindAtom }
func (*Rest) Kind() Kind         { return KindRest }
func (*Elongation) Kind() Kind   { return KindElongation }
func (*Sequence) Kind() Kind     { return KindSequence }
func (*Stack) Kind() Kind        { return KindStack }
func (*Subdivision) Kind() Kind  { return KindSubdivision }
func (*Alternation) Kind() Kind  { return KindAlternation }
func (*Polymetric) Kind() Kind   { return KindPolymetric }
func (*RandomChoice) Kind() Kind { return KindRandomChoice }
func (*ScaleDegree) Kind() Kind  { return KindScaleDegree }
func (*ChordSymbol) Kind() Kind  { return KindChordSymbol }
func (*RomanNumeral) Kind() Kind { return KindRomanNumeral }

func (n *Atom) Pos() Span         { return n.Span }
func (n *Rest) Pos() Span         { return n.Span }
func (n *Elongation) Pos() Span   { return n.Span }
func (n *Sequence) Pos() Span     { return n.Span }
func (n *Stack) Pos() Span        { return n.Span }
func (n *Subdivision) Pos() Span  { return n.Span }
func (n *Alternation) Pos() Span  { return n.Span }
func (n *Polymetric) Pos() Span   { return n.Span }
func (n *RandomChoice) Pos() Span { return n.Span }
func (n *ScaleDegree) Pos() Span  { return n.Span }
func (n *ChordSymbol) Pos() Span  { return n.Span }
func (n *RomanNumeral) Pos() Span { return n.Span }

func (*Atom) node()         {}
func (*Rest) node()         {}
func (*Elongation) node()   {}
func (*Sequence) node()     {}
func (*Stack) node()        {}
func (*Subdivision) node()  {}
func (*Alternation) node()  {}
func (*Polymetric) node()   {}
func (*RandomChoice) node() {}
func (*ScaleDegree) node()  {}
func (*ChordSymbol) node()  {}
func (*RomanNumeral) node() {}

// Weight returns the relative share a node claims inside its sequence.
// Nodes without a weight modifier weigh 1.
func Weight(n Node) float64 {
	var w float64
	switch v := n.(type) {
	case *Atom:
		w = v.Weight
	case *Subdivision:
		w = v.Weight
	case *Alternation:
		w = v.Weight
	case *Polymetric:
		w = v.Weight
	}
	if w <= 0 {
		return 1
	}
	return w
}

// Walk calls fn for n and every descendant in depth-first source order.
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Sequence:
		for _, c := range v.Children {
			Walk(c, fn)
		}
	case *Stack:
		for _, g := range v.Groups {
			Walk(g, fn)
		}
	case *Subdivision:
		Walk(v.Inner, fn)
	case *Alternation:
		for _, o := range v.Options {
			Walk(o, fn)
		}
	case *Polymetric:
		for _, g := range v.Groups {
			Walk(g, fn)
		}
	case *RandomChoice:
		for _, o := range v.Options {
			Walk(o, fn)
		}
	}
}
