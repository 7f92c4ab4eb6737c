package ast

import (
	"encoding/json"

	"github.com/rpmessner/uzu-parser/internal/models"
)

// JSON shapes. Every node carries a "type" discriminator and its source span
// so editor tooling can map nodes back to the text.

type spanJSON struct {
	SourceStart int `json:"source_start"`
	SourceEnd   int `json:"source_end"`
}

func spanOf(s Span) spanJSON {
	return spanJSON{SourceStart: s.Start, SourceEnd: s.End}
}

func (n *Atom) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        Kind          `json:"type"`
		Value       string        `json:"value"`
		Sample      *int          `json:"sample,omitempty"`
		Weight      float64       `json:"weight"`
		Repeat      *int          `json:"repeat,omitempty"`
		Replicate   *int          `json:"replicate,omitempty"`
		Probability *float64      `json:"probability,omitempty"`
		Division    *float64      `json:"division,omitempty"`
		Speed       *float64      `json:"speed,omitempty"`
		Euclid      *Euclid       `json:"euclidean,omitempty"`
		Params      models.Params `json:"params"`
		spanJSON
	}{
		Type:        KindAtom,
		Value:       n.Value,
		Sample:      n.Sample,
		Weight:      Weight(n),
		Repeat:      n.Repeat,
		Replicate:   n.Replicate,
		Probability: n.Probability,
		Division:    n.Division,
		Speed:       n.Speed,
		Euclid:      n.Euclid,
		Params:      n.Params,
		spanJSON:    spanOf(n.Span),
	})
}

func (n *Rest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		spanJSON
	}{KindRest, spanOf(n.Span)})
}

func (n *Elongation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		spanJSON
	}{KindElongation, spanOf(n.Span)})
}

func (n *Sequence) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(struct {
		Type     Kind   `json:"type"`
		Children []Node `json:"children"`
		spanJSON
	}{KindSequence, children, spanOf(n.Span)})
}

func (n *Stack) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   Kind        `json:"type"`
		Groups []*Sequence `json:"groups"`
		spanJSON
	}{KindStack, n.Groups, spanOf(n.Span)})
}

func (n *Subdivision) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     Kind     `json:"type"`
		Inner    Node     `json:"inner"`
		Repeat   *int     `json:"repeat,omitempty"`
		Division *float64 `json:"division,omitempty"`
		Weight   float64  `json:"weight"`
		spanJSON
	}{KindSubdivision, n.Inner, n.Repeat, n.Division, Weight(n), spanOf(n.Span)})
}

func (n *Alternation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    Kind    `json:"type"`
		Options []Node  `json:"options"`
		Weight  float64 `json:"weight"`
		spanJSON
	}{KindAlternation, n.Options, Weight(n), spanOf(n.Span)})
}

func (n *Polymetric) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   Kind        `json:"type"`
		Groups []*Sequence `json:"groups"`
		Steps  *int        `json:"steps,omitempty"`
		Weight float64     `json:"weight"`
		spanJSON
	}{KindPolymetric, n.Groups, n.Steps, Weight(n), spanOf(n.Span)})
}

func (n *RandomChoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    Kind   `json:"type"`
		Options []Node `json:"options"`
		spanJSON
	}{KindRandomChoice, n.Options, spanOf(n.Span)})
}

func (n *ScaleDegree) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Kind `json:"type"`
		Value any  `json:"value"`
		spanJSON
	}{KindScaleDegree, n.Value(), spanOf(n.Span)})
}

func (n *ChordSymbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Kind   `json:"type"`
		Value string `json:"value"`
		spanJSON
	}{KindChordSymbol, n.Value, spanOf(n.Span)})
}

func (n *RomanNumeral) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  Kind   `json:"type"`
		Value string `json:"value"`
		spanJSON
	}{KindRomanNumeral, n.Value, spanOf(n.Span)})
}
