// Package interpreter flattens a mini-notation AST into the time-ordered
// events of one cycle.
package interpreter

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rpmessner/uzu-parser/internal/harmony"
	"github.com/rpmessner/uzu-parser/internal/models"
	"github.com/rpmessner/uzu-parser/internal/notation/ast"
	"github.com/rpmessner/uzu-parser/internal/notation/euclid"
)

// Param keys written by the interpreter
const (
	ParamProbability  = "probability"
	ParamDivision     = "division"
	ParamSpeed        = "speed"
	ParamJazz         = "jazz"
	ParamNotes        = "notes"
	ParamSemitones    = "semitones"
	ParamDegree       = "degree"
	ParamQuality      = "quality"
	ParamAlternate    = "alternate"
	ParamRandomChoice = "random_choice"
)

// RestSound names a rest inside serialized option lists
const RestSound = "~"

// DefaultMaxEvents bounds the events a single pattern may expand to
const DefaultMaxEvents = 10000

// nodeBudgetFactor gives silent nodes (rests, empty repeats) more headroom
// than sounding ones while still bounding the walk
const nodeBudgetFactor = 4

// Option configures an interpretation
type Option func(*walker)

// WithMaxEvents overrides the event budget. Values below 1 keep the default.
func WithMaxEvents(n int) Option {
	return func(w *walker) {
		if n > 0 {
			w.maxEvents = n
		}
	}
}

// LimitError reports a pattern whose repeats expand past the event budget
type LimitError struct {
	Limit int `json:"limit"`
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("pattern expands beyond %d events", e.Limit)
}

// Interpret returns the events of root over the cycle [0, 1), sorted by
// time. Events starting together keep source order.
func Interpret(root ast.Node, opts ...Option) ([]models.Event, error) {
	return InterpretWindow(root, 0, 1, opts...)
}

// InterpretWindow interprets root over [start, start+duration).
// The returned error, if any, is a *LimitError.
func InterpretWindow(root ast.Node, start, duration float64, opts ...Option) ([]models.Event, error) {
	w := &walker{events: make([]models.Event, 0), maxEvents: DefaultMaxEvents}
	for _, opt := range opts {
		opt(w)
	}
	if root == nil || duration <= 0 {
		return w.events, nil
	}

	w.node(root, start, duration, scope{})
	if w.err != nil {
		return nil, w.err
	}

	sort.SliceStable(w.events, func(i, j int) bool {
		return w.events[i].Time < w.events[j].Time
	})
	return w.events, nil
}

// scope carries modifiers inherited from enclosing groups
type scope struct {
	division    float64
	hasDivision bool
}

func (s scope) divide(by float64) scope {
	if !s.hasDivision {
		return scope{division: by, hasDivision: true}
	}
	return scope{division: s.division * by, hasDivision: true}
}

type walker struct {
	events    []models.Event
	maxEvents int
	visits    int
	err       *LimitError
}

// done reports whether the budget is spent; the walk unwinds once it is
func (w *walker) done() bool {
	return w.err != nil
}

func (w *walker) exceed() {
	if w.err == nil {
		w.err = &LimitError{Limit: w.maxEvents}
	}
}

func (w *walker) add(e models.Event) {
	if len(w.events) >= w.maxEvents {
		w.exceed()
		return
	}
	w.events = append(w.events, e)
}

func (w *walker) node(n ast.Node, start, dur float64, s scope) {
	if w.done() {
		return
	}
	w.visits++
	if w.visits > w.maxEvents*nodeBudgetFactor {
		w.exceed()
		return
	}

	switch v := n.(type) {
	case *ast.Atom:
		w.atom(v, start, dur, s)
	case *ast.Rest, *ast.Elongation:
	case *ast.Sequence:
		w.sequence(v.Children, start, dur, s)
	case *ast.Stack:
		for _, g := range v.Groups {
			w.sequence(g.Children, start, dur, s)
		}
	case *ast.Subdivision:
		w.subdivision(v, start, dur, s)
	case *ast.Alternation:
		w.choice(ParamAlternate, v.Options, v.Span, start, dur, s)
	case *ast.RandomChoice:
		w.choice(ParamRandomChoice, v.Options, v.Span, start, dur, s)
	case *ast.Polymetric:
		w.polymetric(v, start, dur, s)
	case *ast.ScaleDegree, *ast.ChordSymbol, *ast.RomanNumeral:
		w.harmony(v, start, dur, s)
	}
}

type slot struct {
	node   ast.Node
	weight float64
}

// sequence shares the window between children by weight. Each elongation
// adds one unit of weight to the item before it.
func (w *walker) sequence(children []ast.Node, start, dur float64, s scope) {
	slots := make([]slot, 0, len(children))
	for _, child := range children {
		if _, ok := child.(*ast.Elongation); ok {
			if len(slots) > 0 {
				slots[len(slots)-1].weight++
				continue
			}
			slots = append(slots, slot{node: child, weight: 1})
			continue
		}
		slots = append(slots, slot{node: child, weight: ast.Weight(child)})
	}

	var total float64
	for _, sl := range slots {
		total += sl.weight
	}
	if total <= 0 {
		return
	}

	cursor := start
	for _, sl := range slots {
		d := sl.weight / total * dur
		w.node(sl.node, cursor, d, s)
		cursor += d
	}
}

func (w *walker) subdivision(v *ast.Subdivision, start, dur float64, s scope) {
	if v.Division != nil {
		s = s.divide(*v.Division)
	}
	n := 1
	if v.Repeat != nil && *v.Repeat > 0 {
		n = *v.Repeat
	}
	step := dur / float64(n)
	for i := 0; i < n && !w.done(); i++ {
		w.node(v.Inner, start+float64(i)*step, step, s)
	}
}

func (w *walker) polymetric(v *ast.Polymetric, start, dur float64, s scope) {
	if v.Steps == nil || *v.Steps <= 0 {
		for _, g := range v.Groups {
			w.sequence(g.Children, start, dur, s)
		}
		return
	}

	steps := *v.Steps
	step := dur / float64(steps)
	for _, g := range v.Groups {
		items := make([]ast.Node, 0, len(g.Children))
		for _, child := range g.Children {
			if _, ok := child.(*ast.Elongation); !ok {
				items = append(items, child)
			}
		}
		if len(items) == 0 {
			continue
		}
		for i := 0; i < steps && !w.done(); i++ {
			w.node(items[i%len(items)], start+float64(i)*step, step, s)
		}
	}
}

func (w *walker) atom(a *ast.Atom, start, dur float64, s scope) {
	copies := 1
	if a.Repeat != nil && *a.Repeat > 0 {
		copies *= *a.Repeat
	}
	if a.Replicate != nil && *a.Replicate > 0 {
		copies *= *a.Replicate
	}

	var pattern []bool
	if a.Euclid != nil {
		p, err := euclid.Pattern(a.Euclid.K, a.Euclid.N, a.Euclid.Offset)
		if err != nil {
			return
		}
		pattern = p
	}

	params := atomParams(a, s)
	sub := dur / float64(copies)

	for i := 0; i < copies && !w.done(); i++ {
		t := start + float64(i)*sub
		if pattern == nil {
			w.emit(a, t, sub, params)
			continue
		}

		step := sub / float64(len(pattern))
		for j, onset := range pattern {
			if onset {
				w.emit(a, t+float64(j)*step, step, params)
			}
		}
	}
}

func atomParams(a *ast.Atom, s scope) models.Params {
	var params models.Params
	if a.Probability != nil {
		params.Set(ParamProbability, *a.Probability)
	}
	switch {
	case a.Division != nil && s.hasDivision:
		params.Set(ParamDivision, *a.Division*s.division)
	case a.Division != nil:
		params.Set(ParamDivision, *a.Division)
	case s.hasDivision:
		params.Set(ParamDivision, s.division)
	}
	if a.Speed != nil {
		params.Set(ParamSpeed, *a.Speed)
	}
	params.Merge(a.Params)
	return params
}

func (w *walker) emit(a *ast.Atom, t, dur float64, params models.Params) {
	w.add(models.Event{
		Sound:       a.Value,
		Sample:      copyInt(a.Sample),
		Time:        t,
		Duration:    dur,
		Params:      params.Clone(),
		SourceStart: a.Span.Start,
		SourceEnd:   a.Span.End,
	})
}

// choice collapses an alternation or random choice into one event carrying
// every option; picking one per cycle is left to the player.
func (w *walker) choice(key string, options []ast.Node, span ast.Span, start, dur float64, s scope) {
	summaries := make([]models.Option, 0, len(options))
	chosen := -1
	for _, opt := range options {
		if _, ok := opt.(*ast.Elongation); ok {
			continue
		}
		summary, ok := summarize(opt)
		if !ok {
			summaries = append(summaries, models.Option{Sound: RestSound})
			continue
		}
		if chosen < 0 {
			chosen = len(summaries)
		}
		summaries = append(summaries, summary)
	}
	if chosen < 0 {
		return
	}

	var params models.Params
	if s.hasDivision {
		params.Set(ParamDivision, s.division)
	}
	params.Set(key, summaries)

	w.add(models.Event{
		Sound:       summaries[chosen].Sound,
		Sample:      copyInt(summaries[chosen].Sample),
		Time:        start,
		Duration:    dur,
		Params:      params,
		SourceStart: span.Start,
		SourceEnd:   span.End,
	})
}

// summarize describes the first sounding leaf of n, depth first
func summarize(n ast.Node) (models.Option, bool) {
	var (
		out   models.Option
		found bool
	)
	ast.Walk(n, func(node ast.Node) bool {
		if found {
			return false
		}
		switch v := node.(type) {
		case *ast.Atom:
			out = models.Option{Sound: v.Value, Sample: copyInt(v.Sample), Probability: copyFloat(v.Probability)}
			found = true
		case *ast.ScaleDegree, *ast.ChordSymbol, *ast.RomanNumeral:
			out = models.Option{Sound: harmonyText(v)}
			found = true
		}
		return !found
	})
	return out, found
}

func (w *walker) harmony(n ast.Node, start, dur float64, s scope) {
	var params models.Params
	if s.hasDivision {
		params.Set(ParamDivision, s.division)
	}

	switch v := n.(type) {
	case *ast.ScaleDegree:
		params.Set(ParamJazz, models.Harmony{Type: models.HarmonyScaleDegree, Value: v.Value()})
		if semitones, err := harmony.ScaleDegreeSemitones(v.Degree, v.Accidental); err == nil {
			params.Set(ParamSemitones, semitones)
		}
	case *ast.ChordSymbol:
		params.Set(ParamJazz, models.Harmony{Type: models.HarmonyChordSymbol, Value: v.Value})
		if notes, err := harmony.ChordToMIDI(v.Value, harmony.DefaultOctave); err == nil {
			params.Set(ParamNotes, notes)
		}
	case *ast.RomanNumeral:
		params.Set(ParamJazz, models.Harmony{Type: models.HarmonyRomanNumeral, Value: v.Value})
		if r, err := harmony.ParseRomanNumeral(v.Value); err == nil {
			params.Set(ParamDegree, r.Degree)
			params.Set(ParamQuality, r.Quality)
		}
	}

	span := n.Pos()
	w.add(models.Event{
		Sound:       harmonyText(n),
		Time:        start,
		Duration:    dur,
		Params:      params,
		SourceStart: span.Start,
		SourceEnd:   span.End,
	})
}

// harmonyText rebuilds the literal source text of a harmony leaf
func harmonyText(n ast.Node) string {
	switch v := n.(type) {
	case *ast.ScaleDegree:
		return "^" + v.Accidental + strconv.Itoa(v.Degree)
	case *ast.ChordSymbol:
		return "@" + v.Value
	case *ast.RomanNumeral:
		return "@" + v.Value
	}
	return ""
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
