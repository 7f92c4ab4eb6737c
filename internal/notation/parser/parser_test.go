package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpmessner/uzu-parser/internal/notation/ast"
)

func mustParse(t *testing.T, src string, opts ...Option) ast.Node {
	t.Helper()
	node, err := Parse(src, opts...)
	require.NoError(t, err, "parse %q", src)
	require.NotNil(t, node)
	return node
}

func items(t *testing.T, n ast.Node) []ast.Node {
	t.Helper()
	seq, ok := n.(*ast.Sequence)
	require.True(t, ok, "expected sequence, got %T", n)
	return seq.Children
}

func single(t *testing.T, src string) ast.Node {
	t.Helper()
	children := items(t, mustParse(t, src))
	require.Len(t, children, 1)
	return children[0]
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func TestParse_Sequence(t *testing.T) {
	children := items(t, mustParse(t, "bd sd hh sd"))
	require.Len(t, children, 4)

	var names []string
	for _, c := range children {
		atom, ok := c.(*ast.Atom)
		require.True(t, ok)
		names = append(names, atom.Value)
	}
	assert.Equal(t, []string{"bd", "sd", "hh", "sd"}, names)
	assert.Equal(t, ast.Span{Start: 3, End: 5}, children[1].Pos())
}

func TestParse_Empty(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\t"} {
		assert.Empty(t, items(t, mustParse(t, src)), "input %q", src)
	}
}

func TestParse_Separators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []ast.Kind
	}{
		{"whitespace", "bd \t\n sd", []ast.Kind{ast.KindAtom, ast.KindAtom}},
		{"bare dot", "bd . sd", []ast.Kind{ast.KindAtom, ast.KindAtom}},
		{"dot without spaces", "bd.sd", []ast.Kind{ast.KindAtom, ast.KindAtom}},
		{"adjacent groups", "[bd][sd]", []ast.Kind{ast.KindSubdivision, ast.KindSubdivision}},
		{"alternation after group", "[bd]<sd hh>", []ast.Kind{ast.KindSubdivision, ast.KindAlternation}},
		{"rest and elongation", "bd ~ _", []ast.Kind{ast.KindAtom, ast.KindRest, ast.KindElongation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var kinds []ast.Kind
			for _, c := range items(t, mustParse(t, tt.input)) {
				kinds = append(kinds, c.Kind())
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func TestParse_DottedNames(t *testing.T) {
	atom := single(t, "bd.2").(*ast.Atom)
	assert.Equal(t, "bd.2", atom.Value)

	atom = single(t, "0.5").(*ast.Atom)
	assert.Equal(t, "0.5", atom.Value)
}

func TestParse_Modifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *ast.Atom
	}{
		{"sample", "bd:3", &ast.Atom{Value: "bd", Sample: intPtr(3), Weight: 1}},
		{"euclid", "bd(3,8)", &ast.Atom{Value: "bd", Weight: 1, Euclid: &ast.Euclid{K: 3, N: 8}}},
		{"euclid with offset", "bd(3, 8, -2)", &ast.Atom{Value: "bd", Weight: 1, Euclid: &ast.Euclid{K: 3, N: 8, Offset: -2}}},
		{"bare probability", "bd?", &ast.Atom{Value: "bd", Weight: 1, Probability: floatPtr(0.5)}},
		{"probability", "bd?0.25", &ast.Atom{Value: "bd", Weight: 1, Probability: floatPtr(0.25)}},
		{"weight", "bd@1.5", &ast.Atom{Value: "bd", Weight: 1.5}},
		{"repeat", "bd*2", &ast.Atom{Value: "bd", Weight: 1, Repeat: intPtr(2)}},
		{"replicate", "bd!3", &ast.Atom{Value: "bd", Weight: 1, Replicate: intPtr(3)}},
		{"division", "bd/2", &ast.Atom{Value: "bd", Weight: 1, Division: floatPtr(2)}},
		{"speed", "bd%1.5", &ast.Atom{Value: "bd", Weight: 1, Speed: floatPtr(1.5)}},
		{"combined", "bd:1*2?", &ast.Atom{Value: "bd", Sample: intPtr(1), Weight: 1, Repeat: intPtr(2), Probability: floatPtr(0.5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atom, ok := single(t, tt.input).(*ast.Atom)
			require.True(t, ok)
			tt.want.Span = ast.Span{Start: 0, End: len(tt.input)}
			assert.Equal(t, tt.want, atom)
		})
	}
}

func TestParse_ModifierOrderIsIrrelevant(t *testing.T) {
	a := single(t, "bd*2@3:1").(*ast.Atom)
	b := single(t, "bd:1@3*2").(*ast.Atom)

	assert.Equal(t, a.Repeat, b.Repeat)
	assert.Equal(t, a.Weight, b.Weight)
	assert.Equal(t, a.Sample, b.Sample)
}

func TestParse_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"zero repeat", "bd*0"},
		{"zero weight", "bd@0"},
		{"probability above one", "bd?1.5"},
		{"k greater than n", "bd(5,3)"},
		{"zero k", "bd(0,8)"},
		{"non-numeric repeat", "bd*x"},
		{"non-numeric probability", "bd?x"},
		{"negative sample", "bd:-1"},
		{"fractional replicate", "bd!1.5"},
		{"duplicate modifier", "bd:1:2"},
		{"missing value", "bd@"},
		{"one euclid argument", "bd(3)"},
		{"infinite speed", "bd%inf"},
		{"zero division", "bd/0"},
		{"non-numeric division", "bd/x"},
		{"zero speed", "bd%0"},
		{"negative speed", "bd%-2"},
		{"euclid steps above limit", "bd(1,1000000)"},
		{"euclid steps just above limit", "bd(3,1025)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atom, ok := single(t, tt.input).(*ast.Atom)
			require.True(t, ok)
			assert.Equal(t, &ast.Atom{
				Value:  tt.input,
				Weight: 1,
				Span:   ast.Span{Start: 0, End: len(tt.input)},
			}, atom)
		})
	}
}

func TestParse_FallbackKeepsParams(t *testing.T) {
	atom := single(t, "bd*0|gain:0.5").(*ast.Atom)
	assert.Equal(t, "bd*0", atom.Value)
	assert.Nil(t, atom.Repeat)

	gain, ok := atom.Params.Float("gain")
	require.True(t, ok)
	assert.Equal(t, 0.5, gain)
	assert.Equal(t, ast.Span{Start: 0, End: 13}, atom.Span)
}

func TestParse_Params(t *testing.T) {
	atom := single(t, "bd:2|gain:0.8|vowel:a|n:3").(*ast.Atom)
	assert.Equal(t, []string{"gain", "vowel", "n"}, atom.Params.Keys())

	gain, _ := atom.Params.Get("gain")
	vowel, _ := atom.Params.Get("vowel")
	n, _ := atom.Params.Get("n")
	assert.Equal(t, 0.8, gain)
	assert.Equal(t, "a", vowel)
	assert.Equal(t, 3.0, n)
	assert.Equal(t, intPtr(2), atom.Sample)
}

func TestParse_RandomChoice(t *testing.T) {
	choice, ok := single(t, "bd*2|sd:3|~").(*ast.RandomChoice)
	require.True(t, ok)
	require.Len(t, choice.Options, 3)

	bd := choice.Options[0].(*ast.Atom)
	sd := choice.Options[1].(*ast.Atom)
	assert.Equal(t, intPtr(2), bd.Repeat)
	assert.Equal(t, intPtr(3), sd.Sample)
	assert.IsType(t, &ast.Rest{}, choice.Options[2])
	assert.Equal(t, ast.Span{Start: 0, End: 11}, choice.Span)
}

func TestParse_ParamsThenChoice(t *testing.T) {
	choice, ok := single(t, "bd|gain:1|sd|n").(*ast.RandomChoice)
	require.True(t, ok)
	require.Len(t, choice.Options, 3)

	bd := choice.Options[0].(*ast.Atom)
	assert.Equal(t, []string{"gain"}, bd.Params.Keys())
	assert.Equal(t, "sd", choice.Options[1].(*ast.Atom).Value)
	assert.Equal(t, "n", choice.Options[2].(*ast.Atom).Value)
}

func TestParse_Harmony(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Node
	}{
		{"scale degree", "^3", &ast.ScaleDegree{Degree: 3, Span: ast.Span{End: 2}}},
		{"flat degree", "^b7", &ast.ScaleDegree{Degree: 7, Accidental: "b", Span: ast.Span{End: 3}}},
		{"sharp degree", "^#11", &ast.ScaleDegree{Degree: 11, Accidental: "#", Span: ast.Span{End: 4}}},
		{"degree out of range", "^14", &ast.Atom{Value: "^14", Weight: 1, Span: ast.Span{End: 3}}},
		{"degree with leading zero", "^03", &ast.Atom{Value: "^03", Weight: 1, Span: ast.Span{End: 3}}},
		{"degree not a number", "^x", &ast.Atom{Value: "^x", Weight: 1, Span: ast.Span{End: 2}}},
		{"chord", "@Dm7", &ast.ChordSymbol{Value: "Dm7", Span: ast.Span{End: 4}}},
		{"slash chord", "@C/E", &ast.ChordSymbol{Value: "C/E", Span: ast.Span{End: 4}}},
		{"roman", "@ii", &ast.RomanNumeral{Value: "ii", Span: ast.Span{End: 3}}},
		{"flat roman", "@bVII7", &ast.RomanNumeral{Value: "bVII7", Span: ast.Span{End: 6}}},
		{"bare at", "@", &ast.Atom{Value: "@", Weight: 1, Span: ast.Span{End: 1}}},
		{"at digits", "@2", &ast.Atom{Value: "@2", Weight: 1, Span: ast.Span{End: 2}}},
		{"at word", "@bad", &ast.Atom{Value: "@bad", Weight: 1, Span: ast.Span{End: 4}}},
		{"weight after name", "bd@2", &ast.Atom{Value: "bd", Weight: 2, Span: ast.Span{End: 4}}},
		{"degree with modifier", "^3*2", &ast.Atom{Value: "^3", Weight: 1, Repeat: intPtr(2), Span: ast.Span{End: 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, single(t, tt.input))
		})
	}
}

func TestParse_Groups(t *testing.T) {
	sub, ok := single(t, "[bd sd]*2/1.5@3").(*ast.Subdivision)
	require.True(t, ok)
	assert.Equal(t, intPtr(2), sub.Repeat)
	assert.Equal(t, floatPtr(1.5), sub.Division)
	assert.Equal(t, 3.0, sub.Weight)
	assert.Len(t, items(t, sub.Inner), 2)
	assert.Equal(t, ast.Span{Start: 0, End: 15}, sub.Span)

	alt, ok := single(t, "<bd sd hh>@2").(*ast.Alternation)
	require.True(t, ok)
	assert.Len(t, alt.Options, 3)
	assert.Equal(t, 2.0, alt.Weight)

	poly, ok := single(t, "{bd sd, hh}%4").(*ast.Polymetric)
	require.True(t, ok)
	require.Len(t, poly.Groups, 2)
	assert.Len(t, poly.Groups[0].Children, 2)
	assert.Len(t, poly.Groups[1].Children, 1)
	assert.Equal(t, intPtr(4), poly.Steps)
	assert.Equal(t, 1.0, poly.Weight)

	stack, ok := single(t, "[bd, sd, hh]").(*ast.Subdivision)
	require.True(t, ok)
	inner, ok := stack.Inner.(*ast.Stack)
	require.True(t, ok)
	assert.Len(t, inner.Groups, 3)
}

func TestParse_GroupReplicate(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"[bd sd]!2", 2},
		{"[bd sd]*2", 2},
		{"[bd]!2*3", 6},
		{"[bd]*3!2", 6},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sub, ok := single(t, tt.input).(*ast.Subdivision)
			require.True(t, ok)
			assert.Equal(t, intPtr(tt.want), sub.Repeat)
			assert.Equal(t, ast.Span{Start: 0, End: len(tt.input)}, sub.Span)
		})
	}
}

func TestParse_EuclidAtStepLimit(t *testing.T) {
	atom := single(t, "bd(3,1024)").(*ast.Atom)
	require.NotNil(t, atom.Euclid)
	assert.Equal(t, 1024, atom.Euclid.N)
	assert.Equal(t, "bd", atom.Value)
}

func TestParse_InvalidGroupModifiersIgnored(t *testing.T) {
	sub := single(t, "[bd sd]*0").(*ast.Subdivision)
	assert.Nil(t, sub.Repeat)
	assert.Equal(t, ast.Span{Start: 0, End: 9}, sub.Span)

	poly := single(t, "{bd}%0@x").(*ast.Polymetric)
	assert.Nil(t, poly.Steps)
	assert.Equal(t, 1.0, poly.Weight)
}

func TestParse_TopLevelStack(t *testing.T) {
	stack, ok := mustParse(t, "bd sd, hh hh hh").(*ast.Stack)
	require.True(t, ok)
	require.Len(t, stack.Groups, 2)
	assert.Len(t, stack.Groups[0].Children, 2)
	assert.Len(t, stack.Groups[1].Children, 3)
}

func TestParse_SpansCoverLiteralText(t *testing.T) {
	src := "bd:3 [sd*2 hh?] <cp ~>@2 {arp(3,8) ^b7, @Dm7 hh|gain:0.5}"
	want := []string{"bd:3", "sd*2", "hh?", "cp", "~", "arp(3,8)", "^b7", "@Dm7", "hh|gain:0.5"}

	var got []string
	ast.Walk(mustParse(t, src), func(n ast.Node) bool {
		switch n.(type) {
		case *ast.Atom, *ast.Rest, *ast.ScaleDegree, *ast.ChordSymbol:
			span := n.Pos()
			got = append(got, src[span.Start:span.End])
		}
		return true
	})
	assert.Equal(t, want, got)
}

func TestParse_Idempotent(t *testing.T) {
	src := "bd*2 [sd, hh(3,8)] <cp sn>@2 {a b, c}%3 bd|sd ^3 @ii"
	first := mustParse(t, src)
	second := mustParse(t, src)
	assert.Equal(t, first, second)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		offset    int
		message   string
		remaining string
	}{
		{"unterminated subdivision", "[bd sd", 0, "unterminated", "[bd sd"},
		{"unterminated alternation", "bd <sd hh", 3, "unterminated", "<sd hh"},
		{"unterminated polymetric", "{bd, sd", 0, "unterminated", "{bd, sd"},
		{"unterminated euclid", "bd(3,8", 2, "unterminated", "(3,8"},
		{"mismatched closer", "[bd>", 3, "expected", ">"},
		{"missing separator after atom", "bd~", 2, "separator", "~"},
		{"missing separator after group", "[a]b", 3, "separator", "b"},
		{"trailing closer", "bd sd]", 5, "unexpected", "]"},
		{"stray symbol", "bd )", 3, "unexpected", ")"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, node)

			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.offset, perr.Offset)
			assert.Contains(t, perr.Message, tt.message)
			assert.Equal(t, tt.remaining, perr.Remaining)
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("bd sd\nhh [cp")
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 4, perr.Column)

	// columns count runes, not bytes
	_, err = Parse("é [a")
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Offset)
	assert.Equal(t, 1, perr.Line)
	assert.Equal(t, 3, perr.Column)
}

func TestParse_MaxDepth(t *testing.T) {
	deep := strings.Repeat("[", DefaultMaxDepth+1) + "bd" + strings.Repeat("]", DefaultMaxDepth+1)
	_, err := Parse(deep)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, DefaultMaxDepth, perr.Offset)
	assert.Contains(t, perr.Message, "depth")

	ok := strings.Repeat("[", DefaultMaxDepth) + "bd" + strings.Repeat("]", DefaultMaxDepth)
	mustParse(t, ok)

	_, err = Parse("[[[a]]]", WithMaxDepth(2))
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Offset)

	mustParse(t, "[[a]] <[b]>", WithMaxDepth(2))
}

func TestError_Snippet(t *testing.T) {
	src := "bd sd\nhh [cp"
	_, err := Parse(src)
	var perr *Error
	require.True(t, errors.As(err, &perr))

	snippet := perr.Snippet(src)
	lines := strings.Split(snippet, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "PARSE ERROR at 2:4: unterminated '['", lines[0])
	assert.Equal(t, "   2 | hh [cp", lines[2])
	assert.Equal(t, strings.Repeat(" ", 10)+"^", lines[3])
}

func TestIsKnownParam(t *testing.T) {
	assert.True(t, IsKnownParam("gain"))
	assert.True(t, IsKnownParam("n"))
	assert.False(t, IsKnownParam("sd"))
	assert.False(t, IsKnownParam(""))
}
