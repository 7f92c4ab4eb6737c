package sheet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpmessner/uzu-parser/internal/notation/interpreter"
	"github.com/rpmessner/uzu-parser/internal/notation/parser"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	require.NoError(t, err)
	return p
}

func TestParser_Parse(t *testing.T) {
	p := newParser(t)

	patterns, err := p.Parse(context.Background(),
		`pattern(name="drums", notation="bd*2 [sd cp]", orbit=1); pattern(name="bass", notation="<c2 e2>")`)
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	drums := patterns[0]
	assert.Equal(t, "drums", drums.Name)
	assert.Equal(t, "bd*2 [sd cp]", drums.Notation)
	require.NotNil(t, drums.Orbit)
	assert.Equal(t, 1, *drums.Orbit)
	require.Len(t, drums.Events, 4)
	for _, e := range drums.Events {
		orbit, ok := e.Params.Get(ParamOrbit)
		require.True(t, ok)
		assert.Equal(t, 1, orbit)
	}

	bass := patterns[1]
	assert.Equal(t, "bass", bass.Name)
	assert.Nil(t, bass.Orbit)
	require.Len(t, bass.Events, 1)
	assert.Equal(t, "c2", bass.Events[0].Sound)
}

func TestParser_NotationOrbitWins(t *testing.T) {
	p := newParser(t)

	patterns, err := p.Parse(context.Background(), `pattern(name="a", notation="bd|orbit:3 sd", orbit=1)`)
	require.NoError(t, err)
	require.Len(t, patterns[0].Events, 2)

	first, _ := patterns[0].Events[0].Params.Get(ParamOrbit)
	second, _ := patterns[0].Events[1].Params.Get(ParamOrbit)
	assert.Equal(t, 3.0, first)
	assert.Equal(t, 1, second)
}

func TestParser_Reusable(t *testing.T) {
	p := newParser(t)

	_, err := p.Parse(context.Background(), `pattern(name="a", notation="bd")`)
	require.NoError(t, err)

	patterns, err := p.Parse(context.Background(), `pattern(name="b", notation="sd hh")`)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "b", patterns[0].Name)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		message string
	}{
		{"empty", "   ", "empty sheet"},
		{"missing name", `pattern(notation="bd")`, "missing name"},
		{"missing notation", `pattern(name="a")`, "missing notation"},
		{"blank notation", `pattern(name="a", notation="  ")`, "missing notation"},
		{"syntax", `pattern(name="a", notation="bd"`, "failed to execute sheet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParser(t)
			_, err := p.Parse(context.Background(), tt.code)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParser_NotationError(t *testing.T) {
	p := newParser(t)

	_, err := p.Parse(context.Background(), `pattern(name="ok", notation="bd"); pattern(name="broken", notation="[bd sd")`)
	require.Error(t, err)

	var nerr *NotationError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "broken", nerr.Pattern)

	var perr *parser.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, perr.Offset)
}

func TestParser_MaxDepthOption(t *testing.T) {
	p, err := NewParser(WithParseOptions(parser.WithMaxDepth(1)))
	require.NoError(t, err)

	_, err = p.Parse(context.Background(), `pattern(name="deep", notation="[[bd]]")`)
	var perr *parser.Error
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Message, "depth")
}

func TestParser_EventBudget(t *testing.T) {
	p, err := NewParser(WithInterpretOptions(interpreter.WithMaxEvents(3)))
	require.NoError(t, err)

	_, err = p.Parse(context.Background(), `pattern(name="ok", notation="bd sd"); pattern(name="busy", notation="hh*4")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pattern "busy"`)

	var lerr *interpreter.LimitError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, 3, lerr.Limit)
}
