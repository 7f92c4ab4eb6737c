package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error describes why a pattern could not be parsed.
// Line and Column are 1-based; Column counts runes, not bytes.
type Error struct {
	Message   string `json:"message"`
	Remaining string `json:"remaining"`
	Offset    int    `json:"offset"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
}

func (e *Error) Error() string {
	if e.Remaining == "" {
		return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("%s at line %d, column %d: %q", e.Message, e.Line, e.Column, e.Remaining)
}

// Snippet renders the offending source line with a caret under the error column
func (e *Error) Snippet(src string) string {
	lines := strings.Split(src, "\n")
	line := e.Line
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	text := lines[line-1]

	col := e.Column
	if col < 1 {
		col = 1
	}
	if limit := utf8.RuneCountInString(text) + 1; col > limit {
		col = limit
	}

	gutter := fmt.Sprintf("%4d | ", line)
	var b strings.Builder
	fmt.Fprintf(&b, "PARSE ERROR at %d:%d: %s\n\n", e.Line, e.Column, e.Message)
	b.WriteString(gutter)
	b.WriteString(text)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", len(gutter)+col-1))
	b.WriteString("^")
	return b.String()
}

// position maps a byte offset to a 1-based line and rune column
func position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, utf8.RuneCountInString(src[lineStart:offset]) + 1
}

func (p *parser) errorf(offset int, format string, args ...any) *Error {
	line, col := position(p.src, offset)
	remaining := ""
	if offset < len(p.src) {
		remaining = p.src[offset:]
	}
	return &Error{
		Message:   fmt.Sprintf(format, args...),
		Remaining: remaining,
		Offset:    offset,
		Line:      line,
		Column:    col,
	}
}

// describe names the character at the cursor for error messages
func (p *parser) describe() string {
	if p.eof() {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos():])
	return fmt.Sprintf("%q", r)
}
