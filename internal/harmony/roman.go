package harmony

import (
	"fmt"
	"strings"
)

// Roman is a parsed roman-numeral chord such as "ii7", "bVII" or "viio"
type Roman struct {
	Degree     int    `json:"degree"`
	Quality    string `json:"quality"`
	Accidental string `json:"accidental,omitempty"`
	Extension  string `json:"extension,omitempty"`
}

// longest first so "VII" is not read as "V"
var numerals = []struct {
	text   string
	degree int
}{
	{"vii", 7}, {"iii", 3}, {"vi", 6}, {"iv", 4}, {"ii", 2}, {"v", 5}, {"i", 1},
}

var romanExtensions = map[string]bool{
	"":     true,
	"6":    true,
	"7":    true,
	"9":    true,
	"11":   true,
	"13":   true,
	"maj7": true,
	"maj9": true,
	"add9": true,
	"sus2": true,
	"sus4": true,
}

// ParseRomanNumeral parses a roman-numeral chord. Uppercase numerals are
// major, lowercase minor; a trailing "o"/"dim" makes the chord diminished
// and "aug" augmented.
func ParseRomanNumeral(value string) (Roman, error) {
	var r Roman
	rest := value

	if strings.HasPrefix(rest, "b") || strings.HasPrefix(rest, "#") {
		r.Accidental = rest[:1]
		rest = rest[1:]
	}

	for _, n := range numerals {
		if len(rest) < len(n.text) {
			continue
		}
		head := rest[:len(n.text)]
		switch head {
		case n.text:
			r.Quality = "minor"
		case strings.ToUpper(n.text):
			r.Quality = "major"
		default:
			continue
		}
		r.Degree = n.degree
		rest = rest[len(n.text):]
		break
	}
	if r.Degree == 0 {
		return Roman{}, fmt.Errorf("invalid roman numeral: %q", value)
	}

	switch {
	case strings.HasPrefix(rest, "dim"):
		r.Quality = "diminished"
		rest = rest[3:]
	case strings.HasPrefix(rest, "o"):
		r.Quality = "diminished"
		rest = rest[1:]
	case strings.HasPrefix(rest, "aug"):
		r.Quality = "augmented"
		rest = rest[3:]
	}

	if !romanExtensions[rest] {
		return Roman{}, fmt.Errorf("invalid roman numeral extension %q in %q", rest, value)
	}
	r.Extension = rest
	return r, nil
}

// Semitones returns the offset of the chord root from the tonic of a major key
func (r Roman) Semitones() int {
	semitones, err := ScaleDegreeSemitones(r.Degree, r.Accidental)
	if err != nil {
		return 0
	}
	return semitones
}
