// Package harmony resolves the jazz-harmony leaves of the notation
// (chord symbols, scale degrees and roman numerals) to pitches.
package harmony

import (
	"fmt"
	"strings"
)

// DefaultOctave is the octave chord symbols are voiced in when resolved for events
const DefaultOctave = 4

var noteOffsets = map[string]int{
	"C":  0,
	"C#": 1, "Db": 1,
	"D":  2,
	"D#": 3, "Eb": 3,
	"E":  4,
	"F":  5,
	"F#": 6, "Gb": 6,
	"G":  7,
	"G#": 8, "Ab": 8,
	"A":  9,
	"A#": 10, "Bb": 10,
	"B": 11,
}

// ChordToMIDI converts a chord symbol to MIDI note numbers.
// Supports: C, Em, Am7, Cmaj7, Bdim, Gsus4, Dm9, Emin/G (slash bass), etc.
// Notes outside 0-127 are dropped.
func ChordToMIDI(symbol string, octave int) ([]int, error) {
	base := symbol
	bass := ""
	if parts := strings.Split(symbol, "/"); len(parts) == 2 {
		base = strings.TrimSpace(parts[0])
		bass = strings.TrimSpace(parts[1])
	}

	root, err := parseRootNote(base)
	if err != nil {
		return nil, fmt.Errorf("invalid chord root: %w", err)
	}
	rootMIDI := noteToMIDI(root, octave)

	intervals := buildChordIntervals(parseChordQuality(base), parseExtensions(base))

	notes := make([]int, 0, len(intervals)+1)
	for _, interval := range intervals {
		note := rootMIDI + interval
		if note < 0 || note > 127 {
			continue
		}
		notes = append(notes, note)
	}

	// Slash bass goes one octave below the chord
	if bass != "" {
		bassRoot, err := parseRootNote(bass)
		if err != nil {
			return nil, fmt.Errorf("invalid bass note: %w", err)
		}
		if bassMIDI := noteToMIDI(bassRoot, octave-1); bassMIDI >= 0 && bassMIDI <= 127 {
			notes = append([]int{bassMIDI}, notes...)
		}
	}

	if len(notes) == 0 {
		return nil, fmt.Errorf("no valid MIDI notes generated for chord: %s", symbol)
	}
	return notes, nil
}

func parseRootNote(symbol string) (string, error) {
	if len(symbol) == 0 {
		return "", fmt.Errorf("empty chord symbol")
	}

	root := symbol[:1]
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		root = symbol[:2]
	}
	if _, ok := noteOffsets[root]; !ok {
		return "", fmt.Errorf("invalid root note: %s", root)
	}
	return root, nil
}

// stripRoot removes the root letter and accidental
func stripRoot(symbol string) string {
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		return symbol[2:]
	}
	if len(symbol) > 0 {
		return symbol[1:]
	}
	return symbol
}

func parseChordQuality(symbol string) string {
	rest := stripRoot(symbol)

	switch {
	case strings.HasPrefix(rest, "maj"):
		return "major"
	case strings.HasPrefix(rest, "min"), strings.HasPrefix(rest, "m"):
		return "minor"
	case strings.HasPrefix(rest, "dim"):
		return "diminished"
	case strings.HasPrefix(rest, "aug"):
		return "augmented"
	case strings.HasPrefix(rest, "sus2"):
		return "sus2"
	case strings.HasPrefix(rest, "sus4"):
		return "sus4"
	}
	return "major"
}

func parseExtensions(symbol string) []string {
	rest := stripRoot(symbol)
	var extensions []string

	// maj7 first, otherwise trimming the "m" prefix would leave "aj7"
	if strings.Contains(rest, "maj9") {
		extensions = append(extensions, "maj7", "9")
		rest = strings.ReplaceAll(rest, "maj9", "")
	}
	if strings.Contains(rest, "maj7") {
		extensions = append(extensions, "maj7")
		rest = strings.ReplaceAll(rest, "maj7", "")
	}
	if strings.Contains(rest, "min7") {
		extensions = append(extensions, "min7")
		rest = strings.ReplaceAll(rest, "min7", "")
	}

	for _, prefix := range []string{"min", "m", "dim", "aug", "sus2", "sus4"} {
		if strings.HasPrefix(rest, prefix) {
			rest = strings.TrimPrefix(rest, prefix)
			break
		}
	}

	for _, add := range []string{"add9", "add11", "add13"} {
		if strings.Contains(rest, add) {
			extensions = append(extensions, add)
			rest = strings.ReplaceAll(rest, add, "")
		}
	}

	if strings.Contains(rest, "7") {
		extensions = append(extensions, "7")
		rest = strings.ReplaceAll(rest, "7", "")
	}
	if strings.Contains(rest, "6") {
		extensions = append(extensions, "6")
	}
	if strings.Contains(rest, "13") {
		extensions = append(extensions, "13")
		rest = strings.ReplaceAll(rest, "13", "")
	}
	if strings.Contains(rest, "11") {
		extensions = append(extensions, "11")
		rest = strings.ReplaceAll(rest, "11", "")
	}
	if strings.Contains(rest, "9") {
		extensions = append(extensions, "9")
	}
	return extensions
}

func buildChordIntervals(quality string, extensions []string) []int {
	var intervals []int
	switch quality {
	case "minor":
		intervals = []int{0, 3, 7}
	case "diminished":
		intervals = []int{0, 3, 6}
	case "augmented":
		intervals = []int{0, 4, 8}
	case "sus2":
		intervals = []int{0, 2, 7}
	case "sus4":
		intervals = []int{0, 5, 7}
	default:
		intervals = []int{0, 4, 7}
	}

	// 9ths, 11ths and 13ths imply the seventh unless written as add
	hasSeventh := false
	for _, ext := range extensions {
		switch ext {
		case "7", "min7", "maj7":
			hasSeventh = true
		}
	}

	for _, ext := range extensions {
		switch ext {
		case "6":
			intervals = append(intervals, 9)
		case "7", "min7":
			if quality == "diminished" {
				intervals = append(intervals, 9)
			} else {
				intervals = append(intervals, 10)
			}
		case "maj7":
			intervals = append(intervals, 11)
		case "9", "11", "13":
			if !hasSeventh {
				intervals = append(intervals, 10)
				hasSeventh = true
			}
			intervals = append(intervals, extensionInterval(ext))
		case "add9", "add11", "add13":
			intervals = append(intervals, extensionInterval(strings.TrimPrefix(ext, "add")))
		}
	}
	return intervals
}

func extensionInterval(ext string) int {
	switch ext {
	case "9":
		return 14
	case "11":
		return 17
	default:
		return 21
	}
}

// noteToMIDI uses octave*12 + offset, so C4 = 48
func noteToMIDI(note string, octave int) int {
	return octave*12 + noteOffsets[note]
}
