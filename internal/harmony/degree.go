package harmony

import "fmt"

// majorScale holds the semitone offset of degrees 1-7 from the tonic
var majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}

// ScaleDegreeSemitones returns the offset in semitones of a major-scale degree
// (1-13) from the tonic. Accidental may be "", "b" or "#".
func ScaleDegreeSemitones(degree int, accidental string) (int, error) {
	if degree < 1 || degree > 13 {
		return 0, fmt.Errorf("scale degree out of range: %d", degree)
	}

	octave, step := (degree-1)/7, (degree-1)%7
	semitones := octave*12 + majorScale[step]

	switch accidental {
	case "":
	case "b":
		semitones--
	case "#":
		semitones++
	default:
		return 0, fmt.Errorf("invalid accidental: %q", accidental)
	}
	return semitones, nil
}
