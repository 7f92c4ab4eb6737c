// Package euclid generates Euclidean rhythms with Bjorklund's algorithm.
package euclid

import "fmt"

// MaxSteps is the largest step count accepted
const MaxSteps = 1024

// Bjorklund returns the maximally even distribution of k onsets over n steps.
// The first step is always an onset.
func Bjorklund(k, n int) ([]bool, error) {
	if err := validate(k, n); err != nil {
		return nil, err
	}

	// Start with k groups holding an onset and n-k groups holding a rest,
	// then keep pairing remainder groups onto the front groups until at most
	// one remainder group is left. All front groups are copies of one
	// sequence and so are all remainder groups, so only one of each is kept
	// along with its count.
	front, frontCount := []bool{true}, k
	rest, restCount := []bool{false}, n-k

	for restCount > 1 {
		if frontCount > restCount {
			// the unpaired front groups become the remainder
			merged := make([]bool, 0, len(front)+len(rest))
			merged = append(merged, front...)
			merged = append(merged, rest...)
			front, rest = merged, front
			frontCount, restCount = restCount, frontCount-restCount
			continue
		}

		// Every front group takes one remainder group per pass; run all
		// passes until the counts cross in one go.
		passes := 0
		for restCount > 1 && frontCount <= restCount {
			restCount -= frontCount
			passes++
		}
		merged := make([]bool, 0, len(front)+passes*len(rest))
		merged = append(merged, front...)
		for ; passes > 0; passes-- {
			merged = append(merged, rest...)
		}
		front = merged
	}

	out := make([]bool, 0, n)
	for ; frontCount > 0; frontCount-- {
		out = append(out, front...)
	}
	for ; restCount > 0; restCount-- {
		out = append(out, rest...)
	}
	return out, nil
}

// Rotate returns a copy of pattern rotated left by offset steps.
// Negative offsets rotate right.
func Rotate(pattern []bool, offset int) []bool {
	n := len(pattern)
	out := make([]bool, n)
	if n == 0 {
		return out
	}
	shift := ((offset % n) + n) % n
	for i := range pattern {
		out[i] = pattern[(i+shift)%n]
	}
	return out
}

// Pattern is Bjorklund followed by Rotate
func Pattern(k, n, offset int) ([]bool, error) {
	p, err := Bjorklund(k, n)
	if err != nil {
		return nil, err
	}
	return Rotate(p, offset), nil
}

// Valid reports whether (k, n) describes a usable Euclidean rhythm
func Valid(k, n int) bool {
	return validate(k, n) == nil
}

// String renders a pattern as "x" for onsets and "." for rests
func String(pattern []bool) string {
	buf := make([]byte, len(pattern))
	for i, on := range pattern {
		if on {
			buf[i] = 'x'
		} else {
			buf[i] = '.'
		}
	}
	return string(buf)
}

func validate(k, n int) error {
	if n <= 0 {
		return fmt.Errorf("euclid: steps must be positive, got %d", n)
	}
	if n > MaxSteps {
		return fmt.Errorf("euclid: steps must be at most %d, got %d", MaxSteps, n)
	}
	if k <= 0 || k > n {
		return fmt.Errorf("euclid: onsets must be in 1..%d, got %d", n, k)
	}
	return nil
}
