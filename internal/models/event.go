package models

// Event is a single timed occurrence inside one normalized cycle [0, 1)
type Event struct {
	Sound       string  `json:"sound"`
	Sample      *int    `json:"sample"`
	Time        float64 `json:"time"`
	Duration    float64 `json:"duration"`
	Params      Params  `json:"params"`
	SourceStart int     `json:"source_start"`
	SourceEnd   int     `json:"source_end"`
}

// Option summarizes one choice of an alternation or random choice.
// Selection between options is left to the consumer of the event list.
type Option struct {
	Sound       string   `json:"sound"`
	Sample      *int     `json:"sample"`
	Probability *float64 `json:"probability"`
}

// Harmony types stored under the "jazz" event parameter
const (
	HarmonyScaleDegree  = "scale_degree"
	HarmonyChordSymbol  = "chord_symbol"
	HarmonyRomanNumeral = "roman_numeral"
)

// Harmony is the {type, value} pair attached to harmony events
type Harmony struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Text returns the source text covered by the event, or "" if the span is out of range
func (e Event) Text(src string) string {
	if e.SourceStart < 0 || e.SourceEnd > len(src) || e.SourceStart > e.SourceEnd {
		return ""
	}
	return src[e.SourceStart:e.SourceEnd]
}
