package parser

var knownParams = map[string]bool{
	"gain":          true,
	"speed":         true,
	"pan":           true,
	"cutoff":        true,
	"resonance":     true,
	"lpf":           true,
	"hpf":           true,
	"room":          true,
	"size":          true,
	"delay":         true,
	"delaytime":     true,
	"delayfeedback": true,
	"vowel":         true,
	"shape":         true,
	"crush":         true,
	"coarse":        true,
	"attack":        true,
	"decay":         true,
	"sustain":       true,
	"release":       true,
	"legato":        true,
	"velocity":      true,
	"note":          true,
	"n":             true,
	"orbit":         true,
	"begin":         true,
	"end":           true,
	"cut":           true,
	"accelerate":    true,
	"squiz":         true,
}

// IsKnownParam reports whether name may appear as a "|name:value" sound parameter
func IsKnownParam(name string) bool {
	return knownParams[name]
}
