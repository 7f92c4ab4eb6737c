package handlers

const (
	// Parse modes
	modeEvents = "events"
	modeAST    = "ast"
	modeBoth   = "both"

	// Request limits
	maxPatternBytes = 64 * 1024 // Largest pattern or sheet accepted
)
