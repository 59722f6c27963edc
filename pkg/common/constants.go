package common

const (
	RequestIDHeader  = "X-Request-Id"
	AnalysisIDHeader = "X-Analysis-Id"

	// MaxTextBytes bounds a single text submitted for analysis.
	MaxTextBytes = 100000
)
