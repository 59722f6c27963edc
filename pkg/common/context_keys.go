package common

type contextKey string

const (
	TraceIdKey        contextKey = "trace_id"
	SubjectContextKey contextKey = "subject"
	LatencyContextKey contextKey = "__execution_time"
)
