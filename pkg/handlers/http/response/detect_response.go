package response

import (
	domainDetection "github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
)

type DetectResponse struct {
	AnalysisID       string                       `json:"analysis_id"`
	Label            domainDetection.Label        `json:"label"`
	Message          string                       `json:"message"`
	AIProbability    float64                      `json:"ai_probability"`
	Distribution     domainDetection.Distribution `json:"distribution"`
	ProcessingTimeMs int64                        `json:"processing_time_ms"`
	TextHash         string                       `json:"text_hash"`
	Cached           bool                         `json:"cached"`
	Features         map[string]float64           `json:"features,omitempty"`
}

type DetectResponseInput struct {
	AnalysisID       string
	Verdict          domainDetection.Verdict
	TextHash         string
	Cached           bool
	ProcessingTimeMs int64
	IncludeFeatures  bool
}

func NewDetectResponse(in DetectResponseInput) DetectResponse {
	out := DetectResponse{
		AnalysisID:       in.AnalysisID,
		Label:            in.Verdict.Label,
		Message:          in.Verdict.Message,
		AIProbability:    in.Verdict.AIProbability,
		Distribution:     in.Verdict.Distribution,
		ProcessingTimeMs: in.ProcessingTimeMs,
		TextHash:         in.TextHash,
		Cached:           in.Cached,
	}
	if in.IncludeFeatures && in.Verdict.Features != nil {
		out.Features = in.Verdict.Features.Named()
	}
	return out
}

type ReadyResponse struct {
	Status     string            `json:"status"`
	Reason     string            `json:"reason,omitempty"`
	Models     map[string]string `json:"models,omitempty"`
	Classifier string            `json:"classifier,omitempty"`
}
