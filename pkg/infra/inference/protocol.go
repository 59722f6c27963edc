package inference

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/prometheus"
	"github.com/valyala/fastjson"
)

// Sidecar wire contract. HTTP and gRPC carry the same field names.
const (
	tokenizePath = "/v1/tokenize"
	logitsPath   = "/v1/logits"
	healthPath   = "/health"

	ServiceName    = "trustdetect.lm.v1.LanguageModel"
	tokenizeMethod = "/" + ServiceName + "/Tokenize"
	logitsMethod   = "/" + ServiceName + "/Logits"

	defaultBreakerTimeout     = 30 * time.Second
	defaultBreakerMaxFailures = 5

	errorSnippetLength = 512
)

type tokenizeRequest struct {
	Text       string `json:"text"`
	MaxLength  int    `json:"max_length,omitempty"`
	Truncation bool   `json:"truncation"`
}

type logitsRequest struct {
	InputIDs []int  `json:"input_ids"`
	Device   string `json:"device,omitempty"`
}

// finishTokens applies the client side of the truncation contract: a sidecar
// that ignores max_length is cut here, and a sidecar that reports more source
// tokens than it returned marks the sequence as truncated.
func finishTokens(ids []int, reportedTruncated bool, numTokens int, maxLength int) lm.TokenSequence {
	seq := lm.TokenSequence{
		IDs:            ids,
		Truncated:      reportedTruncated,
		OriginalLength: numTokens,
	}
	if seq.OriginalLength < len(ids) {
		seq.OriginalLength = len(ids)
	}
	if maxLength > 0 && len(seq.IDs) > maxLength {
		seq.IDs = seq.IDs[:maxLength]
		seq.Truncated = true
	}
	if seq.OriginalLength > len(seq.IDs) {
		seq.Truncated = true
	}
	return seq
}

func parseTokenizeResponse(p *fastjson.Parser, data []byte, maxLength int) (lm.TokenSequence, error) {
	v, err := p.ParseBytes(data)
	if err != nil {
		return lm.TokenSequence{}, fmt.Errorf("%w: invalid tokenize response: %v", lm.ErrInferenceFailed, err)
	}
	raw := v.Get("input_ids")
	if raw == nil || raw.Type() != fastjson.TypeArray {
		return lm.TokenSequence{}, fmt.Errorf("%w: tokenize response has no input_ids", lm.ErrInferenceFailed)
	}
	items, _ := raw.Array() //nolint:errcheck
	ids := make([]int, len(items))
	for i, item := range items {
		id, err := item.Int()
		if err != nil || id < 0 {
			return lm.TokenSequence{}, fmt.Errorf("%w: input_ids[%d] is not a token id", lm.ErrInferenceFailed, i)
		}
		ids[i] = id
	}
	return finishTokens(ids, v.GetBool("truncated"), v.GetInt("num_tokens"), maxLength), nil
}

// parseLogitsResponse reads {"shape": [rows, vocab], "logits": [...]} where
// logits is either flat row-major or nested one list per row.
func parseLogitsResponse(p *fastjson.Parser, data []byte) (lm.LogitTensor, error) {
	v, err := p.ParseBytes(data)
	if err != nil {
		return lm.LogitTensor{}, fmt.Errorf("%w: invalid logits response: %v", lm.ErrInferenceFailed, err)
	}
	shape := v.GetArray("shape")
	if len(shape) != 2 {
		return lm.LogitTensor{}, fmt.Errorf("%w: logits shape must have two dimensions", lm.ErrShapeMismatch)
	}
	rows, errRows := shape[0].Int()
	vocab, errVocab := shape[1].Int()
	if errRows != nil || errVocab != nil {
		return lm.LogitTensor{}, fmt.Errorf("%w: logits shape is not integral", lm.ErrShapeMismatch)
	}

	raw := v.Get("logits")
	if raw == nil || raw.Type() != fastjson.TypeArray {
		return lm.LogitTensor{}, fmt.Errorf("%w: logits response has no logits", lm.ErrInferenceFailed)
	}
	items, _ := raw.Array() //nolint:errcheck
	values := make([]float32, 0, max(rows*vocab, 0))
	for i, item := range items {
		if item.Type() == fastjson.TypeArray {
			nested, _ := item.Array() //nolint:errcheck
			for j, cell := range nested {
				f, err := cell.Float64()
				if err != nil {
					return lm.LogitTensor{}, fmt.Errorf("%w: logits[%d][%d]: %v", lm.ErrInferenceFailed, i, j, err)
				}
				values = append(values, float32(f))
			}
			continue
		}
		f, err := item.Float64()
		if err != nil {
			return lm.LogitTensor{}, fmt.Errorf("%w: logits[%d]: %v", lm.ErrInferenceFailed, i, err)
		}
		values = append(values, float32(f))
	}
	return lm.NewLogitTensor(rows, vocab, values)
}

func observe(model, call string, start time.Time) {
	if !prometheus.Config.EnableInferenceLatency {
		return
	}
	prometheus.InferenceLatency.
		WithLabelValues(model, call).
		Observe(float64(time.Since(start).Milliseconds()))
}
