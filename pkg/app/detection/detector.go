package detection

import (
	"context"
	"strings"
	"time"

	domainDetection "github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/cache"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Detection struct {
	ID       string
	Verdict  domainDetection.Verdict
	TextHash string
	Cached   bool
	Duration time.Duration
}

//go:generate mockery --name=Detector --dir=. --output=./mocks --filename=detector_mock.go --case=underscore --with-expecter
type Detector interface {
	Detect(ctx context.Context, text string) (Detection, error)
	Runtime() Runtime
}

// detector puts the optional verdict cache in front of the analyzer. Only
// texts the analyzer would score are looked up, and cached scores are
// formatted with the analyzer's current thresholds.
type detector struct {
	logger   *logrus.Logger
	analyzer Analyzer
	cache    cache.VerdictCache
}

func NewDetector(logger *logrus.Logger, analyzer Analyzer, verdictCache cache.VerdictCache) Detector {
	return &detector{
		logger:   logger,
		analyzer: analyzer,
		cache:    verdictCache,
	}
}

func (d *detector) Runtime() Runtime {
	return d.analyzer.Runtime()
}

func (d *detector) Detect(ctx context.Context, text string) (Detection, error) {
	start := time.Now()
	result := Detection{
		ID:       uuid.New().String(),
		TextHash: domainDetection.TextHash(text),
	}

	cacheable := d.cache != nil &&
		d.analyzer.Runtime().Ready() &&
		len(strings.Fields(text)) >= d.analyzer.MinWords()

	if cacheable {
		if score, ok := d.cache.Get(ctx, text); ok {
			result.Verdict = domainDetection.FromScore(score, d.analyzer.Thresholds())
			result.Cached = true
			result.Duration = time.Since(start)
			return result, nil
		}
	}

	verdict, err := d.analyzer.Analyze(ctx, text)
	if err != nil {
		return Detection{}, err
	}
	if cacheable && verdict.Scored() {
		d.cache.Put(ctx, text, verdict.Score())
	}

	result.Verdict = verdict
	result.Duration = time.Since(start)
	d.logger.WithFields(logrus.Fields{
		"analysis_id": result.ID,
		"label":       verdict.Label,
		"duration_ms": result.Duration.Milliseconds(),
	}).Debug("detection completed")
	return result, nil
}
