package detection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/TrustDetect/pkg/app/features"
	domainDetection "github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const DefaultMinWords = 15

type Config struct {
	MinWords           int
	Thresholds         domainDetection.Thresholds
	Prompt             string
	SurprisalMaxLength int
	DualMaxLength      int
	SurprisalDevice    string
	DualDevice         string
	// MaxConcurrency bounds analyses in flight; 0 means unbounded.
	MaxConcurrency int
	Timeout        time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinWords:           DefaultMinWords,
		Thresholds:         domainDetection.DefaultThresholds(),
		Prompt:             features.DefaultCompletionPrompt,
		SurprisalMaxLength: features.DefaultSurprisalMaxLength,
		DualMaxLength:      features.DefaultDualMaxLength,
	}
}

//go:generate mockery --name=Analyzer --dir=. --output=./mocks --filename=analyzer_mock.go --case=underscore --with-expecter
type Analyzer interface {
	// Analyze scores one text. Short input and a runtime that is not ready
	// produce placeholder verdicts, not errors.
	Analyze(ctx context.Context, text string) (domainDetection.Verdict, error)
	Runtime() Runtime
	MinWords() int
	Thresholds() domainDetection.Thresholds
	// CacheKeyspace names the classifier and feature settings a score was
	// produced under.
	CacheKeyspace() string
}

type analyzer struct {
	logger     *logrus.Logger
	runtime    Runtime
	cfg        Config
	surprisal  features.SurprisalExtractor
	dual       features.DualAlignmentExtractor
	inFlight   *semaphore.Weighted
	deviceLock *DeviceLocks
}

func NewAnalyzer(logger *logrus.Logger, runtime Runtime, cfg Config) (Analyzer, error) {
	if cfg.MinWords <= 0 {
		cfg.MinWords = DefaultMinWords
	}
	if cfg.Thresholds == (domainDetection.Thresholds{}) {
		cfg.Thresholds = domainDetection.DefaultThresholds()
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, err
	}

	a := &analyzer{
		logger:     logger,
		runtime:    runtime,
		cfg:        cfg,
		deviceLock: NewDeviceLocks(cfg.SurprisalDevice, cfg.DualDevice),
	}
	if cfg.MaxConcurrency > 0 {
		a.inFlight = semaphore.NewWeighted(int64(cfg.MaxConcurrency))
	}
	if runtime.Ready() {
		surprisalClient := &lockedClient{Client: runtime.Surprisal, device: cfg.SurprisalDevice, locks: a.deviceLock}
		dualClient := &lockedClient{Client: runtime.Dual, device: cfg.DualDevice, locks: a.deviceLock}
		a.surprisal = features.NewSurprisalExtractor(logger, surprisalClient, cfg.SurprisalMaxLength)
		a.dual = features.NewDualAlignmentExtractor(logger, dualClient, cfg.Prompt, cfg.DualMaxLength)
	}
	return a, nil
}

func (a *analyzer) Runtime() Runtime {
	return a.runtime
}

func (a *analyzer) MinWords() int {
	return a.cfg.MinWords
}

func (a *analyzer) Thresholds() domainDetection.Thresholds {
	return a.cfg.Thresholds
}

func (a *analyzer) CacheKeyspace() string {
	var classifierDigest, surprisalModel, dualModel string
	if a.runtime.Ready() {
		classifierDigest = a.runtime.Classifier.Digest()
		surprisalModel = a.runtime.Surprisal.Name()
		dualModel = a.runtime.Dual.Name()
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%s\x00%d\x00%s",
		surprisalModel, dualModel,
		a.cfg.SurprisalMaxLength, a.cfg.Prompt, a.cfg.DualMaxLength,
		classifierDigest,
	)
	if len(classifierDigest) > 16 {
		classifierDigest = classifierDigest[:16]
	}
	return classifierDigest + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

func (a *analyzer) Analyze(ctx context.Context, text string) (domainDetection.Verdict, error) {
	if !a.runtime.Ready() {
		countOutcome(domainDetection.LabelNotReady)
		return domainDetection.NotReadyVerdict(), nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(strings.Fields(trimmed)) < a.cfg.MinWords {
		countOutcome(domainDetection.LabelInsufficientInput)
		return domainDetection.InsufficientInputVerdict(a.cfg.MinWords), nil
	}

	// The timeout covers the wait for a slot as well as the analysis.
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	if a.inFlight != nil {
		if err := a.inFlight.Acquire(ctx, 1); err != nil {
			countOutcome("error")
			return domainDetection.Verdict{}, fmt.Errorf("waiting for an analysis slot: %w", err)
		}
		defer a.inFlight.Release(1)
	}

	start := time.Now()
	vector, err := a.extract(ctx, text)
	if err != nil {
		countOutcome("error")
		return domainDetection.Verdict{}, err
	}

	classifyStart := time.Now()
	probabilities, err := a.runtime.Classifier.PredictProba(ctx, []domainDetection.FeatureVector{vector})
	if err != nil {
		countOutcome("error")
		return domainDetection.Verdict{}, fmt.Errorf("classifier: %w", err)
	}
	if len(probabilities) != 1 {
		countOutcome("error")
		return domainDetection.Verdict{}, fmt.Errorf("classifier returned %d probabilities for one vector", len(probabilities))
	}
	observeStage("classifier", classifyStart)
	observeStage("total", start)

	verdict := domainDetection.NewVerdict(probabilities[0], a.cfg.Thresholds)
	verdict.Features = &vector
	countOutcome(verdict.Label)

	a.logger.WithFields(logrus.Fields{
		"label":          verdict.Label,
		"ai_probability": verdict.AIProbability,
		"duration_ms":    time.Since(start).Milliseconds(),
	}).Debug("text analyzed")
	return verdict, nil
}

// extract runs both extractors concurrently; the first failure cancels the
// other.
func (a *analyzer) extract(ctx context.Context, text string) (domainDetection.FeatureVector, error) {
	var (
		surprisal domainDetection.SurprisalFeatures
		dual      domainDetection.DualFeatures
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stageStart := time.Now()
		var err error
		surprisal, err = a.surprisal.Extract(gctx, text)
		if err != nil {
			return fmt.Errorf("surprisal features: %w", err)
		}
		observeStage("surprisal", stageStart)
		return nil
	})
	g.Go(func() error {
		stageStart := time.Now()
		var err error
		dual, err = a.dual.Extract(gctx, text)
		if err != nil {
			return fmt.Errorf("dual alignment features: %w", err)
		}
		observeStage("dual_alignment", stageStart)
		return nil
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) {
			a.logger.WithError(err).Error("feature extraction failed")
		}
		return domainDetection.FeatureVector{}, err
	}

	vector := domainDetection.Assemble(surprisal, dual)
	if idx := vector.Finite(); idx >= 0 {
		return domainDetection.FeatureVector{}, fmt.Errorf("%w: %s", domainDetection.ErrInvalidFeatures, domainDetection.FeatureNames()[idx])
	}
	return vector, nil
}

func countOutcome(outcome domainDetection.Label) {
	prometheus.AnalysesTotal.WithLabelValues(string(outcome)).Inc()
}

func observeStage(stage string, start time.Time) {
	if !prometheus.Config.EnableLatency {
		return
	}
	prometheus.StageLatency.WithLabelValues(stage).Observe(float64(time.Since(start).Milliseconds()))
}
