package detection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/TrustDetect/pkg/app/detection"
	appMocks "github.com/NeuralTrust/TrustDetect/pkg/app/detection/mocks"
	domainDetection "github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	domainMocks "github.com/NeuralTrust/TrustDetect/pkg/domain/detection/mocks"
	lmMocks "github.com/NeuralTrust/TrustDetect/pkg/domain/lm/mocks"
	cacheMocks "github.com/NeuralTrust/TrustDetect/pkg/infra/cache/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func readyRuntime(t *testing.T) detection.Runtime {
	return detection.NewRuntime(lmMocks.NewClient(t), lmMocks.NewClient(t), domainMocks.NewClassifier(t))
}

func TestDetector_CacheMissStoresScoredVerdict(t *testing.T) {
	analyzer := appMocks.NewAnalyzer(t)
	verdictCache := cacheMocks.NewVerdictCache(t)
	verdict := domainDetection.NewVerdict(0.9, domainDetection.DefaultThresholds())

	analyzer.EXPECT().Runtime().Return(readyRuntime(t))
	analyzer.EXPECT().MinWords().Return(15)
	verdictCache.EXPECT().Get(mock.Anything, longText).Return(domainDetection.Score{}, false).Once()
	analyzer.EXPECT().Analyze(mock.Anything, longText).Return(verdict, nil).Once()
	verdictCache.EXPECT().Put(mock.Anything, longText, verdict.Score()).Return().Once()

	result, err := detection.NewDetector(newLogger(), analyzer, verdictCache).Detect(context.Background(), longText)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, verdict, result.Verdict)
	assert.Equal(t, domainDetection.TextHash(longText), result.TextHash)
	_, err = uuid.Parse(result.ID)
	assert.NoError(t, err)
}

func TestDetector_CacheHitSkipsAnalyzer(t *testing.T) {
	analyzer := appMocks.NewAnalyzer(t)
	verdictCache := cacheMocks.NewVerdictCache(t)
	var features domainDetection.FeatureVector
	score := domainDetection.Score{AIProbability: 0.2, Features: &features}

	analyzer.EXPECT().Runtime().Return(readyRuntime(t))
	analyzer.EXPECT().MinWords().Return(15)
	analyzer.EXPECT().Thresholds().Return(domainDetection.DefaultThresholds())
	verdictCache.EXPECT().Get(mock.Anything, longText).Return(score, true).Once()

	result, err := detection.NewDetector(newLogger(), analyzer, verdictCache).Detect(context.Background(), longText)
	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, domainDetection.LabelLikelyHuman, result.Verdict.Label)
	assert.Equal(t, &features, result.Verdict.Features)
}

// memoryScores is a VerdictCache shared by several detectors.
type memoryScores map[string]domainDetection.Score

func (m memoryScores) Get(_ context.Context, text string) (domainDetection.Score, bool) {
	score, ok := m[text]
	return score, ok
}

func (m memoryScores) Put(_ context.Context, text string, score domainDetection.Score) {
	m[text] = score
}

func TestDetector_CachedScoreUsesCurrentThresholds(t *testing.T) {
	shared := memoryScores{}
	var features domainDetection.FeatureVector
	features[0] = 4.2

	first := appMocks.NewAnalyzer(t)
	scored := domainDetection.NewVerdict(0.65, domainDetection.DefaultThresholds())
	scored.Features = &features
	first.EXPECT().Runtime().Return(readyRuntime(t))
	first.EXPECT().MinWords().Return(15)
	first.EXPECT().Analyze(mock.Anything, longText).Return(scored, nil).Once()

	result, err := detection.NewDetector(newLogger(), first, shared).Detect(context.Background(), longText)
	require.NoError(t, err)
	require.False(t, result.Cached)
	require.Equal(t, domainDetection.LabelPossiblyAI, result.Verdict.Label)

	// a redeploy lowers likely_ai; the cached score must be relabelled
	second := appMocks.NewAnalyzer(t)
	second.EXPECT().Runtime().Return(readyRuntime(t))
	second.EXPECT().MinWords().Return(15)
	second.EXPECT().Thresholds().Return(domainDetection.Thresholds{LikelyAI: 0.6, PossiblyAI: 0.5})

	result, err = detection.NewDetector(newLogger(), second, shared).Detect(context.Background(), longText)
	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Equal(t, domainDetection.LabelLikelyAI, result.Verdict.Label)
	assert.Equal(t, "Likely AI-generated (Confidence: 65.00%)", result.Verdict.Message)
	assert.Equal(t, 0.65, result.Verdict.AIProbability)
	assert.Equal(t, &features, result.Verdict.Features)
}

func TestDetector_ShortTextBypassesCache(t *testing.T) {
	analyzer := appMocks.NewAnalyzer(t)
	verdictCache := cacheMocks.NewVerdictCache(t)
	placeholder := domainDetection.InsufficientInputVerdict(15)

	analyzer.EXPECT().Runtime().Return(readyRuntime(t))
	analyzer.EXPECT().MinWords().Return(15)
	analyzer.EXPECT().Analyze(mock.Anything, "too short").Return(placeholder, nil).Once()

	result, err := detection.NewDetector(newLogger(), analyzer, verdictCache).Detect(context.Background(), "too short")
	require.NoError(t, err)
	assert.Equal(t, placeholder, result.Verdict)
}

func TestDetector_NotReadyBypassesCache(t *testing.T) {
	analyzer := appMocks.NewAnalyzer(t)
	verdictCache := cacheMocks.NewVerdictCache(t)

	analyzer.EXPECT().Runtime().Return(detection.Unavailable("classifier missing"))
	analyzer.EXPECT().Analyze(mock.Anything, longText).Return(domainDetection.NotReadyVerdict(), nil).Once()

	result, err := detection.NewDetector(newLogger(), analyzer, verdictCache).Detect(context.Background(), longText)
	require.NoError(t, err)
	assert.Equal(t, domainDetection.LabelNotReady, result.Verdict.Label)
}

func TestDetector_WithoutCache(t *testing.T) {
	analyzer := appMocks.NewAnalyzer(t)
	failure := errors.New("sidecar down")
	analyzer.EXPECT().Analyze(mock.Anything, longText).Return(domainDetection.Verdict{}, failure).Once()

	_, err := detection.NewDetector(newLogger(), analyzer, nil).Detect(context.Background(), longText)
	assert.ErrorIs(t, err, failure)
}
