package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/prometheus"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	VerdictKeyPattern = "verdict:%s:%s"

	localVerdictTTL     = time.Minute
	localVerdictEntries = 4096
)

//go:generate mockery --name=VerdictCache --dir=. --output=./mocks --filename=verdict_cache_mock.go --case=underscore --with-expecter
type VerdictCache interface {
	Get(ctx context.Context, text string) (detection.Score, bool)
	Put(ctx context.Context, text string, score detection.Score)
}

// verdictCache stores classifier scores, not formatted verdicts, so
// threshold changes apply to cached entries immediately. The keyspace
// identifies the classifier artifact and every input that shapes the
// features; any change to them starts a fresh set of keys. Lookups go
// through a small in-process map before redis. Cache failures are logged and
// treated as misses.
type verdictCache struct {
	client   Client
	logger   *logrus.Logger
	keyspace string
	ttl      time.Duration
	local    *TTLMap[detection.Score]
}

func NewVerdictCache(client Client, logger *logrus.Logger, keyspace string, ttl time.Duration) VerdictCache {
	localTTL := localVerdictTTL
	if ttl > 0 && ttl < localTTL {
		localTTL = ttl
	}
	return &verdictCache{
		client:   client,
		logger:   logger,
		keyspace: keyspace,
		ttl:      ttl,
		local:    NewTTLMap[detection.Score](localTTL, localVerdictEntries),
	}
}

func (c *verdictCache) key(text string) string {
	return fmt.Sprintf(VerdictKeyPattern, c.keyspace, detection.TextHash(text))
}

func (c *verdictCache) Get(ctx context.Context, text string) (detection.Score, bool) {
	key := c.key(text)
	if score, ok := c.local.Get(key); ok {
		countLookup("hit")
		return score, true
	}

	raw, err := c.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			countLookup("miss")
		} else {
			countLookup("error")
			c.logger.WithError(err).Warn("verdict cache lookup failed")
		}
		return detection.Score{}, false
	}

	var score detection.Score
	if err := json.Unmarshal([]byte(raw), &score); err != nil || score.Features == nil {
		countLookup("error")
		c.logger.WithError(err).WithField("key", key).Warn("discarding corrupt verdict cache entry")
		_ = c.client.Delete(ctx, key)
		return detection.Score{}, false
	}
	c.local.Set(key, score)
	countLookup("hit")
	return score, true
}

func (c *verdictCache) Put(ctx context.Context, text string, score detection.Score) {
	if score.Features == nil {
		return
	}
	data, err := json.Marshal(score)
	if err != nil {
		c.logger.WithError(err).Warn("failed to encode score for cache")
		return
	}
	key := c.key(text)
	if err := c.client.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.WithError(err).Warn("failed to store score in cache")
		return
	}
	c.local.Set(key, score)
}

func countLookup(result string) {
	prometheus.CacheLookups.WithLabelValues(result).Inc()
}
