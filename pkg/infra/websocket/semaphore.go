package websocket

import (
	"sync/atomic"

	"github.com/NeuralTrust/TrustDetect/pkg/infra/prometheus"
	"golang.org/x/sync/semaphore"
)

const defaultMaxConnections = 64

type Option func(*Semaphore)

func WithMaxConnections(n int) Option {
	return func(s *Semaphore) {
		if n > 0 {
			s.max = int64(n)
		}
	}
}

// Semaphore caps concurrent live-analysis connections. Acquire never blocks.
type Semaphore struct {
	max     int64
	weights *semaphore.Weighted
	current atomic.Int64
}

func NewSemaphore(opts ...Option) *Semaphore {
	s := &Semaphore{max: defaultMaxConnections}
	for _, opt := range opts {
		opt(s)
	}
	s.weights = semaphore.NewWeighted(s.max)
	return s
}

func (s *Semaphore) Acquire() bool {
	if !s.weights.TryAcquire(1) {
		return false
	}
	s.current.Add(1)
	if prometheus.Config.EnableConnections {
		prometheus.Connections.Inc()
	}
	return true
}

func (s *Semaphore) Release() {
	if s.current.Add(-1) < 0 {
		s.current.Add(1)
		return
	}
	s.weights.Release(1)
	if prometheus.Config.EnableConnections {
		prometheus.Connections.Dec()
	}
}

func (s *Semaphore) GetCurrentConnections() int {
	return int(s.current.Load())
}

func (s *Semaphore) Max() int {
	return int(s.max)
}
