package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemaphore_Cap(t *testing.T) {
	s := NewSemaphore(WithMaxConnections(2))
	assert.Equal(t, 2, s.Max())

	assert.True(t, s.Acquire())
	assert.True(t, s.Acquire())
	assert.False(t, s.Acquire())
	assert.Equal(t, 2, s.GetCurrentConnections())

	s.Release()
	assert.Equal(t, 1, s.GetCurrentConnections())
	assert.True(t, s.Acquire())
}

func TestSemaphore_ReleaseWithoutAcquire(t *testing.T) {
	s := NewSemaphore(WithMaxConnections(1))
	s.Release()
	assert.Equal(t, 0, s.GetCurrentConnections())
	assert.True(t, s.Acquire())
	assert.False(t, s.Acquire())
}

func TestSemaphore_DefaultAndInvalidOption(t *testing.T) {
	assert.Equal(t, defaultMaxConnections, NewSemaphore().Max())
	assert.Equal(t, defaultMaxConnections, NewSemaphore(WithMaxConnections(0)).Max())
}

func TestSemaphore_Concurrent(t *testing.T) {
	s := NewSemaphore(WithMaxConnections(5))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		acquired int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Acquire() {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, acquired)
	assert.Equal(t, 5, s.GetCurrentConnections())
}
