package detection

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
	"golang.org/x/sync/semaphore"
)

// DeviceLocks serializes inference per accelerator. Models placed on the same
// device share one lock.
type DeviceLocks struct {
	locks map[string]*semaphore.Weighted
}

func NewDeviceLocks(devices ...string) *DeviceLocks {
	locks := make(map[string]*semaphore.Weighted, len(devices))
	for _, device := range devices {
		if device == "" {
			continue
		}
		if _, ok := locks[device]; !ok {
			locks[device] = semaphore.NewWeighted(1)
		}
	}
	return &DeviceLocks{locks: locks}
}

// Acquire blocks until the device is free or ctx is done. Devices without a
// lock are not serialized.
func (d *DeviceLocks) Acquire(ctx context.Context, device string) (func(), error) {
	lock, ok := d.locks[device]
	if !ok {
		return func() {}, nil
	}
	if err := lock.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for device %s: %w", device, err)
	}
	return func() { lock.Release(1) }, nil
}

func (d *DeviceLocks) Len() int {
	return len(d.locks)
}

// lockedClient holds the device lock for the duration of every forward pass.
type lockedClient struct {
	lm.Client
	device string
	locks  *DeviceLocks
}

func (c *lockedClient) Infer(ctx context.Context, tokens lm.TokenSequence) (lm.LogitTensor, error) {
	release, err := c.locks.Acquire(ctx, c.device)
	if err != nil {
		return lm.LogitTensor{}, err
	}
	defer release()
	return c.Client.Infer(ctx, tokens)
}
