package detection

import (
	"context"
	"errors"
	"fmt"

	domainDetection "github.com/NeuralTrust/TrustDetect/pkg/domain/detection"
	"github.com/NeuralTrust/TrustDetect/pkg/domain/lm"
)

// Runtime holds the loaded collaborators of the pipeline. The zero value and
// values built with Unavailable are not ready; the analyzer answers those
// with the not-ready verdict instead of calling anything.
type Runtime struct {
	Surprisal  lm.Client
	Dual       lm.Client
	Classifier domainDetection.Classifier
	reason     string
}

func NewRuntime(surprisal, dual lm.Client, classifier domainDetection.Classifier) Runtime {
	return Runtime{
		Surprisal:  surprisal,
		Dual:       dual,
		Classifier: classifier,
	}
}

func Unavailable(reason string) Runtime {
	if reason == "" {
		reason = "not initialized"
	}
	return Runtime{reason: reason}
}

func (r Runtime) Ready() bool {
	return r.reason == "" && r.Surprisal != nil && r.Dual != nil && r.Classifier != nil
}

func (r Runtime) Reason() string {
	if r.Ready() {
		return ""
	}
	if r.reason == "" {
		return "not initialized"
	}
	return r.reason
}

// Check pings both model sidecars.
func (r Runtime) Check(ctx context.Context) error {
	if !r.Ready() {
		return fmt.Errorf("%w: %s", domainDetection.ErrNotReady, r.Reason())
	}
	var errs []error
	for _, client := range []lm.Client{r.Surprisal, r.Dual} {
		if err := client.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", client.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domainDetection.ErrNotReady, errors.Join(errs...))
	}
	return nil
}

func (r Runtime) Close() error {
	var errs []error
	for _, client := range []lm.Client{r.Surprisal, r.Dual} {
		if client != nil {
			errs = append(errs, client.Close())
		}
	}
	return errors.Join(errs...)
}
