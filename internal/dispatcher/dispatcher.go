// Package dispatcher fans one media item out to a set of destinations.
package dispatcher

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/logger"
	"github.com/clipforge/clipforge/internal/platforms"
)

// DefaultSequentialPause is the pause between destinations when
// dispatching in order, to stay conservative with external rate limits.
const DefaultSequentialPause = time.Second

// Dispatcher resolves destination names through the registry and invokes
// each adapter, isolating failures per destination.
type Dispatcher struct {
	registry        *platforms.Registry
	sequentialPause time.Duration
}

// New creates a dispatcher over the given registry
func New(registry *platforms.Registry) *Dispatcher {
	return &Dispatcher{
		registry:        registry,
		sequentialPause: DefaultSequentialPause,
	}
}

// PublishToMany sends one media item to every named destination and
// returns one UploadResult per requested name, keyed by destination.
//
// A failure on one destination never aborts or delays the others. In
// parallel mode each destination runs on its own goroutine and the call
// returns only after every task has completed.
func (d *Dispatcher) PublishToMany(ctx context.Context, destinations []string, req platforms.UploadRequest, parallel bool) map[string]platforms.UploadResult {
	// Destinations are a set. Jobs store them deduplicated, but a
	// duplicated name must never dispatch one adapter twice, and in
	// parallel mode never from two goroutines at once.
	destinations = uniqueDestinations(destinations)
	results := make(map[string]platforms.UploadResult, len(destinations))

	// Missing media fails every destination up front; no adapter is touched.
	if req.MediaURL == "" {
		if _, err := os.Stat(req.MediaPath); err != nil {
			for _, name := range destinations {
				results[name] = platforms.Failure(name, "media file not found: %s", req.MediaPath)
			}
			return results
		}
	}

	if parallel {
		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		for _, name := range destinations {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				result := d.publishOne(ctx, name, req)
				mu.Lock()
				results[name] = result
				mu.Unlock()
			}(name)
		}
		wg.Wait()
		return results
	}

	for i, name := range destinations {
		if i > 0 {
			time.Sleep(d.sequentialPause)
		}
		results[name] = d.publishOne(ctx, name, req)
	}
	return results
}

// uniqueDestinations drops case-insensitive duplicates, keeping the
// first-seen spelling so results stay keyed by the requested name.
func uniqueDestinations(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// publishOne resolves and invokes a single adapter. Adapter panics are
// contained here so one destination cannot take down the fan-out.
func (d *Dispatcher) publishOne(ctx context.Context, name string, req platforms.UploadRequest) (result platforms.UploadResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[dispatch] %s adapter panicked: %v", name, r)
			result = platforms.Failure(name, "adapter panic: %v", r)
		}
	}()

	adapter, err := d.registry.Resolve(name)
	if err != nil {
		return platforms.Failure(name, "%v", err)
	}

	if !adapter.IsAuthenticated() {
		logger.Infof("[dispatch] authenticating %s", adapter.DisplayName())
		if err := adapter.Authenticate(); err != nil {
			return platforms.Failure(name, "authentication failed: %v", err)
		}
	}

	logger.Infof("[dispatch] uploading to %s", adapter.DisplayName())
	result = adapter.Upload(ctx, req)
	// Correlate by the requested name even when an adapter reports under
	// its display identity.
	result.Destination = name
	return result
}
