// Package resource bounds the resources a Searcher consumes.
//
//	┌──────────────────────────────────────────────────────────┐
//	│                       Controller                         │
//	├──────────────────┬──────────────────┬────────────────────┤
//	│  Memory limit    │  Search slots    │  IO rate limiter   │
//	│  (fail-fast)     │  (semaphore)     │  (token bucket)    │
//	├──────────────────┼──────────────────┼────────────────────┤
//	│  AcquireMemory   │  AcquireSearch   │  WaitIO            │
//	│  ReleaseMemory   │  TryAcquire...   │  RateLimitedReader │
//	│  MemoryUsage     │  ReleaseSearch   │  RateLimitedWriter │
//	└──────────────────┴──────────────────┴────────────────────┘
//
// Memory accounts for loaded segments. AcquireMemory never blocks; it
// returns ErrMemoryLimitExceeded and leaves the retry policy to the caller:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	})
//	if err := rc.AcquireMemory(int64(len(data))); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(int64(len(data)))
//
// Search slots bound how many segments are scored concurrently. The IO
// limiter throttles segment loading and writing so a large Open does not
// starve the storage backend.
//
// A nil *Controller is valid and imposes no limits.
package resource
