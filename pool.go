package tgbotq

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one builder is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// BuilderPool manages Builder instances for parallel document
// generation. Each builder has its own browser instance, enabling
// true parallelism. Builders are created lazily on first acquire to
// avoid startup delay.
type BuilderPool struct {
	size     int
	opts     []Option
	builders []*Builder
	sem      chan *Builder
	mu       sync.Mutex
	created  int
	closed   bool
}

// NewBuilderPool creates a pool with capacity for n Builder
// instances, each configured with opts. Builders are created lazily
// when acquired, not at pool creation.
func NewBuilderPool(n int, opts ...Option) *BuilderPool {
	if n < 1 {
		n = 1
	}

	return &BuilderPool{
		size:     n,
		opts:     opts,
		builders: make([]*Builder, 0, n),
		sem:      make(chan *Builder, n),
	}
}

// Acquire gets a builder from the pool, creating one if needed.
// Blocks if all builders are in use. Construction errors release the
// pool slot so a later Acquire can retry.
func (p *BuilderPool) Acquire() (*Builder, error) {
	// Try to get an existing builder (non-blocking)
	select {
	case b := <-p.sem:
		return b, nil
	default:
	}

	// Check if we can create a new builder
	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new builder outside the lock
		b, err := NewBuilder(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.builders = append(p.builders, b)
		p.mu.Unlock()

		return b, nil
	}
	p.mu.Unlock()

	// All builders created, wait for one to be released
	return <-p.sem, nil
}

// Release returns a builder to the pool.
// The lock is released before sending to avoid deadlock when channel is full.
func (p *BuilderPool) Release(b *Builder) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- b
}

// Close releases all builder resources.
// Returns an aggregated error if multiple builders fail to close.
func (p *BuilderPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	builders := p.builders
	p.mu.Unlock()

	var errs []error
	for _, b := range builders {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *BuilderPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
