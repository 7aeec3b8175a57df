package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/clinrank/core"
	"github.com/poiesic/clinrank/storage"
)

const (
	defaultBatchSize   = 64
	defaultMaxAttempts = 3
	defaultBaseDelay   = 250 * time.Millisecond
)

// Pipeline orchestrates validation, checklist precomputation and concurrent
// storage of clinician profiles.
type Pipeline struct {
	repository  storage.ProfileRepository
	pool        *ants.Pool
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of profiles written per storage transaction.
// Default is 64.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry configures retry behavior for batch writes.
// Default is 3 attempts with a 250ms base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.ProfileRepository, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrProfileRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:  repository,
		pool:        pool,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestProfiles validates, enriches and stores a set of clinician profiles.
// The whole set is validated before anything is written. Checklist data is
// precomputed for profiles that don't already carry it. Writes happen in
// batches on the worker pool; each batch is retried on failure, and the
// first batch error fails the call.
func (p *Pipeline) IngestProfiles(ctx context.Context, profiles ...*core.Candidate) error {
	for _, profile := range profiles {
		if err := core.ValidateCandidate(profile); err != nil {
			return err
		}
	}

	for _, profile := range profiles {
		if profile.Checklist == nil {
			profile.Checklist = BuildChecklist(profile)
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(profiles); start += p.batchSize {
		end := start + p.batchSize
		if end > len(profiles) {
			end = len(profiles)
		}
		batch := profiles[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			err := RetryWithBackoff(ctx, func() error {
				_, addErr := p.repository.AddProfiles(ctx, batch...)
				return addErr
			}, p.maxAttempts, p.baseDelay)
			if err != nil {
				p.logger.Error("error storing profile batch", "size", len(batch), "err", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return submitErr
		}
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	p.logger.Debug("ingested profiles", "count", len(profiles))
	return nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
