package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vadimbarashkov/linkshrink/internal/database"
	"github.com/vadimbarashkov/linkshrink/internal/metrics"
	"github.com/vadimbarashkov/linkshrink/internal/models"
)

// LinkRepository defines the link store the service works with.
// Implementations must be safe for concurrent use.
type LinkRepository interface {
	// Create inserts a new link. It returns database.ErrShortCodeExists when
	// the short code is already taken; the store's unique constraint decides.
	Create(ctx context.Context, shortCode, targetURL string) (*models.Link, error)

	// GetByShortCode retrieves a link without changing it.
	// Returns database.ErrLinkNotFound if there is no such link.
	GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error)

	// Exists reports whether a link with the short code is stored.
	Exists(ctx context.Context, shortCode string) (bool, error)

	// RecordClick atomically increments the click counter and returns the
	// updated link. Returns database.ErrLinkNotFound if there is no such link.
	RecordClick(ctx context.Context, shortCode string) (*models.Link, error)
}

type codeGenerator interface {
	Generate() (string, error)
}

// Option configures a LinkService.
type Option func(*LinkService)

// WithShortCodeLength sets the length of generated codes. Non-positive values are ignored.
func WithShortCodeLength(n int) Option {
	return func(s *LinkService) {
		if n > 0 {
			s.gen = NewShortCodeGenerator(n)
		}
	}
}

// WithMaxRetries caps how many candidate codes ShortenURL draws before giving up.
func WithMaxRetries(n int) Option {
	return func(s *LinkService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithGenerator replaces the random code generator.
func WithGenerator(gen codeGenerator) Option {
	return func(s *LinkService) {
		s.gen = gen
	}
}

// WithMetrics sets the sink that receives counters and latencies.
func WithMetrics(sink metrics.Sink) Option {
	return func(s *LinkService) {
		if sink != nil {
			s.metrics = sink
		}
	}
}

// WithLogger sets the logger used for warnings the service swallows.
func WithLogger(logger *slog.Logger) Option {
	return func(s *LinkService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// LinkService shortens URLs and resolves short codes. It holds no locks:
// uniqueness and click accounting are left to the repository.
type LinkService struct {
	repo       LinkRepository
	gen        codeGenerator
	metrics    metrics.Sink
	logger     *slog.Logger
	maxRetries int
}

// NewLinkService returns a LinkService backed by repo. Without options it
// generates codes of DefaultShortCodeLength and reports to a no-op sink.
func NewLinkService(repo LinkRepository, opts ...Option) *LinkService {
	s := &LinkService{
		repo:       repo,
		gen:        NewShortCodeGenerator(DefaultShortCodeLength),
		metrics:    metrics.Nop{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxRetries: DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// record runs a metrics call. A misbehaving sink must not break the
// operation it reports on.
func (s *LinkService) record(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("metrics sink panicked", slog.Any("panic", r))
		}
	}()

	fn()
}

func (s *LinkService) observe(operation string, start time.Time) {
	s.record(func() {
		s.metrics.ObserveLatency(operation, time.Since(start))
	})
}

// ShortenURL validates targetURL, allocates a free short code and stores
// the link. A taken candidate, whether seen by the existence check or
// rejected by the store on insert, is discarded and a new one is drawn.
func (s *LinkService) ShortenURL(ctx context.Context, targetURL string) (*models.Link, error) {
	const op = "service.LinkService.ShortenURL"

	defer s.observe(metrics.OpShorten, time.Now())

	if err := ValidateTargetURL(targetURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := 0; i < s.maxRetries; i++ {
		shortCode, err := s.gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		exists, err := s.repo.Exists(ctx, shortCode)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to check short code: %w", op, err)
		}
		if exists {
			continue
		}

		link, err := s.repo.Create(ctx, shortCode, targetURL)
		if err != nil {
			if errors.Is(err, database.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		s.record(s.metrics.IncCreated)

		return link, nil
	}

	s.logger.Error("short code space exhausted",
		slog.String("op", op),
		slog.Int("max_retries", s.maxRetries),
	)

	return nil, fmt.Errorf("%s: %w", op, ErrGenerationExhausted)
}

// ResolveShortCode records a click on the link and returns it. The lookup
// and the increment happen in one repository call.
func (s *LinkService) ResolveShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "service.LinkService.ResolveShortCode"

	defer s.observe(metrics.OpRedirect, time.Now())

	link, err := s.repo.RecordClick(ctx, shortCode)
	if err != nil {
		if errors.Is(err, database.ErrLinkNotFound) {
			s.record(s.metrics.IncNotFound)
		}

		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	s.record(s.metrics.IncRedirects)

	return link, nil
}

// GetLinkStats returns the link without recording a click.
func (s *LinkService) GetLinkStats(ctx context.Context, shortCode string) (*models.Link, error) {
	const op = "service.LinkService.GetLinkStats"

	defer s.observe(metrics.OpStats, time.Now())

	link, err := s.repo.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link stats: %w", op, err)
	}

	return link, nil
}
