// Package quote wraps a raw price oracle with the collaborator-boundary
// controls the rest of the system relies on: a request rate limit and a
// per-call timeout, so a hanging provider call cannot block a session
// worker indefinitely.
package quote

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
)

const (
	// DefaultRateLimit is the provider request budget in requests per second.
	DefaultRateLimit = 5
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 30 * time.Second
)

// Service implements QuoteService over an injected PriceOracle.
type Service struct {
	oracle  interfaces.PriceOracle
	logger  *common.Logger
	limiter *rate.Limiter
	timeout time.Duration
}

// Option configures the service
type Option func(*Service)

// WithRateLimit sets the provider requests-per-second budget
func WithRateLimit(requestsPerSecond int) Option {
	return func(s *Service) {
		if requestsPerSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// NewService creates a new quote service around the given oracle.
func NewService(oracle interfaces.PriceOracle, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		oracle:  oracle,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// acquire waits for the rate limiter and returns a bounded context.
func (s *Service) acquire(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait: %w", err)
	}
	bounded, cancel := context.WithTimeout(ctx, s.timeout)
	return bounded, cancel, nil
}

// GetQuote retrieves the current price for a symbol.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	ctx, cancel, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return s.oracle.GetQuote(ctx, symbol)
}

// GetOverview retrieves company metadata for a symbol.
func (s *Service) GetOverview(ctx context.Context, symbol string) (*models.Overview, error) {
	ctx, cancel, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return s.oracle.GetOverview(ctx, symbol)
}

// GetHistory retrieves daily bars for a symbol. The provider's ordering is
// preserved as-is, never re-sorted.
func (s *Service) GetHistory(ctx context.Context, symbol string, size int) ([]models.Candle, error) {
	ctx, cancel, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return s.oracle.GetHistory(ctx, symbol, size)
}

// Lookup combines overview metadata with the latest price.
func (s *Service) Lookup(ctx context.Context, symbol string) (*models.StockInfo, error) {
	overview, err := s.GetOverview(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", symbol, err)
	}
	quote, err := s.GetQuote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", symbol, err)
	}

	s.logger.Debug().Str("symbol", symbol).Float64("price", quote.Price).Msg("Stock lookup complete")

	return &models.StockInfo{
		Overview:     *overview,
		CurrentPrice: quote.Price,
	}, nil
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
