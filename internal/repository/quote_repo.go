package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"prediction-tracker/config"
	"prediction-tracker/internal/dto"
	"prediction-tracker/pkg/cache"
	"prediction-tracker/pkg/httpclient"
	"prediction-tracker/pkg/logger"

	"golang.org/x/time/rate"
)

var (
	// ErrQuoteUnavailable marks a quote-source failure; the caller leaves
	// affected records pending and retries on a later sweep.
	ErrQuoteUnavailable = errors.New("quote source unavailable")
	// ErrQuoteIncomplete marks a quote missing its previous close. The
	// source used to substitute the current price, which silently zeroed
	// the change percent; surfacing it keeps bad data out of confirmations.
	ErrQuoteIncomplete = errors.New("quote incomplete")
)

type QuoteRepository interface {
	Get(ctx context.Context, inst dto.Instrument) (*dto.Quote, error)
}

type quoteRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	cache          cache.Cache
	requestLimiter *rate.Limiter
}

// NewQuoteRepository creates the external quote-source client. Requests
// are rate limited and bounded by the configured timeout; successful
// quotes are cached for a short TTL so a sweep does not hammer the source.
func NewQuoteRepository(cfg *config.Config, memCache cache.Cache, log *logger.Logger) QuoteRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Quote.MaxRequestPerMin)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &quoteRepository{
		httpClient:     httpclient.New(cfg.Quote.BaseURL, cfg.Quote.Timeout),
		cfg:            cfg,
		logger:         log,
		cache:          memCache,
		requestLimiter: requestLimiter,
	}
}

func (r *quoteRepository) Get(ctx context.Context, inst dto.Instrument) (*dto.Quote, error) {
	meta, ok := inst.Meta()
	if !ok {
		return nil, fmt.Errorf("unknown instrument: %s", inst)
	}

	cacheKey := "quote:" + meta.Symbol
	if cached, found := r.cache.Get(cacheKey); found {
		if quote, ok := cached.(*dto.Quote); ok {
			return quote, nil
		}
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
	}

	queryParams := map[string]string{
		"symbol": meta.Symbol,
	}

	var sourceResp dto.QuoteSourceResponse
	resp, err := r.httpClient.Get(ctx, "/quote", queryParams, nil, &sourceResp)
	if err != nil {
		r.logger.WarnContext(ctx, "Quote source request failed",
			logger.StringField("symbol", meta.Symbol),
			logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Quote source returned Non-OK status",
			logger.StringField("symbol", meta.Symbol),
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("%w: status %d", ErrQuoteUnavailable, resp.StatusCode)
	}

	if sourceResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrQuoteUnavailable, sourceResp.Error)
	}

	if sourceResp.CurrentPrice == nil {
		return nil, fmt.Errorf("%w: no price for %s", ErrQuoteUnavailable, meta.Symbol)
	}
	if sourceResp.PreviousClose == nil || *sourceResp.PreviousClose == 0 {
		return nil, fmt.Errorf("%w: no previous close for %s", ErrQuoteIncomplete, meta.Symbol)
	}

	quote := &dto.Quote{
		Symbol:        meta.Symbol,
		CurrentPrice:  *sourceResp.CurrentPrice,
		PreviousClose: *sourceResp.PreviousClose,
	}
	if sourceResp.ChangePercent != nil {
		quote.ChangePercent = *sourceResp.ChangePercent
	} else {
		quote.ChangePercent = (quote.CurrentPrice - quote.PreviousClose) / quote.PreviousClose * 100
	}

	r.cache.Set(cacheKey, quote, r.cfg.Quote.CacheTTL)
	return quote, nil
}
