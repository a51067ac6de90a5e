package service

import (
	"context"

	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/repository"
)

// QuoteService exposes current quotes for the instrument set, tolerating
// partial availability: instruments that fail carry their error inline.
type QuoteService interface {
	GetQuotes(ctx context.Context) []dto.InstrumentQuote
}

type quoteService struct {
	quoteRepo repository.QuoteRepository
}

func NewQuoteService(quoteRepo repository.QuoteRepository) QuoteService {
	return &quoteService{
		quoteRepo: quoteRepo,
	}
}

func (s *quoteService) GetQuotes(ctx context.Context) []dto.InstrumentQuote {
	out := make([]dto.InstrumentQuote, 0, len(dto.Instruments()))
	for _, inst := range dto.Instruments() {
		entry := dto.InstrumentQuote{Instrument: inst}
		quote, err := s.quoteRepo.Get(ctx, inst)
		if err != nil {
			entry.Err = err.Error()
		} else {
			entry.Quote = quote
		}
		out = append(out, entry)
	}
	return out
}
