package dto

// Quote is the normalized answer from the external quote source for one
// instrument symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price"`
	PreviousClose float64 `json:"previous_close"`
	ChangePercent float64 `json:"change_percent"`
}

// QuoteSourceResponse mirrors the upstream wire shape.
type QuoteSourceResponse struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  *float64 `json:"currentPrice"`
	PreviousClose *float64 `json:"previousClose"`
	ChangePercent *float64 `json:"changePercent"`
	Error         string   `json:"error,omitempty"`
}

// InstrumentQuote pairs a quote with its instrument for the quotes
// endpoint; Err carries the per-instrument failure when the source only
// partially resolved.
type InstrumentQuote struct {
	Instrument Instrument `json:"instrument"`
	Quote      *Quote     `json:"quote,omitempty"`
	Err        string     `json:"error,omitempty"`
}
