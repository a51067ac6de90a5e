package dto

// Instrument identifies one of the fixed set of predictable symbols.
type Instrument string

const (
	InstrumentKospi   Instrument = "kospi"
	InstrumentNasdaq  Instrument = "nasdaq"
	InstrumentGold    Instrument = "gold"
	InstrumentBitcoin Instrument = "bitcoin"
)

// InstrumentMeta carries display and quote-source metadata for one
// instrument. Thresholds classify deviations for display only and never
// feed lifecycle logic.
type InstrumentMeta struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Currency      string  `json:"currency"`
	CloseHourUTC  int     `json:"close_hour_utc"`
	GoodThreshold float64 `json:"good_threshold"`
	FairThreshold float64 `json:"fair_threshold"`
}

// Instruments returns all instruments in display order.
func Instruments() []Instrument {
	return []Instrument{InstrumentKospi, InstrumentNasdaq, InstrumentGold, InstrumentBitcoin}
}

// Meta returns the metadata for an instrument. The false return marks an
// unknown instrument string, e.g. from an unvalidated request body.
func (i Instrument) Meta() (InstrumentMeta, bool) {
	switch i {
	case InstrumentKospi:
		return InstrumentMeta{
			Name:          "KOSPI",
			Symbol:        "^KS11",
			Currency:      "pt",
			CloseHourUTC:  6,
			GoodThreshold: 0.3,
			FairThreshold: 0.7,
		}, true
	case InstrumentNasdaq:
		return InstrumentMeta{
			Name:          "NASDAQ",
			Symbol:        "^IXIC",
			Currency:      "pt",
			CloseHourUTC:  21,
			GoodThreshold: 0.3,
			FairThreshold: 0.7,
		}, true
	case InstrumentGold:
		return InstrumentMeta{
			Name:          "Gold Futures",
			Symbol:        "GC=F",
			Currency:      "USD",
			CloseHourUTC:  22,
			GoodThreshold: 0.5,
			FairThreshold: 1.0,
		}, true
	case InstrumentBitcoin:
		// Crypto trades around the clock; 21:00 UTC is the daily
		// settlement cutoff used for confirmation gating.
		return InstrumentMeta{
			Name:          "Bitcoin",
			Symbol:        "BTC-USD",
			Currency:      "USD",
			CloseHourUTC:  21,
			GoodThreshold: 1.0,
			FairThreshold: 2.0,
		}, true
	default:
		return InstrumentMeta{}, false
	}
}

func (i Instrument) Valid() bool {
	_, ok := i.Meta()
	return ok
}

const (
	DeviationGood = "GOOD"
	DeviationFair = "FAIR"
	DeviationBad  = "BAD"
)

// ClassifyDeviation buckets a deviation against the instrument's display
// thresholds.
func (i Instrument) ClassifyDeviation(deviation float64) string {
	meta, ok := i.Meta()
	if !ok {
		return DeviationBad
	}
	switch {
	case deviation <= meta.GoodThreshold:
		return DeviationGood
	case deviation <= meta.FairThreshold:
		return DeviationFair
	default:
		return DeviationBad
	}
}
