package model

import (
	"fmt"
	"math"
	"time"

	"prediction-tracker/internal/dto"
	"prediction-tracker/pkg/utils"

	"gorm.io/datatypes"
)

// StockPrediction is the per-instrument slot of a record. A nil slot means
// the user did not predict that instrument that day.
type StockPrediction struct {
	PreviousClose   float64  `json:"previous_close"`
	PredictedChange float64  `json:"predicted_change"`
	ActualChange    *float64 `json:"actual_change"`
	Deviation       *float64 `json:"deviation"`
}

// Confirmed reports whether the realized change has been attached.
func (s *StockPrediction) Confirmed() bool {
	return s != nil && s.ActualChange != nil
}

// PredictionRecord is one user's prediction for one calendar date. The
// (user_id, date) pair is unique; duplicate same-day creation resolves to
// the existing row.
type PredictionRecord struct {
	ID     uint           `gorm:"primaryKey" json:"id"`
	UserID uint           `gorm:"not null;uniqueIndex:idx_prediction_records_user_date" json:"user_id"`
	Date   datatypes.Date `gorm:"not null;uniqueIndex:idx_prediction_records_user_date" json:"date"`

	KospiPreviousClose   *float64 `json:"kospi_previous_close"`
	KospiPredictedChange *float64 `json:"kospi_predicted_change"`
	KospiActualChange    *float64 `json:"kospi_actual_change"`
	KospiDeviation       *float64 `json:"kospi_deviation"`

	NasdaqPreviousClose   *float64 `json:"nasdaq_previous_close"`
	NasdaqPredictedChange *float64 `json:"nasdaq_predicted_change"`
	NasdaqActualChange    *float64 `json:"nasdaq_actual_change"`
	NasdaqDeviation       *float64 `json:"nasdaq_deviation"`

	GoldPreviousClose   *float64 `json:"gold_previous_close"`
	GoldPredictedChange *float64 `json:"gold_predicted_change"`
	GoldActualChange    *float64 `json:"gold_actual_change"`
	GoldDeviation       *float64 `json:"gold_deviation"`

	BitcoinPreviousClose   *float64 `json:"bitcoin_previous_close"`
	BitcoinPredictedChange *float64 `json:"bitcoin_predicted_change"`
	BitcoinActualChange    *float64 `json:"bitcoin_actual_change"`
	BitcoinDeviation       *float64 `json:"bitcoin_deviation"`

	ReviewComment *string    `json:"review_comment"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (PredictionRecord) TableName() string {
	return "prediction_records"
}

// slot returns the four column pointers backing one instrument.
func (r *PredictionRecord) slot(inst dto.Instrument) (prev, pred, actual, dev **float64) {
	switch inst {
	case dto.InstrumentKospi:
		return &r.KospiPreviousClose, &r.KospiPredictedChange, &r.KospiActualChange, &r.KospiDeviation
	case dto.InstrumentNasdaq:
		return &r.NasdaqPreviousClose, &r.NasdaqPredictedChange, &r.NasdaqActualChange, &r.NasdaqDeviation
	case dto.InstrumentGold:
		return &r.GoldPreviousClose, &r.GoldPredictedChange, &r.GoldActualChange, &r.GoldDeviation
	case dto.InstrumentBitcoin:
		return &r.BitcoinPreviousClose, &r.BitcoinPredictedChange, &r.BitcoinActualChange, &r.BitcoinDeviation
	}
	return nil, nil, nil, nil
}

// Stock returns a copy of the instrument's slot, or nil when the user did
// not predict that instrument.
func (r *PredictionRecord) Stock(inst dto.Instrument) *StockPrediction {
	prev, pred, actual, dev := r.slot(inst)
	if prev == nil || *prev == nil || *pred == nil {
		return nil
	}
	s := &StockPrediction{
		PreviousClose:   **prev,
		PredictedChange: **pred,
	}
	if *actual != nil {
		v := **actual
		s.ActualChange = &v
	}
	if *dev != nil {
		v := **dev
		s.Deviation = &v
	}
	return s
}

// SetStock writes an instrument's slot. Passing nil clears the slot.
func (r *PredictionRecord) SetStock(inst dto.Instrument, s *StockPrediction) {
	prev, pred, actual, dev := r.slot(inst)
	if prev == nil {
		return
	}
	if s == nil {
		*prev, *pred, *actual, *dev = nil, nil, nil, nil
		return
	}
	pc, ch := s.PreviousClose, s.PredictedChange
	*prev, *pred = &pc, &ch
	*actual, *dev = nil, nil
	if s.ActualChange != nil {
		v := *s.ActualChange
		*actual = &v
		d := math.Abs(ch - v)
		*dev = &d
	}
}

// PredictedInstruments lists the instruments this record holds a
// prediction for, in display order.
func (r *PredictionRecord) PredictedInstruments() []dto.Instrument {
	var out []dto.Instrument
	for _, inst := range dto.Instruments() {
		if r.Stock(inst) != nil {
			out = append(out, inst)
		}
	}
	return out
}

// FullyConfirmed reports whether every predicted instrument has a realized
// change attached.
func (r *PredictionRecord) FullyConfirmed() bool {
	insts := r.PredictedInstruments()
	if len(insts) == 0 {
		return false
	}
	for _, inst := range insts {
		if !r.Stock(inst).Confirmed() {
			return false
		}
	}
	return true
}

// RecomputeConfirmedAt derives confirmed_at from the current slots:
// set (once) when all predicted instruments are actualized, cleared when
// any actualized value has been reverted.
func (r *PredictionRecord) RecomputeConfirmedAt(now time.Time) {
	if r.FullyConfirmed() {
		if r.ConfirmedAt == nil {
			t := now
			r.ConfirmedAt = &t
		}
		return
	}
	r.ConfirmedAt = nil
}

// ApplyActuals attaches realized changes for the given instruments,
// recomputing each deviation from the stored prediction and confirmed_at
// from the union of old and new actuals.
func (r *PredictionRecord) ApplyActuals(actuals map[dto.Instrument]float64, now time.Time) error {
	for inst, actual := range actuals {
		s := r.Stock(inst)
		if s == nil {
			return fmt.Errorf("instrument %s was not predicted on %s", inst, utils.FormatDate(time.Time(r.Date)))
		}
		v := actual
		s.ActualChange = &v
		r.SetStock(inst, s)
	}
	r.RecomputeConfirmedAt(now)
	return nil
}

// StockEdit is a partial per-instrument overwrite. Nil fields are left
// untouched; ClearActual reverts the realized change (and deviation) and
// may move the record back to pending.
type StockEdit struct {
	PredictedChange *float64
	ActualChange    *float64
	ClearActual     bool
}

// ApplyEdit applies partial overwrites and recomputes deviation and
// confirmed_at from the post-edit state.
func (r *PredictionRecord) ApplyEdit(edits map[dto.Instrument]StockEdit, now time.Time) error {
	for inst, edit := range edits {
		s := r.Stock(inst)
		if s == nil {
			return fmt.Errorf("instrument %s was not predicted on %s", inst, utils.FormatDate(time.Time(r.Date)))
		}
		if edit.PredictedChange != nil {
			s.PredictedChange = *edit.PredictedChange
		}
		if edit.ClearActual {
			s.ActualChange = nil
		} else if edit.ActualChange != nil {
			v := *edit.ActualChange
			s.ActualChange = &v
		}
		// SetStock rederives deviation from the final predicted/actual pair.
		r.SetStock(inst, s)
	}
	r.RecomputeConfirmedAt(now)
	return nil
}
