package stats

import (
	"testing"
	"time"

	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/model"
	"prediction-tracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestIsDirectionCorrect(t *testing.T) {
	tests := []struct {
		name      string
		predicted float64
		actual    float64
		want      bool
	}{
		{name: "both zero", predicted: 0, actual: 0, want: true},
		{name: "flat call, actual within tolerance", predicted: 0, actual: 0.05, want: true},
		{name: "flat call, negative actual within tolerance", predicted: 0, actual: -0.1, want: true},
		{name: "flat call, actual beyond tolerance", predicted: 0, actual: 0.2, want: false},
		{name: "tolerance is one-way", predicted: 0.1, actual: 0, want: false},
		{name: "opposite signs", predicted: 0.1, actual: -0.1, want: false},
		{name: "both negative", predicted: -1, actual: -0.01, want: true},
		{name: "both positive", predicted: 2.5, actual: 0.3, want: true},
		{name: "predicted down, actual up", predicted: -0.5, actual: 1.2, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDirectionCorrect(tt.predicted, tt.actual))
		})
	}
}

func TestDeviation(t *testing.T) {
	assert.Equal(t, 0.5, Deviation(1.0, 0.5))
	assert.Equal(t, 1.5, Deviation(-0.5, 1.0))
	assert.Equal(t, 0.0, Deviation(0.7, 0.7))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{4, 4, 4}))
	// Population std-dev of {2, 4}: mean 3, variance 1.
	assert.InDelta(t, 1.0, StdDev([]float64{2, 4}), 1e-9)
}

func record(date string, predicted float64, actual *float64) model.PredictionRecord {
	day, _ := time.ParseInLocation("2006-01-02", date, utils.KSTLocation)
	r := model.PredictionRecord{Date: datatypes.Date(day)}
	r.SetStock(dto.InstrumentKospi, &model.StockPrediction{
		PreviousClose:   2500,
		PredictedChange: predicted,
		ActualChange:    actual,
	})
	return r
}

func TestCalcStockStats(t *testing.T) {
	t.Run("zero confirmed returns counts with zero metrics", func(t *testing.T) {
		records := []model.PredictionRecord{
			record("2026-08-24", 0.5, nil),
			record("2026-08-25", -0.2, nil),
		}
		got := CalcStockStats(records, dto.InstrumentKospi)
		assert.Equal(t, 2, got.TotalPredictions)
		assert.Equal(t, 0, got.ConfirmedPredictions)
		assert.Equal(t, 0.0, got.AverageDeviation)
		assert.Equal(t, 0.0, got.DirectionAccuracy)
		assert.Empty(t, got.MinDeviationDate)
	})

	t.Run("records without this instrument are excluded", func(t *testing.T) {
		records := []model.PredictionRecord{
			record("2026-08-24", 0.5, utils.ToPointer(0.6)),
		}
		got := CalcStockStats(records, dto.InstrumentGold)
		assert.Equal(t, 0, got.TotalPredictions)
		assert.Equal(t, 0, got.ConfirmedPredictions)
	})

	t.Run("aggregates confirmed deviations", func(t *testing.T) {
		records := []model.PredictionRecord{
			record("2026-08-24", 0.5, utils.ToPointer(0.7)),  // dev 0.2, correct
			record("2026-08-25", -0.3, utils.ToPointer(0.5)), // dev 0.8, wrong
			record("2026-08-26", 1.0, nil),                   // pending, counted only as total
		}
		got := CalcStockStats(records, dto.InstrumentKospi)
		assert.Equal(t, 3, got.TotalPredictions)
		assert.Equal(t, 2, got.ConfirmedPredictions)
		assert.InDelta(t, 0.5, got.AverageDeviation, 1e-9)
		assert.InDelta(t, 0.2, got.MinDeviation, 1e-9)
		assert.Equal(t, "2026-08-24", got.MinDeviationDate)
		assert.InDelta(t, 0.8, got.MaxDeviation, 1e-9)
		assert.Equal(t, "2026-08-25", got.MaxDeviationDate)
		assert.InDelta(t, 0.3, got.StdDeviation, 1e-9)
		assert.InDelta(t, 50.0, got.DirectionAccuracy, 1e-9)
	})

	t.Run("first occurrence wins min and max ties", func(t *testing.T) {
		records := []model.PredictionRecord{
			record("2026-08-24", 0.5, utils.ToPointer(0.9)), // dev 0.4
			record("2026-08-25", 0.5, utils.ToPointer(0.9)), // dev 0.4
		}
		got := CalcStockStats(records, dto.InstrumentKospi)
		assert.Equal(t, "2026-08-24", got.MinDeviationDate)
		assert.Equal(t, "2026-08-24", got.MaxDeviationDate)
	})
}
