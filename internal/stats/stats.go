// Package stats holds the pure deviation and accuracy arithmetic. Nothing
// here touches storage or the clock; degenerate input yields zero values,
// never errors.
package stats

import (
	"math"
	"time"

	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/model"
)

// flatTolerance forgives a "no move" call when the realized change stayed
// within this band. The forgiveness is one-way: a near-zero actual does not
// excuse a nonzero prediction of the wrong sign.
const flatTolerance = 0.1

// Deviation is the absolute gap between predicted and realized change.
func Deviation(predicted, actual float64) float64 {
	return math.Abs(predicted - actual)
}

// IsDirectionCorrect reports whether the predicted sign matched the
// realized sign.
func IsDirectionCorrect(predicted, actual float64) bool {
	if predicted == 0 && actual == 0 {
		return true
	}
	if predicted == 0 {
		return math.Abs(actual) <= flatTolerance
	}
	if actual == 0 {
		return false
	}
	return (predicted > 0) == (actual > 0)
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation (divide by N), 0 for
// empty input.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// StockStats is the per-instrument accuracy summary for one user.
type StockStats struct {
	Instrument           dto.Instrument `json:"instrument"`
	TotalPredictions     int            `json:"total_predictions"`
	ConfirmedPredictions int            `json:"confirmed_predictions"`
	AverageDeviation     float64        `json:"average_deviation"`
	MinDeviation         float64        `json:"min_deviation"`
	MinDeviationDate     string         `json:"min_deviation_date"`
	MaxDeviation         float64        `json:"max_deviation"`
	MaxDeviationDate     string         `json:"max_deviation_date"`
	StdDeviation         float64        `json:"std_deviation"`
	DirectionAccuracy    float64        `json:"direction_accuracy"`
}

// CalcStockStats aggregates one instrument across a user's records,
// scanning in input order so the first occurrence wins min/max-date ties.
func CalcStockStats(records []model.PredictionRecord, inst dto.Instrument) StockStats {
	out := StockStats{Instrument: inst}

	var deviations []float64
	var correct int
	for i := range records {
		s := records[i].Stock(inst)
		if s == nil {
			continue
		}
		out.TotalPredictions++
		if !s.Confirmed() {
			continue
		}
		out.ConfirmedPredictions++

		dev := Deviation(s.PredictedChange, *s.ActualChange)
		deviations = append(deviations, dev)
		if IsDirectionCorrect(s.PredictedChange, *s.ActualChange) {
			correct++
		}

		date := time.Time(records[i].Date).Format("2006-01-02")
		if len(deviations) == 1 || dev < out.MinDeviation {
			out.MinDeviation = dev
			out.MinDeviationDate = date
		}
		if len(deviations) == 1 || dev > out.MaxDeviation {
			out.MaxDeviation = dev
			out.MaxDeviationDate = date
		}
	}

	if out.ConfirmedPredictions == 0 {
		return out
	}

	out.AverageDeviation = Mean(deviations)
	out.StdDeviation = StdDev(deviations)
	out.DirectionAccuracy = 100 * float64(correct) / float64(out.ConfirmedPredictions)
	return out
}
