// Package market decides when an instrument's market counts as closed for
// a given prediction date, which gates automatic confirmation. Confirming
// before close would attribute a wrong realized value permanently, so this
// is deliberately conservative: every predicted instrument must be closed.
package market

import (
	"time"

	"prediction-tracker/internal/dto"
	"prediction-tracker/pkg/utils"
)

// IsClosed reports whether inst's market is closed for predictionDate as
// of now. Past dates are always closed, future dates never; for today the
// instrument's UTC close hour must have passed.
func IsClosed(inst dto.Instrument, predictionDate, now time.Time) bool {
	day := utils.DateOnly(predictionDate)
	today := utils.DateOnly(now)

	if day.Before(today) {
		return true
	}
	if day.After(today) {
		return false
	}

	meta, ok := inst.Meta()
	if !ok {
		return false
	}
	return now.UTC().Hour() >= meta.CloseHourUTC
}

// CanAutoConfirm reports whether a pending record is eligible for the
// automatic confirmation sweep: not yet confirmed, at least one predicted
// instrument, and every predicted instrument's market closed.
func CanAutoConfirm(predictionDate time.Time, confirmedAt *time.Time, predicted []dto.Instrument, now time.Time) bool {
	if confirmedAt != nil {
		return false
	}
	if len(predicted) == 0 {
		return false
	}
	for _, inst := range predicted {
		if !IsClosed(inst, predictionDate, now) {
			return false
		}
	}
	return true
}
