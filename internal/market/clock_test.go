package market

import (
	"testing"
	"time"

	"prediction-tracker/internal/dto"
	"prediction-tracker/pkg/utils"

	"github.com/stretchr/testify/assert"
)

// kstDay parses a KST calendar date.
func kstDay(t *testing.T, date string) time.Time {
	t.Helper()
	day, err := time.ParseInLocation("2006-01-02", date, utils.KSTLocation)
	assert.NoError(t, err)
	return day
}

func TestIsClosed(t *testing.T) {
	// 2026-08-31 12:00 UTC is 2026-08-31 21:00 KST.
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		inst dto.Instrument
		date string
		want bool
	}{
		{name: "past date is always closed", inst: dto.InstrumentNasdaq, date: "2026-08-30", want: true},
		{name: "future date is never closed", inst: dto.InstrumentKospi, date: "2026-09-01", want: false},
		{name: "same day after kospi close", inst: dto.InstrumentKospi, date: "2026-08-31", want: true},
		{name: "same day before nasdaq close", inst: dto.InstrumentNasdaq, date: "2026-08-31", want: false},
		{name: "same day before gold close", inst: dto.InstrumentGold, date: "2026-08-31", want: false},
		{name: "same day before bitcoin cutoff", inst: dto.InstrumentBitcoin, date: "2026-08-31", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClosed(tt.inst, kstDay(t, tt.date), now))
		})
	}

	t.Run("same day once every market is past close", func(t *testing.T) {
		late := time.Date(2026, 8, 31, 13, 30, 0, 0, time.UTC) // 22:30 KST
		assert.True(t, IsClosed(dto.InstrumentKospi, kstDay(t, "2026-08-31"), late))
		assert.False(t, IsClosed(dto.InstrumentNasdaq, kstDay(t, "2026-08-31"), late))

		// 23:10 UTC on Aug 31 is already Sep 1 in KST; Aug 31 is a past day.
		utcEvening := time.Date(2026, 8, 31, 23, 10, 0, 0, time.UTC)
		assert.True(t, IsClosed(dto.InstrumentNasdaq, kstDay(t, "2026-08-31"), utcEvening))
	})
}

func TestCanAutoConfirm(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	confirmedAt := now.Add(-time.Hour)
	all := dto.Instruments()

	tests := []struct {
		name        string
		date        string
		confirmedAt *time.Time
		predicted   []dto.Instrument
		want        bool
	}{
		{name: "already confirmed", date: "2026-08-30", confirmedAt: &confirmedAt, predicted: all, want: false},
		{name: "nothing predicted", date: "2026-08-30", predicted: nil, want: false},
		{name: "tomorrow regardless of hour", date: "2026-09-01", predicted: all, want: false},
		{name: "yesterday regardless of instruments", date: "2026-08-30", predicted: all, want: true},
		{name: "today with only closed markets", date: "2026-08-31", predicted: []dto.Instrument{dto.InstrumentKospi}, want: true},
		{name: "today with one market still open", date: "2026-08-31", predicted: []dto.Instrument{dto.InstrumentKospi, dto.InstrumentNasdaq}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAutoConfirm(kstDay(t, tt.date), tt.confirmedAt, tt.predicted, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
