package service

import (
	"context"
	"testing"
	"time"

	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/model"
	"prediction-tracker/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// confirmedRecord seeds a confirmed kospi record dated daysAgo with the
// given deviation. Direction is correct when predicted and actual share
// sign.
func confirmedRecord(predictions *fakePredictionRepo, userID uint, daysAgo int, predicted, actual float64) {
	r := model.PredictionRecord{
		UserID: userID,
		Date:   datatypes.Date(utils.TodayKST().AddDate(0, 0, -daysAgo)),
	}
	r.SetStock(dto.InstrumentKospi, &model.StockPrediction{PreviousClose: 2500, PredictedChange: predicted})
	stored := predictions.add(r)
	record, _ := predictions.GetByID(context.Background(), userID, stored.ID)
	_ = record.ApplyActuals(map[dto.Instrument]float64{dto.InstrumentKospi: actual}, time.Now())
	_ = predictions.Save(context.Background(), record)
}

func pendingToday(predictions *fakePredictionRepo, userID uint) {
	r := model.PredictionRecord{UserID: userID, Date: datatypes.Date(utils.TodayKST())}
	r.SetStock(dto.InstrumentBitcoin, &model.StockPrediction{PreviousClose: 60000, PredictedChange: 2.0})
	predictions.add(r)
}

func newRankingFixture(t *testing.T) (*fakePredictionRepo, *fakeUserRepo, RankingService) {
	t.Helper()
	predictions := newFakePredictionRepo()
	users := newFakeUserRepo()

	// Quotes always fail so the pre-ranking sweep cannot confirm anything.
	quotes := newFakeQuoteRepo()
	sweep := NewSweepService(testConfig(), testLogger(), predictions, quotes, fakeUow{})
	svc := NewRankingService(testConfig(), testLogger(), predictions, users, sweep)
	return predictions, users, svc
}

func TestRankingService_GetRanking(t *testing.T) {
	ctx := context.Background()

	predictions, users, svc := newRankingFixture(t)

	_, _ = users.Ensure(ctx, 1, "alice")
	_, _ = users.Ensure(ctx, 2, "bob")
	_, _ = users.Ensure(ctx, 3, "carol")

	// alice: avg deviation 0.5, both directions correct.
	confirmedRecord(predictions, 1, 3, 0.5, 0.9) // dev 0.4
	confirmedRecord(predictions, 1, 2, 0.5, 1.1) // dev 0.6
	// bob: avg deviation 1.5, direction wrong.
	confirmedRecord(predictions, 2, 2, -0.5, 1.0) // dev 1.5
	// carol: only a same-day pending call.
	pendingToday(predictions, 3)

	ranking, err := svc.GetRanking(ctx, dto.PeriodAll)
	require.NoError(t, err)

	require.Len(t, ranking.Users, 3)
	assert.Equal(t, 3, ranking.TotalCount)

	assert.Equal(t, []uint{1, 2, 3}, []uint{
		ranking.Users[0].UserID,
		ranking.Users[1].UserID,
		ranking.Users[2].UserID,
	})
	assert.Equal(t, []int{1, 2, 3}, []int{
		ranking.Users[0].Rank,
		ranking.Users[1].Rank,
		ranking.Users[2].Rank,
	})

	alice := ranking.Users[0]
	assert.InDelta(t, 0.5, alice.AverageDeviation, 1e-9)
	assert.InDelta(t, 100.0, alice.DirectionAccuracy, 1e-9)
	assert.Equal(t, 2, alice.ConfirmedCount)
	assert.False(t, alice.Unranked)

	bob := ranking.Users[1]
	assert.InDelta(t, 1.5, bob.AverageDeviation, 1e-9)
	assert.InDelta(t, 0.0, bob.DirectionAccuracy, 1e-9)

	carol := ranking.Users[2]
	assert.True(t, carol.Unranked)
	assert.Len(t, carol.TodayCalls, 1)
	assert.Equal(t, dto.InstrumentBitcoin, carol.TodayCalls[0].Instrument)
}

func TestRankingService_WeekWindow(t *testing.T) {
	ctx := context.Background()

	predictions, users, svc := newRankingFixture(t)
	_, _ = users.Ensure(ctx, 1, "alice")

	// Inside the current week (today) and far outside it.
	confirmedRecord(predictions, 1, 0, 0.5, 0.9)  // dev 0.4
	confirmedRecord(predictions, 1, 30, 0.5, 9.5) // dev 9.0, previous month

	weekly, err := svc.GetRanking(ctx, dto.PeriodWeek)
	require.NoError(t, err)
	require.Len(t, weekly.Users, 1)
	assert.Equal(t, 1, weekly.Users[0].ConfirmedCount)
	assert.InDelta(t, 0.4, weekly.Users[0].AverageDeviation, 1e-9)

	allTime, err := svc.GetRanking(ctx, dto.PeriodAll)
	require.NoError(t, err)
	assert.Equal(t, 2, allTime.Users[0].ConfirmedCount)
}

func TestRankingService_Validation(t *testing.T) {
	_, _, svc := newRankingFixture(t)
	_, err := svc.GetRanking(context.Background(), "fortnight")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRankingService_Truncation(t *testing.T) {
	ctx := context.Background()

	predictions := newFakePredictionRepo()
	users := newFakeUserRepo()
	quotes := newFakeQuoteRepo()
	cfg := testConfig()
	cfg.Ranking.MaxLeaderboardSize = 2

	sweep := NewSweepService(cfg, testLogger(), predictions, quotes, fakeUow{})
	svc := NewRankingService(cfg, testLogger(), predictions, users, sweep)

	for id := uint(1); id <= 3; id++ {
		_, _ = users.Ensure(ctx, id, "user")
		confirmedRecord(predictions, id, 1, 0.5, 0.5+float64(id)*0.1)
	}

	ranking, err := svc.GetRanking(ctx, dto.PeriodAll)
	require.NoError(t, err)
	assert.Len(t, ranking.Users, 2)
	assert.Equal(t, 3, ranking.TotalCount)
}

func TestRankingService_SweepRunsFirst(t *testing.T) {
	ctx := context.Background()

	predictions := newFakePredictionRepo()
	users := newFakeUserRepo()
	_, _ = users.Ensure(ctx, 1, "alice")

	// Pending record whose markets have all closed; the ranking's sweep
	// should confirm it before aggregating.
	r := model.PredictionRecord{
		UserID: 1,
		Date:   datatypes.Date(utils.TodayKST().AddDate(0, 0, -1)),
	}
	r.SetStock(dto.InstrumentKospi, &model.StockPrediction{PreviousClose: 2500, PredictedChange: 0.5})
	predictions.add(r)

	quotes := newFakeQuoteRepo()
	quotes.quotes[dto.InstrumentKospi] = &dto.Quote{Symbol: "^KS11", ChangePercent: 0.9}

	sweep := NewSweepService(testConfig(), testLogger(), predictions, quotes, fakeUow{})
	svc := NewRankingService(testConfig(), testLogger(), predictions, users, sweep)

	ranking, err := svc.GetRanking(ctx, dto.PeriodAll)
	require.NoError(t, err)
	require.Len(t, ranking.Users, 1)
	assert.False(t, ranking.Users[0].Unranked)
	assert.InDelta(t, 0.4, ranking.Users[0].AverageDeviation, 1e-9)
}
