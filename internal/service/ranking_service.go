package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"prediction-tracker/config"
	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/repository"
	"prediction-tracker/internal/stats"
	"prediction-tracker/pkg/logger"
	"prediction-tracker/pkg/utils"
)

// RankingService builds the cross-user leaderboard. Deviations are pooled
// across instruments per user, not averaged per instrument first.
type RankingService interface {
	GetRanking(ctx context.Context, period string) (*dto.RankingResponse, error)
}

type rankingService struct {
	cfg            *config.Config
	log            *logger.Logger
	predictionRepo repository.PredictionRepository
	userRepo       repository.UserRepository
	sweep          SweepService
}

func NewRankingService(
	cfg *config.Config,
	log *logger.Logger,
	predictionRepo repository.PredictionRepository,
	userRepo repository.UserRepository,
	sweep SweepService,
) RankingService {
	return &rankingService{
		cfg:            cfg,
		log:            log,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		sweep:          sweep,
	}
}

type userPool struct {
	deviations []float64
	correct    int
	total      int
}

func (s *rankingService) GetRanking(ctx context.Context, period string) (*dto.RankingResponse, error) {
	if period == "" {
		period = dto.PeriodAll
	}
	if period != dto.PeriodAll && period != dto.PeriodWeek {
		return nil, fmt.Errorf("%w: unknown period %q", ErrValidation, period)
	}

	// Sweep first so just-closed markets are reflected in the board. A
	// quote outage only leaves records pending, so the ranking proceeds.
	if _, err := s.sweep.SweepAll(ctx); err != nil {
		s.log.WarnContext(ctx, "Auto-confirmation sweep failed before ranking",
			logger.ErrorField(err))
	}

	var from, to *time.Time
	if period == dto.PeriodWeek {
		start, end := utils.WeekWindow(utils.TimeNowKST())
		from, to = &start, &end
	}

	confirmed, err := s.predictionRepo.GetConfirmedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed predictions: %w", err)
	}

	pools := make(map[uint]*userPool)
	for i := range confirmed {
		record := &confirmed[i]
		pool, ok := pools[record.UserID]
		if !ok {
			pool = &userPool{}
			pools[record.UserID] = pool
		}
		for _, inst := range record.PredictedInstruments() {
			sp := record.Stock(inst)
			if !sp.Confirmed() || sp.Deviation == nil {
				continue
			}
			pool.deviations = append(pool.deviations, *sp.Deviation)
			pool.total++
			if stats.IsDirectionCorrect(sp.PredictedChange, *sp.ActualChange) {
				pool.correct++
			}
		}
	}

	todayCalls, err := s.todayCallsByUser(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	var ranked, unranked []dto.RankingUser
	for _, user := range users {
		calls := todayCalls[user.ID]
		pool, ok := pools[user.ID]
		if ok && len(pool.deviations) > 0 {
			ranked = append(ranked, dto.RankingUser{
				UserID:            user.ID,
				Name:              user.Name,
				AverageDeviation:  stats.Mean(pool.deviations),
				DirectionAccuracy: 100 * float64(pool.correct) / float64(pool.total),
				ConfirmedCount:    len(pool.deviations),
				TodayCalls:        calls,
			})
			continue
		}
		// No confirmed data in the window: shown only when the user made a
		// call today, appended after every ranked row.
		if len(calls) > 0 {
			unranked = append(unranked, dto.RankingUser{
				UserID:     user.ID,
				Name:       user.Name,
				Unranked:   true,
				TodayCalls: calls,
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageDeviation < ranked[j].AverageDeviation
	})

	rows := append(ranked, unranked...)
	for i := range rows {
		rows[i].Rank = i + 1
	}

	total := len(rows)
	if max := s.cfg.Ranking.MaxLeaderboardSize; max > 0 && len(rows) > max {
		rows = rows[:max]
	}

	return &dto.RankingResponse{
		Period:     period,
		Users:      rows,
		TotalCount: total,
	}, nil
}

func (s *rankingService) todayCallsByUser(ctx context.Context) (map[uint][]dto.TodayCall, error) {
	records, err := s.predictionRepo.GetByDateAllUsers(ctx, utils.TodayKST())
	if err != nil {
		return nil, fmt.Errorf("failed to load today's predictions: %w", err)
	}

	out := make(map[uint][]dto.TodayCall, len(records))
	for i := range records {
		record := &records[i]
		for _, inst := range record.PredictedInstruments() {
			sp := record.Stock(inst)
			out[record.UserID] = append(out[record.UserID], dto.TodayCall{
				Instrument:      inst,
				PredictedChange: sp.PredictedChange,
				ActualChange:    sp.ActualChange,
			})
		}
	}
	return out, nil
}
