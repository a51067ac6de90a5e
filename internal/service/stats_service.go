package service

import (
	"context"
	"fmt"

	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/repository"
	"prediction-tracker/internal/stats"
)

// InstrumentStats wraps the computed summary with the display
// classification of the average deviation.
type InstrumentStats struct {
	stats.StockStats
	AverageClass string `json:"average_class"`
}

// StatsService computes per-user, per-instrument accuracy summaries.
type StatsService interface {
	GetStats(ctx context.Context, userID uint) ([]InstrumentStats, error)
}

type statsService struct {
	predictionRepo repository.PredictionRepository
}

func NewStatsService(predictionRepo repository.PredictionRepository) StatsService {
	return &statsService{
		predictionRepo: predictionRepo,
	}
}

func (s *statsService) GetStats(ctx context.Context, userID uint) ([]InstrumentStats, error) {
	records, err := s.predictionRepo.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}

	out := make([]InstrumentStats, 0, len(dto.Instruments()))
	for _, inst := range dto.Instruments() {
		st := stats.CalcStockStats(records, inst)
		entry := InstrumentStats{StockStats: st}
		if st.ConfirmedPredictions > 0 {
			entry.AverageClass = inst.ClassifyDeviation(st.AverageDeviation)
		}
		out = append(out, entry)
	}
	return out, nil
}
