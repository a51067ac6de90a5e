package service

import (
	"prediction-tracker/config"
	"prediction-tracker/internal/repository"
	"prediction-tracker/pkg/logger"
)

type Service struct {
	PredictionService PredictionService
	SweepService      SweepService
	RankingService    RankingService
	StatsService      StatsService
	QuoteService      QuoteService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
) *Service {
	sweepService := NewSweepService(cfg, log, repo.PredictionRepo, repo.QuoteRepo, repo.UnitOfWork)
	return &Service{
		PredictionService: NewPredictionService(cfg, log, repo.PredictionRepo, repo.UserRepo, repo.UnitOfWork),
		SweepService:      sweepService,
		RankingService:    NewRankingService(cfg, log, repo.PredictionRepo, repo.UserRepo, sweepService),
		StatsService:      NewStatsService(repo.PredictionRepo),
		QuoteService:      NewQuoteService(repo.QuoteRepo),
	}
}
