package repository

import (
	"prediction-tracker/config"
	"prediction-tracker/pkg/cache"
	"prediction-tracker/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	PredictionRepo PredictionRepository
	UserRepo       UserRepository
	QuoteRepo      QuoteRepository
	UnitOfWork     UnitOfWork
}

func NewRepository(cfg *config.Config, memCache cache.Cache, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		PredictionRepo: NewPredictionRepository(db),
		UserRepo:       NewUserRepository(db),
		QuoteRepo:      NewQuoteRepository(cfg, memCache, log),
		UnitOfWork:     NewUnitOfWork(db),
	}, nil
}
