package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"prediction-tracker/config"
	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/model"
	"prediction-tracker/internal/repository"
	"prediction-tracker/pkg/logger"
	"prediction-tracker/pkg/utils"

	"gorm.io/datatypes"
)

// PredictionService owns the record lifecycle: creation starts a record
// pending, confirmation attaches realized changes, and edits recompute the
// whole state from scratch (including moving a confirmed record back to
// pending).
type PredictionService interface {
	Create(ctx context.Context, userID uint, userName string, req dto.CreatePredictionRequest) (*model.PredictionRecord, error)
	GetAll(ctx context.Context, userID uint) ([]model.PredictionRecord, error)
	GetToday(ctx context.Context, userID uint) (*model.PredictionRecord, error)
	GetPending(ctx context.Context, userID uint) ([]model.PredictionRecord, error)
	Confirm(ctx context.Context, userID, id uint, actuals map[dto.Instrument]float64) (*model.PredictionRecord, error)
	Edit(ctx context.Context, userID, id uint, req dto.EditPredictionRequest) (*model.PredictionRecord, error)
	SaveComment(ctx context.Context, userID, id uint, comment string) (*model.PredictionRecord, error)
	Delete(ctx context.Context, userID, id uint) error
}

type predictionService struct {
	cfg            *config.Config
	log            *logger.Logger
	predictionRepo repository.PredictionRepository
	userRepo       repository.UserRepository
	uow            repository.UnitOfWork
}

func NewPredictionService(
	cfg *config.Config,
	log *logger.Logger,
	predictionRepo repository.PredictionRepository,
	userRepo repository.UserRepository,
	uow repository.UnitOfWork,
) PredictionService {
	return &predictionService{
		cfg:            cfg,
		log:            log,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		uow:            uow,
	}
}

func (s *predictionService) Create(ctx context.Context, userID uint, userName string, req dto.CreatePredictionRequest) (*model.PredictionRecord, error) {
	record := &model.PredictionRecord{
		UserID: userID,
		Date:   datatypes.Date(utils.TodayKST()),
	}

	var predicted int
	for inst, input := range req.Predictions {
		if input == nil {
			continue
		}
		if !inst.Valid() {
			return nil, fmt.Errorf("%w: unknown instrument %q", ErrValidation, inst)
		}
		if input.PreviousClose == nil || input.PredictedChange == nil {
			return nil, fmt.Errorf("%w: %s requires previous_close and predicted_change", ErrValidation, inst)
		}
		if !isFinite(*input.PreviousClose) || !isFinite(*input.PredictedChange) {
			return nil, fmt.Errorf("%w: %s has a non-numeric value", ErrValidation, inst)
		}
		if *input.PreviousClose <= 0 {
			return nil, fmt.Errorf("%w: %s previous_close must be positive", ErrValidation, inst)
		}
		record.SetStock(inst, &model.StockPrediction{
			PreviousClose:   *input.PreviousClose,
			PredictedChange: *input.PredictedChange,
		})
		predicted++
	}
	if predicted == 0 {
		return nil, fmt.Errorf("%w: at least one instrument is required", ErrValidation)
	}

	suppliedName := userName
	if userName == "" {
		userName = fmt.Sprintf("user-%d", userID)
	}
	user, err := s.userRepo.Ensure(ctx, userID, userName)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user %d: %w", userID, err)
	}
	// Keep the display name current, but never overwrite a real name with
	// the placeholder used when the header is absent.
	if suppliedName != "" && user.Name != suppliedName {
		if err := s.userRepo.UpdateName(ctx, userID, suppliedName); err != nil {
			return nil, fmt.Errorf("failed to update user %d name: %w", userID, err)
		}
	}

	stored, created, err := s.predictionRepo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}
	if !created {
		// Duplicate same-day submission; the winning row is the answer.
		s.log.InfoContext(ctx, "Same-day prediction already exists, returning stored record",
			logger.IntField("user_id", int(userID)),
			logger.IntField("record_id", int(stored.ID)))
	}
	return stored, nil
}

func (s *predictionService) GetAll(ctx context.Context, userID uint) ([]model.PredictionRecord, error) {
	return s.predictionRepo.GetAll(ctx, userID)
}

func (s *predictionService) GetToday(ctx context.Context, userID uint) (*model.PredictionRecord, error) {
	return s.predictionRepo.GetByDate(ctx, userID, utils.TodayKST())
}

func (s *predictionService) GetPending(ctx context.Context, userID uint) ([]model.PredictionRecord, error) {
	return s.predictionRepo.GetPending(ctx, userID)
}

func (s *predictionService) Confirm(ctx context.Context, userID, id uint, actuals map[dto.Instrument]float64) (*model.PredictionRecord, error) {
	if len(actuals) == 0 {
		return nil, fmt.Errorf("%w: at least one actual change is required", ErrValidation)
	}
	for inst, actual := range actuals {
		if !inst.Valid() {
			return nil, fmt.Errorf("%w: unknown instrument %q", ErrValidation, inst)
		}
		if !isFinite(actual) {
			return nil, fmt.Errorf("%w: %s has a non-numeric actual change", ErrValidation, inst)
		}
	}

	var updated *model.PredictionRecord
	err := s.uow.Run(func(opts ...utils.DBOption) error {
		// Re-read inside the transaction so a concurrent sweep and a
		// manual confirm do not clobber each other from cached state.
		record, err := s.predictionRepo.GetByID(ctx, userID, id, opts...)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrNotFound
		}
		if err := record.ApplyActuals(actuals, time.Now()); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := s.predictionRepo.Save(ctx, record, opts...); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *predictionService) Edit(ctx context.Context, userID, id uint, req dto.EditPredictionRequest) (*model.PredictionRecord, error) {
	edits := make(map[dto.Instrument]model.StockEdit, len(req.Edits))
	for inst, input := range req.Edits {
		if input == nil {
			continue
		}
		if !inst.Valid() {
			return nil, fmt.Errorf("%w: unknown instrument %q", ErrValidation, inst)
		}
		if input.PredictedChange != nil && !isFinite(*input.PredictedChange) {
			return nil, fmt.Errorf("%w: %s has a non-numeric predicted change", ErrValidation, inst)
		}
		if input.ActualChange != nil && !isFinite(*input.ActualChange) {
			return nil, fmt.Errorf("%w: %s has a non-numeric actual change", ErrValidation, inst)
		}
		edits[inst] = model.StockEdit{
			PredictedChange: input.PredictedChange,
			ActualChange:    input.ActualChange,
			ClearActual:     input.ClearActual,
		}
	}
	if len(edits) == 0 {
		return nil, fmt.Errorf("%w: at least one instrument edit is required", ErrValidation)
	}

	var updated *model.PredictionRecord
	err := s.uow.Run(func(opts ...utils.DBOption) error {
		record, err := s.predictionRepo.GetByID(ctx, userID, id, opts...)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrNotFound
		}
		if err := record.ApplyEdit(edits, time.Now()); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := s.predictionRepo.Save(ctx, record, opts...); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *predictionService) SaveComment(ctx context.Context, userID, id uint, comment string) (*model.PredictionRecord, error) {
	var updated *model.PredictionRecord
	err := s.uow.Run(func(opts ...utils.DBOption) error {
		record, err := s.predictionRepo.GetByID(ctx, userID, id, opts...)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrNotFound
		}
		if record.ConfirmedAt == nil {
			return fmt.Errorf("%w: review comment requires a confirmed prediction", ErrValidation)
		}
		comment = strings.TrimSpace(comment)
		if comment == "" {
			record.ReviewComment = nil
		} else {
			record.ReviewComment = &comment
		}
		if err := s.predictionRepo.Save(ctx, record, opts...); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *predictionService) Delete(ctx context.Context, userID, id uint) error {
	deleted, err := s.predictionRepo.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete prediction: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
