package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"prediction-tracker/config"
	"prediction-tracker/internal/dto"
	"prediction-tracker/internal/market"
	"prediction-tracker/internal/model"
	"prediction-tracker/internal/repository"
	"prediction-tracker/pkg/logger"
	"prediction-tracker/pkg/utils"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// SweepResult summarizes one automatic-confirmation pass.
type SweepResult struct {
	Scanned   int        `json:"scanned"`
	Confirmed int        `json:"confirmed"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

// SweepService confirms pending records whose markets have all closed,
// pulling realized changes from the quote source. A record is confirmed
// whole or not at all: if any needed quote is missing it stays pending for
// the next pass.
type SweepService interface {
	SweepAll(ctx context.Context) (*SweepResult, error)
	SweepUser(ctx context.Context, userID uint) (*SweepResult, error)
}

type sweepService struct {
	cfg            *config.Config
	log            *logger.Logger
	predictionRepo repository.PredictionRepository
	quoteRepo      repository.QuoteRepository
	uow            repository.UnitOfWork
	cronParser     cron.Parser
}

func NewSweepService(
	cfg *config.Config,
	log *logger.Logger,
	predictionRepo repository.PredictionRepository,
	quoteRepo repository.QuoteRepository,
	uow repository.UnitOfWork,
) SweepService {
	return &sweepService{
		cfg:            cfg,
		log:            log,
		predictionRepo: predictionRepo,
		quoteRepo:      quoteRepo,
		uow:            uow,
		cronParser:     cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

func (s *sweepService) SweepAll(ctx context.Context) (*SweepResult, error) {
	records, err := s.predictionRepo.GetAllPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending predictions: %w", err)
	}
	result := s.sweep(ctx, records)
	s.attachNextRun(ctx, result)
	return result, nil
}

func (s *sweepService) SweepUser(ctx context.Context, userID uint) (*SweepResult, error) {
	records, err := s.predictionRepo.GetPending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending predictions for user %d: %w", userID, err)
	}
	return s.sweep(ctx, records), nil
}

// sweep processes each record at most once per call. Dedup within the run
// uses a call-scoped set; across runs the confirmed_at column is the
// idempotency source, re-checked inside the write transaction.
func (s *sweepService) sweep(ctx context.Context, records []model.PredictionRecord) *SweepResult {
	now := time.Now()
	result := &SweepResult{Scanned: len(records)}

	processed := make(map[uint]struct{}, len(records))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Sweep.MaxConcurrency)

	for i := range records {
		record := records[i]
		if _, seen := processed[record.ID]; seen {
			continue
		}
		processed[record.ID] = struct{}{}

		insts := record.PredictedInstruments()
		if !market.CanAutoConfirm(time.Time(record.Date), record.ConfirmedAt, insts, now) {
			result.Skipped++
			continue
		}

		g.Go(func() error {
			confirmed, err := s.confirmRecord(gctx, record, insts)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
			case confirmed:
				result.Confirmed++
			default:
				result.Skipped++
			}
			return nil
		})
	}

	_ = g.Wait()
	return result
}

// confirmRecord fetches every needed quote and, only when all resolved,
// applies them as a confirmation. Partial quote availability leaves the
// record untouched.
func (s *sweepService) confirmRecord(ctx context.Context, record model.PredictionRecord, insts []dto.Instrument) (bool, error) {
	actuals := make(map[dto.Instrument]float64, len(insts))
	for _, inst := range insts {
		quote, err := s.quoteRepo.Get(ctx, inst)
		if err != nil {
			s.logQuoteFailure(ctx, record.ID, inst, err)
			return false, err
		}
		actuals[inst] = quote.ChangePercent
	}

	var confirmed bool
	err := s.uow.Run(func(opts ...utils.DBOption) error {
		current, err := s.predictionRepo.GetByID(ctx, record.UserID, record.ID, opts...)
		if err != nil {
			return err
		}
		if current == nil || current.ConfirmedAt != nil {
			// Deleted or confirmed by a racing manual confirm.
			return nil
		}
		if err := current.ApplyActuals(actuals, time.Now()); err != nil {
			return err
		}
		if err := s.predictionRepo.Save(ctx, current, opts...); err != nil {
			return err
		}
		confirmed = true
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to auto-confirm prediction",
			logger.IntField("record_id", int(record.ID)),
			logger.ErrorField(err))
		return false, err
	}
	return confirmed, nil
}

func (s *sweepService) logQuoteFailure(ctx context.Context, recordID uint, inst dto.Instrument, err error) {
	msg := "Quote unavailable, leaving prediction pending"
	switch {
	case IsQuoteTimeout(err):
		msg = "Quote request timed out, leaving prediction pending"
	case errors.Is(err, repository.ErrQuoteIncomplete):
		msg = "Quote incomplete, leaving prediction pending"
	}
	s.log.WarnContext(ctx, msg,
		logger.IntField("record_id", int(recordID)),
		logger.StringField("instrument", string(inst)),
		logger.ErrorField(err))
}

// attachNextRun reports when the external scheduler is expected to call
// the sweep again, per the configured cron expression. There is no
// in-process timer; this is informational only.
func (s *sweepService) attachNextRun(ctx context.Context, result *SweepResult) {
	if s.cfg.Sweep.CronExpression == "" {
		return
	}
	schedule, err := s.cronParser.Parse(s.cfg.Sweep.CronExpression)
	if err != nil {
		s.log.WarnContext(ctx, "Invalid sweep cron expression",
			logger.StringField("cron_expression", s.cfg.Sweep.CronExpression),
			logger.ErrorField(err))
		return
	}
	next := schedule.Next(utils.TimeNowKST())
	result.NextRun = &next
}
