package repository

import (
	"context"
	"time"

	"prediction-tracker/internal/model"
	"prediction-tracker/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PredictionRepository interface {
	GetAll(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.PredictionRecord, error)
	GetByID(ctx context.Context, userID, id uint, opts ...utils.DBOption) (*model.PredictionRecord, error)
	GetByDate(ctx context.Context, userID uint, date time.Time) (*model.PredictionRecord, error)
	GetPending(ctx context.Context, userID uint) ([]model.PredictionRecord, error)
	GetAllPending(ctx context.Context) ([]model.PredictionRecord, error)
	GetConfirmedBetween(ctx context.Context, from, to *time.Time) ([]model.PredictionRecord, error)
	GetByDateAllUsers(ctx context.Context, date time.Time) ([]model.PredictionRecord, error)
	Create(ctx context.Context, record *model.PredictionRecord) (*model.PredictionRecord, bool, error)
	Save(ctx context.Context, record *model.PredictionRecord, opts ...utils.DBOption) error
	Delete(ctx context.Context, userID, id uint) (bool, error)
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{
		db: db,
	}
}

func (r *predictionRepository) GetAll(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.PredictionRecord, error) {
	var records []model.PredictionRecord
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Where("user_id = ?", userID).Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *predictionRepository) GetByID(ctx context.Context, userID, id uint, opts ...utils.DBOption) (*model.PredictionRecord, error) {
	var record model.PredictionRecord
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	// Always constrained by both id and owner so a foreign record is
	// indistinguishable from a missing one.
	result := tx.Where("id = ? AND user_id = ?", id, userID).First(&record)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}

	return &record, nil
}

func (r *predictionRepository) GetByDate(ctx context.Context, userID uint, date time.Time) (*model.PredictionRecord, error) {
	var record model.PredictionRecord
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, datatypes.Date(date)).
		First(&record)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}

func (r *predictionRepository) GetPending(ctx context.Context, userID uint) ([]model.PredictionRecord, error) {
	var records []model.PredictionRecord
	tx := utils.ApplyOptions(r.db.WithContext(ctx),
		utils.WithWhere("user_id = ? AND confirmed_at IS NULL", userID),
		utils.WithOrder("date DESC"),
	)
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *predictionRepository) GetAllPending(ctx context.Context) ([]model.PredictionRecord, error) {
	var records []model.PredictionRecord
	tx := utils.ApplyOptions(r.db.WithContext(ctx),
		utils.WithWhere("confirmed_at IS NULL"),
		utils.WithOrder("date ASC"),
	)
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *predictionRepository) GetConfirmedBetween(ctx context.Context, from, to *time.Time) ([]model.PredictionRecord, error) {
	var records []model.PredictionRecord
	tx := r.db.WithContext(ctx).Where("confirmed_at IS NOT NULL")
	if from != nil {
		tx = tx.Where("date >= ?", datatypes.Date(*from))
	}
	if to != nil {
		tx = tx.Where("date < ?", datatypes.Date(*to))
	}
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *predictionRepository) GetByDateAllUsers(ctx context.Context, date time.Time) ([]model.PredictionRecord, error) {
	var records []model.PredictionRecord
	err := r.db.WithContext(ctx).
		Where("date = ?", datatypes.Date(date)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts today's record. On a (user_id, date) conflict the insert
// is a no-op and the pre-existing row is returned instead; the bool
// reports whether a new row was written.
func (r *predictionRepository) Create(ctx context.Context, record *model.PredictionRecord) (*model.PredictionRecord, bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if result.RowsAffected == 0 {
		existing, err := r.GetByDate(ctx, record.UserID, time.Time(record.Date))
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return record, true, nil
}

func (r *predictionRepository) Save(ctx context.Context, record *model.PredictionRecord, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Save(record).Error
}

func (r *predictionRepository) Delete(ctx context.Context, userID, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.PredictionRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
