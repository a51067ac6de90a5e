package repository

import (
	"context"

	"prediction-tracker/internal/model"
	"prediction-tracker/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Get(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	Ensure(ctx context.Context, id uint, name string) (*model.User, error)
	UpdateName(ctx context.Context, id uint, name string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Get(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error) {
	var user model.User
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where("id = ?", id).First(&user)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}

	return &user, nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Ensure upserts the identity row supplied by the auth layer so prediction
// rows always have a user to reference.
func (r *userRepository) Ensure(ctx context.Context, id uint, name string) (*model.User, error) {
	user := model.User{ID: id, Name: name}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.Get(ctx, id)
	}
	return &user, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("name", name).Error
}
