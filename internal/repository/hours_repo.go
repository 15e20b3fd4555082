package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/0xniki/rezzy-backend/internal/model"
)

// HoursRepository 每周营业时间数据访问接口
type HoursRepository interface {
	List(ctx context.Context) ([]model.RestaurantHours, error)
	GetByDay(ctx context.Context, dayOfWeek int) (*model.RestaurantHours, error)
	// Upsert 按 day_of_week 幂等写入
	Upsert(ctx context.Context, hours *model.RestaurantHours) error
}

type hoursRepo struct {
	db *gorm.DB
}

// NewHoursRepo 创建 HoursRepository 实例
func NewHoursRepo(db *gorm.DB) HoursRepository {
	return &hoursRepo{db: db}
}

func (r *hoursRepo) List(ctx context.Context) ([]model.RestaurantHours, error) {
	var hours []model.RestaurantHours
	err := r.db.WithContext(ctx).
		Order("day_of_week ASC").
		Find(&hours).Error
	return hours, err
}

func (r *hoursRepo) GetByDay(ctx context.Context, dayOfWeek int) (*model.RestaurantHours, error) {
	var hours model.RestaurantHours
	err := r.db.WithContext(ctx).
		Where("day_of_week = ?", dayOfWeek).
		First(&hours).Error
	if err != nil {
		return nil, err
	}
	return &hours, nil
}

func (r *hoursRepo) Upsert(ctx context.Context, hours *model.RestaurantHours) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"open_time", "close_time", "last_reservation_time",
			}),
		}).
		Create(hours).Error
}

// ── SpecialHours Repository ──

// SpecialHoursRepository 特殊营业时间数据访问接口
type SpecialHoursRepository interface {
	List(ctx context.Context, dateFrom, dateTo *string) ([]model.SpecialHours, error)
	GetByDate(ctx context.Context, date string) (*model.SpecialHours, error)
	// Upsert 按日期幂等写入
	Upsert(ctx context.Context, special *model.SpecialHours) error
	Delete(ctx context.Context, id string) error
}

type specialHoursRepo struct {
	db *gorm.DB
}

// NewSpecialHoursRepo 创建 SpecialHoursRepository 实例
func NewSpecialHoursRepo(db *gorm.DB) SpecialHoursRepository {
	return &specialHoursRepo{db: db}
}

func (r *specialHoursRepo) List(ctx context.Context, dateFrom, dateTo *string) ([]model.SpecialHours, error) {
	var specials []model.SpecialHours
	db := r.db.WithContext(ctx)

	if dateFrom != nil {
		db = db.Where("date >= ?", *dateFrom)
	}
	if dateTo != nil {
		db = db.Where("date <= ?", *dateTo)
	}

	err := db.Order("date ASC").Find(&specials).Error
	return specials, err
}

func (r *specialHoursRepo) GetByDate(ctx context.Context, date string) (*model.SpecialHours, error) {
	var special model.SpecialHours
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		First(&special).Error
	if err != nil {
		return nil, err
	}
	return &special, nil
}

func (r *specialHoursRepo) Upsert(ctx context.Context, special *model.SpecialHours) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "is_closed",
				"open_time", "close_time", "last_reservation_time", "updated_at",
			}),
		}).
		Create(special).Error
}

func (r *specialHoursRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SpecialHours{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
