package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/0xniki/rezzy-backend/internal/model"
	pkgerrors "github.com/0xniki/rezzy-backend/pkg/errors"
)

// ReservationFilter 预订列表的类型化过滤条件，每个字段对应一个固定谓词
type ReservationFilter struct {
	DateFrom   *string // reservation_date >= 该值
	DateTo     *string // reservation_date <= 该值
	TableID    *string // 分配了该桌位的预订
	Status     *string // status 精确匹配
	CustomerID *string // customer_id 精确匹配
	Limit      int
	Offset     int
}

// ReservationRepository 预订数据访问接口
type ReservationRepository interface {
	// Create 插入预订行及每张桌位一条分配记录
	Create(ctx context.Context, reservation *model.Reservation, tableIDs []string) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]model.Reservation, int64, error)
	// ListActiveByDate 返回某日期所有占用容量的预订（含桌位关联），
	// cancelled / no_show 状态被排除
	ListActiveByDate(ctx context.Context, date string) ([]model.Reservation, error)
	Update(ctx context.Context, reservation *model.Reservation) error
	UpdateStatus(ctx context.Context, id, status string) error
	// ReplaceAssignments 先删后插地重建预订的桌位分配
	ReplaceAssignments(ctx context.Context, reservationID string, tableIDs []string) error
	Delete(ctx context.Context, id string) error
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(ctx context.Context, reservation *model.Reservation, tableIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(reservation).Error; err != nil {
			return err
		}
		assignments := make([]model.TableAssignment, 0, len(tableIDs))
		for _, tableID := range tableIDs {
			assignments = append(assignments, model.TableAssignment{
				ReservationID: reservation.ReservationID,
				TableID:       tableID,
			})
		}
		if err := tx.Create(&assignments).Error; err != nil {
			// (reservation_id, table_id) 唯一约束是并发分配的最后防线
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Tables").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepo) List(ctx context.Context, filter ReservationFilter) ([]model.Reservation, int64, error) {
	var reservations []model.Reservation
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Reservation{})

	if filter.DateFrom != nil {
		db = db.Where("reservation_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		db = db.Where("reservation_date <= ?", *filter.DateTo)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.TableID != nil {
		db = db.Where("id IN (SELECT reservation_id FROM table_assignments WHERE table_id = ?)", *filter.TableID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Customer").
		Preload("Tables").
		Order("reservation_date ASC, start_time ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&reservations).Error
	return reservations, total, err
}

func (r *reservationRepo) ListActiveByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Tables").
		Where("reservation_date = ? AND status NOT IN ?",
			date, []string{model.StatusCancelled, model.StatusNoShow}).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) Update(ctx context.Context, reservation *model.Reservation) error {
	result := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", reservation.ReservationID).
		Updates(map[string]interface{}{
			"party_size":       reservation.PartySize,
			"reservation_date": reservation.ReservationDate,
			"start_time":       reservation.StartTime,
			"duration_minutes": reservation.DurationMinutes,
			"notes":            reservation.Notes,
			"status":           reservation.Status,
			"updated_at":       gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservationRepo) ReplaceAssignments(ctx context.Context, reservationID string, tableIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", reservationID).
			Delete(&model.TableAssignment{}).Error; err != nil {
			return err
		}
		if len(tableIDs) == 0 {
			return nil
		}
		assignments := make([]model.TableAssignment, 0, len(tableIDs))
		for _, tableID := range tableIDs {
			assignments = append(assignments, model.TableAssignment{
				ReservationID: reservationID,
				TableID:       tableID,
			})
		}
		if err := tx.Create(&assignments).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (r *reservationRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Reservation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
