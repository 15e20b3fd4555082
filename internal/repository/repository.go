package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Table        TableRepository
	Customer     CustomerRepository
	Reservation  ReservationRepository
	Hours        HoursRepository
	SpecialHours SpecialHoursRepository
	Tx           TxManager
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Table:        NewTableRepo(db),
		Customer:     NewCustomerRepo(db),
		Reservation:  NewReservationRepo(db),
		Hours:        NewHoursRepo(db),
		SpecialHours: NewSpecialHoursRepo(db),
		Tx:           &gormTxManager{db: db},
	}
}

// TxManager 显式工作单元：回调内的 txRepo 绑定同一事务连接，
// 回调返回错误即整体回滚，调用方不再自行管理连接归属
type TxManager interface {
	Transaction(ctx context.Context, fn func(txRepo *Repository) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func (m *gormTxManager) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
