package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/0xniki/rezzy-backend/internal/model"
)

// TableFilter 桌位列表的类型化过滤条件，每个字段对应一个固定谓词
type TableFilter struct {
	MinCapacity *int    // min_capacity >= 该值
	MaxCapacity *int    // max_capacity >= 该值
	IsShared    *bool   // is_shared 精确匹配
	Location    *string // location 精确匹配
}

// TableRepository 桌位数据访问接口
type TableRepository interface {
	Create(ctx context.Context, table *model.Table) error
	GetByID(ctx context.Context, id string) (*model.Table, error)
	List(ctx context.Context, filter TableFilter) ([]model.Table, error)
	// ListFitting 返回容量区间覆盖 partySize 的候选桌位
	ListFitting(ctx context.Context, partySize int) ([]model.Table, error)
	// GetByIDsForUpdate 使用 SELECT ... FOR UPDATE 行级锁按 id 升序锁定桌位行，
	// 必须在事务绑定的 Repository 上调用（通过 Repository.Tx 注入）
	GetByIDsForUpdate(ctx context.Context, ids []string) ([]model.Table, error)
	Update(ctx context.Context, table *model.Table) error
	Delete(ctx context.Context, id string) error
	// HasAssignments 桌位是否仍被任何预订的分配记录引用
	HasAssignments(ctx context.Context, id string) (bool, error)
}

type tableRepo struct {
	db *gorm.DB
}

// NewTableRepo 创建 TableRepository 实例
func NewTableRepo(db *gorm.DB) TableRepository {
	return &tableRepo{db: db}
}

// Create 创建桌位并同步生成 max_capacity 把座椅
func (r *tableRepo) Create(ctx context.Context, table *model.Table) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Chairs").Create(table).Error; err != nil {
			return err
		}
		return syncChairs(tx, table.TableID, table.MaxCapacity)
	})
}

func (r *tableRepo) GetByID(ctx context.Context, id string) (*model.Table, error) {
	var table model.Table
	err := r.db.WithContext(ctx).
		Preload("Chairs").
		Where("id = ?", id).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) List(ctx context.Context, filter TableFilter) ([]model.Table, error) {
	var tables []model.Table
	db := r.db.WithContext(ctx)

	if filter.MinCapacity != nil {
		db = db.Where("min_capacity >= ?", *filter.MinCapacity)
	}
	if filter.MaxCapacity != nil {
		db = db.Where("max_capacity >= ?", *filter.MaxCapacity)
	}
	if filter.IsShared != nil {
		db = db.Where("is_shared = ?", *filter.IsShared)
	}
	if filter.Location != nil {
		db = db.Where("location = ?", *filter.Location)
	}

	err := db.Preload("Chairs").
		Order("table_number ASC").
		Find(&tables).Error
	return tables, err
}

func (r *tableRepo) ListFitting(ctx context.Context, partySize int) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Where("min_capacity <= ? AND max_capacity >= ?", partySize, partySize).
		Order("table_number ASC").
		Find(&tables).Error
	return tables, err
}

// GetByIDsForUpdate 锁定桌位行，按 id 升序加锁以避免并发预订互相死锁
func (r *tableRepo) GetByIDsForUpdate(ctx context.Context, ids []string) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&tables).Error
	return tables, err
}

// Update 覆盖桌位字段；max_capacity 变化时增删座椅，保留最早创建的座椅
func (r *tableRepo) Update(ctx context.Context, table *model.Table) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Table{}).
			Where("id = ?", table.TableID).
			Updates(map[string]interface{}{
				"table_number": table.TableNumber,
				"min_capacity": table.MinCapacity,
				"max_capacity": table.MaxCapacity,
				"is_shared":    table.IsShared,
				"location":     table.Location,
				"updated_at":   gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return syncChairs(tx, table.TableID, table.MaxCapacity)
	})
}

func (r *tableRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Table{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tableRepo) HasAssignments(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TableAssignment{}).
		Where("table_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// syncChairs 将桌位的座椅数调整为 target：不足则补齐，多余则删除最晚创建的
func syncChairs(tx *gorm.DB, tableID string, target int) error {
	var chairs []model.Chair
	if err := tx.Where("table_id = ?", tableID).
		Order("created_at ASC, id ASC").
		Find(&chairs).Error; err != nil {
		return err
	}

	current := len(chairs)
	switch {
	case current < target:
		add := make([]model.Chair, 0, target-current)
		for i := 0; i < target-current; i++ {
			add = append(add, model.Chair{TableID: tableID, IsAssigned: true})
		}
		return tx.Create(&add).Error
	case current > target:
		excess := make([]string, 0, current-target)
		for _, c := range chairs[target:] {
			excess = append(excess, c.ChairID)
		}
		return tx.Where("id IN ?", excess).Delete(&model.Chair{}).Error
	}
	return nil
}
