package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/model"
	"github.com/0xniki/rezzy-backend/internal/repository"
)

// ── 桌位模块业务错误 ──

var (
	ErrTableNotFound    = errors.New("桌位不存在")
	ErrTableNumberTaken = errors.New("桌号已存在")
	ErrInvalidCapacity  = errors.New("最大容量不能小于最小容量")
	ErrTableInUse       = errors.New("桌位仍被预订引用，无法删除")
)

// TableService 桌位业务接口
type TableService interface {
	Create(ctx context.Context, req *dto.CreateTableRequest) (*dto.TableResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TableResponse, error)
	List(ctx context.Context, req *dto.TableListRequest) ([]dto.TableResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTableRequest) (*dto.TableResponse, error)
	Delete(ctx context.Context, id string) error
}

type tableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTableService 创建 TableService 实例
func NewTableService(repo *repository.Repository, logger *zap.Logger) TableService {
	return &tableService{repo: repo, logger: logger}
}

func (s *tableService) Create(ctx context.Context, req *dto.CreateTableRequest) (*dto.TableResponse, error) {
	if req.MaxCapacity < req.MinCapacity {
		return nil, ErrInvalidCapacity
	}

	table := &model.Table{
		TableNumber: req.TableNumber,
		MinCapacity: req.MinCapacity,
		MaxCapacity: req.MaxCapacity,
		IsShared:    req.IsShared,
		Location:    req.Location,
	}
	if err := s.repo.Table.Create(ctx, table); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTableNumberTaken
		}
		s.logger.Error("创建桌位失败", zap.String("table_number", req.TableNumber), zap.Error(err))
		return nil, err
	}

	s.logger.Info("桌位创建成功",
		zap.String("table_id", table.TableID),
		zap.String("table_number", table.TableNumber),
		zap.Int("max_capacity", table.MaxCapacity))

	return s.GetByID(ctx, table.TableID)
}

func (s *tableService) GetByID(ctx context.Context, id string) (*dto.TableResponse, error) {
	table, err := s.repo.Table.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		s.logger.Error("查询桌位失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTableResponse(table), nil
}

func (s *tableService) List(ctx context.Context, req *dto.TableListRequest) ([]dto.TableResponse, error) {
	filter := repository.TableFilter{
		MinCapacity: req.MinCapacity,
		MaxCapacity: req.MaxCapacity,
		IsShared:    req.IsShared,
		Location:    req.Location,
	}
	tables, err := s.repo.Table.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询桌位列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		result = append(result, *toTableResponse(&tables[i]))
	}
	return result, nil
}

// Update 整体覆盖桌位属性；容量变化会同步椅子数量（缩容保留最早创建的椅子）
func (s *tableService) Update(ctx context.Context, id string, req *dto.UpdateTableRequest) (*dto.TableResponse, error) {
	if req.MaxCapacity < req.MinCapacity {
		return nil, ErrInvalidCapacity
	}

	table := &model.Table{
		TableID:     id,
		TableNumber: req.TableNumber,
		MinCapacity: req.MinCapacity,
		MaxCapacity: req.MaxCapacity,
		IsShared:    req.IsShared,
		Location:    req.Location,
	}
	if err := s.repo.Table.Update(ctx, table); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTableNumberTaken
		}
		s.logger.Error("更新桌位失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete 删除桌位；存在任何分配记录（含历史预订）时拒绝删除
func (s *tableService) Delete(ctx context.Context, id string) error {
	inUse, err := s.repo.Table.HasAssignments(ctx, id)
	if err != nil {
		s.logger.Error("检查桌位引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if inUse {
		return ErrTableInUse
	}

	if err := s.repo.Table.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTableNotFound
		}
		s.logger.Error("删除桌位失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("桌位已删除", zap.String("table_id", id))
	return nil
}

func toTableResponse(t *model.Table) *dto.TableResponse {
	return &dto.TableResponse{
		ID:          t.TableID,
		TableNumber: t.TableNumber,
		MinCapacity: t.MinCapacity,
		MaxCapacity: t.MaxCapacity,
		IsShared:    t.IsShared,
		Location:    t.Location,
		ChairCount:  len(t.Chairs),
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
