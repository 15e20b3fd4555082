package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/0xniki/rezzy-backend/config"
	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/model"
	"github.com/0xniki/rezzy-backend/internal/repository"
)

var (
	// ErrInvalidTimeWindow 时间窗口非法（格式错误或跨越午夜）
	ErrInvalidTimeWindow = errors.New("预订时间窗口无效")
)

// AvailabilityService 桌位可用性查询接口
type AvailabilityService interface {
	Check(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
}

type availabilityService struct {
	cfg    *config.BookingConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(cfg *config.BookingConfig, repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{cfg: cfg, repo: repo, logger: logger}
}

func (s *availabilityService) Check(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = s.cfg.DefaultDurationMinutes
	}

	window, err := model.NewTimeWindow(req.ReservationDate, req.StartTime, duration)
	if err != nil {
		return nil, ErrInvalidTimeWindow
	}

	hours, err := resolveHours(ctx, s.repo, req.ReservationDate)
	if err != nil {
		s.logger.Error("解析营业时间失败", zap.String("date", req.ReservationDate), zap.Error(err))
		return nil, err
	}
	if !windowWithinHours(hours, window) {
		// 营业时间之外直接返回空列表，交由调用方提示
		return &dto.AvailabilityResponse{
			AvailableTables: []dto.AvailableTable{},
			IsValidTime:     false,
		}, nil
	}

	tables, err := findAvailableTables(ctx, s.repo, availabilityQuery{
		partySize: req.PartySize,
		window:    window,
	})
	if err != nil {
		s.logger.Error("查询可用桌位失败",
			zap.String("date", req.ReservationDate),
			zap.Int("party_size", req.PartySize),
			zap.Error(err))
		return nil, err
	}

	return &dto.AvailabilityResponse{
		AvailableTables: tables,
		IsValidTime:     true,
	}, nil
}

// availabilityQuery 可用性计算入参
// excludeReservationID 非空时忽略该预订自身的占用（改期场景下桌位对自己可用）
type availabilityQuery struct {
	partySize            int
	window               model.TimeWindow
	excludeReservationID string
}

// findAvailableTables 计算时间窗口内可容纳指定人数的桌位。
// 包级函数：预订创建/改期在事务绑定的 Repository 上调用同一套逻辑，
// 配合 FOR UPDATE 行锁保证结果在提交前不被并发预订推翻。
//
// 规则：
//   - 候选桌满足 min_capacity <= party_size <= max_capacity
//   - 独占桌：窗口内存在任何占用预订即不可用
//   - 共享桌：剩余容量 = max_capacity - 窗口内占用人数之和，足够才可用
//   - 已取消 / 未到店的预订不占用容量
func findAvailableTables(ctx context.Context, repo *repository.Repository, q availabilityQuery) ([]dto.AvailableTable, error) {
	candidates, err := repo.Table.ListFitting(ctx, q.partySize)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []dto.AvailableTable{}, nil
	}

	reservations, err := repo.Reservation.ListActiveByDate(ctx, q.window.Date)
	if err != nil {
		return nil, err
	}

	// 按桌累计窗口内重叠的占用人数
	occupied := make(map[string]int)
	for i := range reservations {
		res := &reservations[i]
		if q.excludeReservationID != "" && res.ReservationID == q.excludeReservationID {
			continue
		}
		w, err := res.Window()
		if err != nil {
			return nil, err
		}
		if !w.Overlaps(q.window) {
			continue
		}
		for j := range res.Tables {
			occupied[res.Tables[j].TableID] += res.PartySize
		}
	}

	available := make([]dto.AvailableTable, 0, len(candidates))
	for i := range candidates {
		t := &candidates[i]
		load := occupied[t.TableID]

		if t.IsShared {
			remaining := t.MaxCapacity - load
			if remaining >= q.partySize {
				r := remaining
				available = append(available, dto.AvailableTable{
					TableBrief:        toTableBrief(t),
					RemainingCapacity: &r,
				})
			}
			continue
		}

		if load == 0 {
			available = append(available, dto.AvailableTable{
				TableBrief: toTableBrief(t),
			})
		}
	}

	// 最贴合人数的桌位排前面，同贴合度按桌号
	sort.SliceStable(available, func(i, j int) bool {
		di := capacityGap(available[i].MinCapacity, q.partySize)
		dj := capacityGap(available[j].MinCapacity, q.partySize)
		if di != dj {
			return di < dj
		}
		return available[i].TableNumber < available[j].TableNumber
	})

	return available, nil
}

func capacityGap(minCapacity, partySize int) int {
	if minCapacity > partySize {
		return minCapacity - partySize
	}
	return partySize - minCapacity
}

func toTableBrief(t *model.Table) dto.TableBrief {
	return dto.TableBrief{
		ID:          t.TableID,
		TableNumber: t.TableNumber,
		MinCapacity: t.MinCapacity,
		MaxCapacity: t.MaxCapacity,
		IsShared:    t.IsShared,
		Location:    t.Location,
	}
}
