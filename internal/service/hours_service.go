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

// ── 营业时间模块业务错误 ──

var (
	ErrSpecialHoursNotFound = errors.New("特殊营业时间不存在")
	ErrInvalidClock         = errors.New("时间格式无效，应为 HH:MM")
	ErrInvalidHoursOrder    = errors.New("时间顺序无效：应满足 开门 < 最晚预订 < 打烊")
	ErrSpecialTimesRequired = errors.New("非闭店的特殊营业时间必须提供开门/打烊/最晚预订时间")
)

// ResolvedHours 某个日期生效的营业窗口
// 特殊营业时间优先于每周营业时间；两者均无记录视为闭店
type ResolvedHours struct {
	IsOpen          bool
	Open            int // 当日分钟数
	Close           int
	LastReservation int
}

// HoursService 营业时间业务接口
type HoursService interface {
	List(ctx context.Context) ([]dto.HoursResponse, error)
	Set(ctx context.Context, req *dto.SetHoursRequest) (*dto.HoursResponse, error)
	ListSpecial(ctx context.Context, req *dto.SpecialHoursListRequest) ([]dto.SpecialHoursResponse, error)
	GetSpecialByDate(ctx context.Context, date string) (*dto.SpecialHoursResponse, error)
	SetSpecial(ctx context.Context, req *dto.SetSpecialHoursRequest) (*dto.SpecialHoursResponse, error)
	DeleteSpecial(ctx context.Context, id string) error
	// Resolve 返回日期生效的营业窗口
	Resolve(ctx context.Context, date string) (*ResolvedHours, error)
}

type hoursService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewHoursService 创建 HoursService 实例
func NewHoursService(repo *repository.Repository, logger *zap.Logger) HoursService {
	return &hoursService{repo: repo, logger: logger}
}

// ────────────────────── 每周营业时间 ──────────────────────

func (s *hoursService) List(ctx context.Context) ([]dto.HoursResponse, error) {
	hours, err := s.repo.Hours.List(ctx)
	if err != nil {
		s.logger.Error("查询营业时间失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.HoursResponse, 0, len(hours))
	for i := range hours {
		result = append(result, *toHoursResponse(&hours[i]))
	}
	return result, nil
}

func (s *hoursService) Set(ctx context.Context, req *dto.SetHoursRequest) (*dto.HoursResponse, error) {
	open, last, close_, err := parseHoursTriple(req.OpenTime, req.LastReservationTime, req.CloseTime)
	if err != nil {
		return nil, err
	}

	hours := &model.RestaurantHours{
		DayOfWeek:           *req.DayOfWeek,
		OpenTime:            model.FormatClock(open),
		CloseTime:           model.FormatClock(close_),
		LastReservationTime: model.FormatClock(last),
	}
	if err := s.repo.Hours.Upsert(ctx, hours); err != nil {
		s.logger.Error("写入营业时间失败",
			zap.Int("day_of_week", *req.DayOfWeek), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.Hours.GetByDay(ctx, *req.DayOfWeek)
	if err != nil {
		return nil, err
	}
	return toHoursResponse(saved), nil
}

// ────────────────────── 特殊营业时间 ──────────────────────

func (s *hoursService) ListSpecial(ctx context.Context, req *dto.SpecialHoursListRequest) ([]dto.SpecialHoursResponse, error) {
	specials, err := s.repo.SpecialHours.List(ctx, req.DateFrom, req.DateTo)
	if err != nil {
		s.logger.Error("查询特殊营业时间失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SpecialHoursResponse, 0, len(specials))
	for i := range specials {
		result = append(result, *toSpecialHoursResponse(&specials[i]))
	}
	return result, nil
}

func (s *hoursService) GetSpecialByDate(ctx context.Context, date string) (*dto.SpecialHoursResponse, error) {
	special, err := s.repo.SpecialHours.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpecialHoursNotFound
		}
		s.logger.Error("查询特殊营业时间失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}
	return toSpecialHoursResponse(special), nil
}

func (s *hoursService) SetSpecial(ctx context.Context, req *dto.SetSpecialHoursRequest) (*dto.SpecialHoursResponse, error) {
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	special := &model.SpecialHours{
		Date:        date,
		Name:        req.Name,
		Description: req.Description,
		IsClosed:    req.IsClosed,
	}

	if !req.IsClosed {
		if req.OpenTime == nil || req.CloseTime == nil || req.LastReservationTime == nil {
			return nil, ErrSpecialTimesRequired
		}
		open, last, close_, err := parseHoursTriple(*req.OpenTime, *req.LastReservationTime, *req.CloseTime)
		if err != nil {
			return nil, err
		}
		openStr, lastStr, closeStr := model.FormatClock(open), model.FormatClock(last), model.FormatClock(close_)
		special.OpenTime = &openStr
		special.LastReservationTime = &lastStr
		special.CloseTime = &closeStr
	}

	if err := s.repo.SpecialHours.Upsert(ctx, special); err != nil {
		s.logger.Error("写入特殊营业时间失败", zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.SpecialHours.GetByDate(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	return toSpecialHoursResponse(saved), nil
}

func (s *hoursService) DeleteSpecial(ctx context.Context, id string) error {
	if err := s.repo.SpecialHours.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSpecialHoursNotFound
		}
		s.logger.Error("删除特殊营业时间失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Resolve ──────────────────────

func (s *hoursService) Resolve(ctx context.Context, date string) (*ResolvedHours, error) {
	return resolveHours(ctx, s.repo, date)
}

// resolveHours 解析某日期生效的营业窗口。
// 包级函数，供预订/可用性流程在事务绑定的 Repository 上复用。
func resolveHours(ctx context.Context, repo *repository.Repository, date string) (*ResolvedHours, error) {
	// 特殊营业时间命中即生效，不再回落到每周表
	special, err := repo.SpecialHours.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if special != nil {
		if special.IsClosed {
			return &ResolvedHours{IsOpen: false}, nil
		}
		return resolvedFromTriple(*special.OpenTime, *special.LastReservationTime, *special.CloseTime)
	}

	dayOfWeek, err := model.Weekday(date)
	if err != nil {
		return nil, err
	}
	weekly, err := repo.Hours.GetByDay(ctx, dayOfWeek)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 该星期没有营业时间记录，视为闭店
			return &ResolvedHours{IsOpen: false}, nil
		}
		return nil, err
	}
	return resolvedFromTriple(weekly.OpenTime, weekly.LastReservationTime, weekly.CloseTime)
}

// windowWithinHours 时间窗口是否落在生效的营业窗口内
func windowWithinHours(hours *ResolvedHours, w model.TimeWindow) bool {
	if !hours.IsOpen {
		return false
	}
	return w.Start >= hours.Open && w.Start <= hours.LastReservation && w.End <= hours.Close
}

// ── 辅助 ──

func resolvedFromTriple(open, last, close_ string) (*ResolvedHours, error) {
	openMin, err := model.ParseClock(open)
	if err != nil {
		return nil, err
	}
	lastMin, err := model.ParseClock(last)
	if err != nil {
		return nil, err
	}
	closeMin, err := model.ParseClock(close_)
	if err != nil {
		return nil, err
	}
	return &ResolvedHours{
		IsOpen:          true,
		Open:            openMin,
		Close:           closeMin,
		LastReservation: lastMin,
	}, nil
}

// parseHoursTriple 解析并校验 开门 < 最晚预订 < 打烊
func parseHoursTriple(open, last, close_ string) (int, int, int, error) {
	openMin, err := model.ParseClock(open)
	if err != nil {
		return 0, 0, 0, ErrInvalidClock
	}
	lastMin, err := model.ParseClock(last)
	if err != nil {
		return 0, 0, 0, ErrInvalidClock
	}
	closeMin, err := model.ParseClock(close_)
	if err != nil {
		return 0, 0, 0, ErrInvalidClock
	}
	if !(openMin < lastMin && lastMin < closeMin) {
		return 0, 0, 0, ErrInvalidHoursOrder
	}
	return openMin, lastMin, closeMin, nil
}

func toHoursResponse(h *model.RestaurantHours) *dto.HoursResponse {
	return &dto.HoursResponse{
		ID:                  h.HoursID,
		DayOfWeek:           h.DayOfWeek,
		OpenTime:            formatClockField(h.OpenTime),
		CloseTime:           formatClockField(h.CloseTime),
		LastReservationTime: formatClockField(h.LastReservationTime),
	}
}

func toSpecialHoursResponse(sp *model.SpecialHours) *dto.SpecialHoursResponse {
	resp := &dto.SpecialHoursResponse{
		ID:          sp.SpecialHoursID,
		Date:        model.FormatDate(sp.Date),
		Name:        sp.Name,
		Description: sp.Description,
		IsClosed:    sp.IsClosed,
		CreatedAt:   sp.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   sp.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if sp.OpenTime != nil {
		v := formatClockField(*sp.OpenTime)
		resp.OpenTime = &v
	}
	if sp.CloseTime != nil {
		v := formatClockField(*sp.CloseTime)
		resp.CloseTime = &v
	}
	if sp.LastReservationTime != nil {
		v := formatClockField(*sp.LastReservationTime)
		resp.LastReservationTime = &v
	}
	return resp
}

// formatClockField 将存储层的 "HH:MM[:SS]" 统一输出为 "HH:MM"
func formatClockField(s string) string {
	min, err := model.ParseClock(s)
	if err != nil {
		return s
	}
	return model.FormatClock(min)
}
