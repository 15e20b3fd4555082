package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/0xniki/rezzy-backend/config"
	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/model"
	"github.com/0xniki/rezzy-backend/internal/repository"
)

// ── 预订模块业务错误 ──

var (
	ErrReservationNotFound    = errors.New("预订不存在")
	ErrReservationTableAbsent = errors.New("部分桌位不存在")
	ErrTableUnavailable       = errors.New("所选桌位在该时间段已被占用")
	ErrOutsideOperatingHours  = errors.New("预订时间不在营业时间范围内")
	ErrContactRequired        = errors.New("大型订位必须提供邮箱或电话")
	ErrNoFieldsToUpdate       = errors.New("请求中没有可更新的字段")
)

// ReservationService 预订业务接口
type ReservationService interface {
	Create(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ReservationResponse, error)
	List(ctx context.Context, req *dto.ReservationListRequest) ([]dto.ReservationResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error)
	UpdateStatus(ctx context.Context, id, status string) (*dto.ReservationResponse, error)
	Delete(ctx context.Context, id string) error
}

type reservationService struct {
	cfg    *config.BookingConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
func NewReservationService(cfg *config.BookingConfig, repo *repository.Repository, logger *zap.Logger) ReservationService {
	return &reservationService{cfg: cfg, repo: repo, logger: logger}
}

// Create 创建预订。
// 营业时间校验在事务外完成；桌位锁定、可用性复核、顾客去重与
// 预订写入在同一事务内完成，并发请求争抢同一桌位时后到者失败。
func (s *reservationService) Create(ctx context.Context, req *dto.CreateReservationRequest) (*dto.ReservationResponse, error) {
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = s.cfg.DefaultDurationMinutes
	}

	reservationDate, err := model.ParseDate(req.ReservationDate)
	if err != nil {
		return nil, ErrInvalidTimeWindow
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
		return nil, ErrOutsideOperatingHours
	}

	email, phone, err := s.resolveContact(&req.Customer, req.PartySize)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusPending
	}

	tableIDs := dedupeIDs(req.TableIDs)

	var reservationID string
	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		// 按 id 升序加行锁，固定加锁顺序避免并发事务互相死锁
		locked, err := tx.Table.GetByIDsForUpdate(ctx, tableIDs)
		if err != nil {
			return err
		}
		if len(locked) != len(tableIDs) {
			return ErrReservationTableAbsent
		}

		// 持锁后复核可用性，窗口期内其他事务的写入已被阻塞
		available, err := findAvailableTables(ctx, tx, availabilityQuery{
			partySize: req.PartySize,
			window:    window,
		})
		if err != nil {
			return err
		}
		if !containsAll(available, tableIDs) {
			return ErrTableUnavailable
		}

		customer, err := s.resolveCustomer(ctx, tx, &req.Customer, email, phone)
		if err != nil {
			return err
		}

		reservation := &model.Reservation{
			CustomerID:      customer.CustomerID,
			PartySize:       req.PartySize,
			ReservationDate: reservationDate,
			StartTime:       model.FormatClock(window.Start),
			DurationMinutes: duration,
			Notes:           req.Notes,
			Status:          status,
		}
		if err := tx.Reservation.Create(ctx, reservation, tableIDs); err != nil {
			return err
		}
		reservationID = reservation.ReservationID
		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		s.logger.Error("创建预订失败",
			zap.String("date", req.ReservationDate),
			zap.Strings("table_ids", tableIDs),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("预订创建成功",
		zap.String("reservation_id", reservationID),
		zap.String("date", req.ReservationDate),
		zap.Int("party_size", req.PartySize))

	return s.GetByID(ctx, reservationID)
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	reservation, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("查询预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toReservationResponse(reservation), nil
}

func (s *reservationService) List(ctx context.Context, req *dto.ReservationListRequest) ([]dto.ReservationResponse, int64, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	filter := repository.ReservationFilter{
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		TableID:    req.TableID,
		Status:     req.Status,
		CustomerID: req.CustomerID,
		Limit:      limit,
		Offset:     req.Offset,
	}

	reservations, total, err := s.repo.Reservation.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询预订列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		result = append(result, *toReservationResponse(&reservations[i]))
	}
	return result, total, nil
}

// Update 部分更新预订。
// 时间或桌位发生变化时走与创建相同的锁定-复核事务；
// 可用性计算排除本预订自身占用，改期到重叠时段不会被自己挡住。
func (s *reservationService) Update(ctx context.Context, id string, req *dto.UpdateReservationRequest) (*dto.ReservationResponse, error) {
	if req.PartySize == nil && req.ReservationDate == nil && req.StartTime == nil &&
		req.DurationMinutes == nil && req.Notes == nil && req.Status == nil && req.TableIDs == nil {
		return nil, ErrNoFieldsToUpdate
	}

	current, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	// 合并后的生效值
	updated := *current
	updated.Tables = nil
	updated.Customer = nil
	if req.PartySize != nil {
		updated.PartySize = *req.PartySize
	}
	if req.ReservationDate != nil {
		d, err := model.ParseDate(*req.ReservationDate)
		if err != nil {
			return nil, ErrInvalidTimeWindow
		}
		updated.ReservationDate = d
	}
	if req.StartTime != nil {
		updated.StartTime = *req.StartTime
	}
	if req.DurationMinutes != nil {
		updated.DurationMinutes = *req.DurationMinutes
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}

	window, err := updated.Window()
	if err != nil {
		return nil, ErrInvalidTimeWindow
	}
	updated.StartTime = model.FormatClock(window.Start)

	timeChange := req.ReservationDate != nil || req.StartTime != nil || req.DurationMinutes != nil
	tablesChange := req.TableIDs != nil

	targetTables := make([]string, 0, len(current.Tables))
	if tablesChange {
		targetTables = dedupeIDs(*req.TableIDs)
	} else {
		for i := range current.Tables {
			targetTables = append(targetTables, current.Tables[i].TableID)
		}
	}

	if timeChange {
		hours, err := resolveHours(ctx, s.repo, model.FormatDate(updated.ReservationDate))
		if err != nil {
			return nil, err
		}
		if !windowWithinHours(hours, window) {
			return nil, ErrOutsideOperatingHours
		}
	}

	if timeChange || tablesChange {
		// 时间或桌位变化都必须证明目标桌位在新窗口可用，
		// 仅改时间同样会把当前桌位带入另一个时段
		err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
			locked, err := tx.Table.GetByIDsForUpdate(ctx, targetTables)
			if err != nil {
				return err
			}
			if len(locked) != len(targetTables) {
				return ErrReservationTableAbsent
			}

			available, err := findAvailableTables(ctx, tx, availabilityQuery{
				partySize:            updated.PartySize,
				window:               window,
				excludeReservationID: id,
			})
			if err != nil {
				return err
			}
			if !containsAll(available, targetTables) {
				return ErrTableUnavailable
			}

			if err := tx.Reservation.Update(ctx, &updated); err != nil {
				return err
			}
			if tablesChange {
				return tx.Reservation.ReplaceAssignments(ctx, id, targetTables)
			}
			return nil
		})
	} else {
		err = s.repo.Reservation.Update(ctx, &updated)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		if isBusinessError(err) {
			return nil, err
		}
		s.logger.Error("更新预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("预订更新成功", zap.String("reservation_id", id),
		zap.Bool("time_change", timeChange), zap.Bool("tables_change", tablesChange))

	return s.GetByID(ctx, id)
}

// UpdateStatus 状态流转的窄路径，跳过时间与容量校验
func (s *reservationService) UpdateStatus(ctx context.Context, id, status string) (*dto.ReservationResponse, error) {
	if !model.IsValidStatus(status) {
		return nil, fmt.Errorf("无效的预订状态: %s", status)
	}
	if err := s.repo.Reservation.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("更新预订状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Reservation.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("删除预订失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("预订已删除", zap.String("reservation_id", id))
	return nil
}

// ────────────────────── 顾客与联系方式 ──────────────────────

// resolveContact 归一化联系方式并执行占位策略：
// 小型散客（人数低于阈值）允许不留联系方式，由姓名派生占位邮箱；
// 达到阈值的订位必须提供真实邮箱或电话。
func (s *reservationService) resolveContact(payload *dto.CustomerPayload, partySize int) (*string, *string, error) {
	email := normalizeContact(payload.Email)
	phone := normalizeContact(payload.Phone)

	if email == nil && phone == nil {
		if partySize >= s.cfg.LargePartyThreshold {
			return nil, nil, ErrContactRequired
		}
		placeholder := s.placeholderEmail(payload.Name)
		email = &placeholder
	}
	return email, phone, nil
}

// placeholderEmail 由姓名派生确定性的占位邮箱，同名散客会被合并为同一顾客记录
func (s *reservationService) placeholderEmail(name string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(name))))
	return fmt.Sprintf("guest-%x@%s", sum[:4], s.cfg.PlaceholderDomain)
}

// resolveCustomer 按邮箱、电话的顺序复用已有顾客，否则创建新记录
func (s *reservationService) resolveCustomer(ctx context.Context, tx *repository.Repository, payload *dto.CustomerPayload, email, phone *string) (*model.Customer, error) {
	if email != nil {
		customer, err := tx.Customer.GetByEmail(ctx, *email)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if phone != nil {
		customer, err := tx.Customer.GetByPhone(ctx, *phone)
		if err == nil {
			return customer, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	customer := &model.Customer{
		Name:  strings.TrimSpace(payload.Name),
		Email: email,
		Phone: phone,
		Notes: payload.Notes,
	}
	if err := tx.Customer.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ── 辅助 ──

func normalizeContact(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// dedupeIDs 去重并保持首次出现顺序
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// containsAll 请求的每张桌位都必须出现在可用列表中
func containsAll(available []dto.AvailableTable, tableIDs []string) bool {
	set := make(map[string]struct{}, len(available))
	for i := range available {
		set[available[i].ID] = struct{}{}
	}
	for _, id := range tableIDs {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// isBusinessError 事务回调中返回的业务错误不再重复打错误日志
func isBusinessError(err error) bool {
	return errors.Is(err, ErrTableUnavailable) ||
		errors.Is(err, ErrReservationTableAbsent) ||
		errors.Is(err, ErrContactRequired)
}

func toReservationResponse(r *model.Reservation) *dto.ReservationResponse {
	resp := &dto.ReservationResponse{
		ID:              r.ReservationID,
		PartySize:       r.PartySize,
		ReservationDate: model.FormatDate(r.ReservationDate),
		StartTime:       formatClockField(r.StartTime),
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Tables:          make([]dto.TableBrief, 0, len(r.Tables)),
	}
	if w, err := r.Window(); err == nil {
		resp.EndTime = model.FormatClock(w.End)
	}
	if r.Customer != nil {
		resp.Customer = dto.CustomerBrief{
			ID:    r.Customer.CustomerID,
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		}
	}
	for i := range r.Tables {
		resp.Tables = append(resp.Tables, toTableBrief(&r.Tables[i]))
	}
	return resp
}
