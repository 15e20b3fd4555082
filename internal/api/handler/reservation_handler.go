package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/service"
	pkgerrors "github.com/0xniki/rezzy-backend/pkg/errors"
	"github.com/0xniki/rezzy-backend/pkg/response"
)

// ReservationHandler 预订模块 HTTP 处理器
type ReservationHandler struct {
	reservationSvc service.ReservationService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// Create 创建预订
// POST /api/v1/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	reservation, err := h.reservationSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.Created(c, reservation)
}

// Get 获取预订详情
// GET /api/v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "预订ID不能为空")
		return
	}

	reservation, err := h.reservationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// List 获取预订列表
// GET /api/v1/reservations
func (h *ReservationHandler) List(c *gin.Context) {
	var req dto.ReservationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	if req.Limit <= 0 {
		req.Limit = 50
	}
	reservations, total, err := h.reservationSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OKPage(c, reservations, total, req.Limit, req.Offset)
}

// Update 更新预订（部分更新）
// PUT /api/v1/reservations/:id
func (h *ReservationHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "预订ID不能为空")
		return
	}

	var req dto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	reservation, err := h.reservationSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// UpdateStatus 变更预订状态
// PATCH /api/v1/reservations/:id/status
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "预订ID不能为空")
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	reservation, err := h.reservationSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// Delete 删除预订
// DELETE /api/v1/reservations/:id
func (h *ReservationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 12001, "预订ID不能为空")
		return
	}

	if err := h.reservationSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

func (h *ReservationHandler) handleReservationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, 12101, "预订不存在")
	case errors.Is(err, service.ErrReservationTableAbsent):
		response.NotFound(c, 12102, "部分桌位不存在")
	case errors.Is(err, service.ErrTableUnavailable):
		response.Conflict(c, 12103, "所选桌位在该时间段已被占用")
	case errors.Is(err, service.ErrOutsideOperatingHours):
		response.BadRequest(c, 12104, "预订时间不在营业时间范围内")
	case errors.Is(err, service.ErrContactRequired):
		response.BadRequest(c, 12105, "大型订位必须提供邮箱或电话")
	case errors.Is(err, service.ErrInvalidTimeWindow):
		response.BadRequest(c, 12106, "预订时间窗口无效")
	case errors.Is(err, service.ErrNoFieldsToUpdate):
		response.BadRequest(c, 12107, "请求中没有可更新的字段")
	case errors.Is(err, pkgerrors.ErrConflict):
		response.Conflict(c, 12108, "并发冲突，请重试")
	default:
		response.InternalError(c)
	}
}
