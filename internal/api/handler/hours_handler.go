package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/service"
	"github.com/0xniki/rezzy-backend/pkg/response"
)

// HoursHandler 营业时间模块 HTTP 处理器
type HoursHandler struct {
	hoursSvc service.HoursService
}

// NewHoursHandler 创建 HoursHandler
func NewHoursHandler(hoursSvc service.HoursService) *HoursHandler {
	return &HoursHandler{hoursSvc: hoursSvc}
}

// List 获取每周营业时间
// GET /api/v1/hours
func (h *HoursHandler) List(c *gin.Context) {
	hours, err := h.hoursSvc.List(c.Request.Context())
	if err != nil {
		h.handleHoursError(c, err)
		return
	}

	response.OK(c, gin.H{"list": hours})
}

// Set 设置某个星期的营业时间
// PUT /api/v1/hours
func (h *HoursHandler) Set(c *gin.Context) {
	var req dto.SetHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	hours, err := h.hoursSvc.Set(c.Request.Context(), &req)
	if err != nil {
		h.handleHoursError(c, err)
		return
	}

	response.OK(c, hours)
}

// ListSpecial 获取特殊营业时间列表
// GET /api/v1/special-hours
func (h *HoursHandler) ListSpecial(c *gin.Context) {
	var req dto.SpecialHoursListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	specials, err := h.hoursSvc.ListSpecial(c.Request.Context(), &req)
	if err != nil {
		h.handleHoursError(c, err)
		return
	}

	response.OK(c, gin.H{"list": specials})
}

// GetSpecial 获取某日期的特殊营业时间
// GET /api/v1/special-hours/:date
func (h *HoursHandler) GetSpecial(c *gin.Context) {
	date := c.Param("date")
	if date == "" {
		response.BadRequest(c, 14001, "日期不能为空")
		return
	}

	special, err := h.hoursSvc.GetSpecialByDate(c.Request.Context(), date)
	if err != nil {
		h.handleHoursError(c, err)
		return
	}

	response.OK(c, special)
}

// SetSpecial 设置特殊营业时间
// PUT /api/v1/special-hours
func (h *HoursHandler) SetSpecial(c *gin.Context) {
	var req dto.SetSpecialHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	special, err := h.hoursSvc.SetSpecial(c.Request.Context(), &req)
	if err != nil {
		h.handleHoursError(c, err)
		return
	}

	response.OK(c, special)
}

// DeleteSpecial 删除特殊营业时间
// DELETE /api/v1/special-hours/:id
func (h *HoursHandler) DeleteSpecial(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "特殊营业时间ID不能为空")
		return
	}

	if err := h.hoursSvc.DeleteSpecial(c.Request.Context(), id); err != nil {
		h.handleHoursError(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

func (h *HoursHandler) handleHoursError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSpecialHoursNotFound):
		response.NotFound(c, 14101, "特殊营业时间不存在")
	case errors.Is(err, service.ErrInvalidClock):
		response.BadRequest(c, 14102, "时间格式无效，应为 HH:MM")
	case errors.Is(err, service.ErrInvalidHoursOrder):
		response.BadRequest(c, 14103, "时间顺序无效：应满足 开门 < 最晚预订 < 打烊")
	case errors.Is(err, service.ErrSpecialTimesRequired):
		response.BadRequest(c, 14104, "非闭店的特殊营业时间必须提供开门/打烊/最晚预订时间")
	default:
		response.InternalError(c)
	}
}
