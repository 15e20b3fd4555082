package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/service"
	"github.com/0xniki/rezzy-backend/pkg/response"
)

// AvailabilityHandler 可用性模块 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// Check 查询桌位可用性
// POST /api/v1/availability
func (h *AvailabilityHandler) Check(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.Check(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTimeWindow):
			response.BadRequest(c, 13002, "查询时间窗口无效")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}
