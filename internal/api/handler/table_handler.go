package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/service"
	"github.com/0xniki/rezzy-backend/pkg/response"
)

// TableHandler 桌位模块 HTTP 处理器
type TableHandler struct {
	tableSvc service.TableService
}

// NewTableHandler 创建 TableHandler
func NewTableHandler(tableSvc service.TableService) *TableHandler {
	return &TableHandler{tableSvc: tableSvc}
}

// Create 创建桌位
// POST /api/v1/tables
func (h *TableHandler) Create(c *gin.Context) {
	var req dto.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	table, err := h.tableSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.Created(c, table)
}

// Get 获取桌位详情
// GET /api/v1/tables/:id
func (h *TableHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "桌位ID不能为空")
		return
	}

	table, err := h.tableSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, table)
}

// List 获取桌位列表
// GET /api/v1/tables
func (h *TableHandler) List(c *gin.Context) {
	var req dto.TableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	tables, err := h.tableSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, gin.H{"list": tables})
}

// Update 更新桌位
// PUT /api/v1/tables/:id
func (h *TableHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "桌位ID不能为空")
		return
	}

	var req dto.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	table, err := h.tableSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, table)
}

// Delete 删除桌位
// DELETE /api/v1/tables/:id
func (h *TableHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "桌位ID不能为空")
		return
	}

	if err := h.tableSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

func (h *TableHandler) handleTableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTableNotFound):
		response.NotFound(c, 11101, "桌位不存在")
	case errors.Is(err, service.ErrTableNumberTaken):
		response.Conflict(c, 11102, "桌号已存在")
	case errors.Is(err, service.ErrInvalidCapacity):
		response.BadRequest(c, 11103, "最大容量不能小于最小容量")
	case errors.Is(err, service.ErrTableInUse):
		response.Conflict(c, 11104, "桌位仍被预订引用，无法删除")
	default:
		response.InternalError(c)
	}
}
