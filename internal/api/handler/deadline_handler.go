package handler

import (
	"github.com/gin-gonic/gin"

	"corsihub/internal/service"
	"corsihub/pkg/response"
)

// DeadlineHandler 截止期限模块 HTTP 处理器
type DeadlineHandler struct {
	deadlineSvc service.DeadlineService
}

// NewDeadlineHandler 创建 DeadlineHandler
func NewDeadlineHandler(deadlineSvc service.DeadlineService) *DeadlineHandler {
	return &DeadlineHandler{deadlineSvc: deadlineSvc}
}

// ListUpcoming 获取当前用户全部待办截止期限（按日期升序）
// GET /api/v1/deadlines
func (h *DeadlineHandler) ListUpcoming(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deadlines, err := h.deadlineSvc.ListUpcoming(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": deadlines})
}
