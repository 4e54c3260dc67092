package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"corsihub/internal/dto"
	"corsihub/internal/service"
	"corsihub/pkg/response"
)

// EventHandler 事件模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// ListEvents 获取当前用户的事件列表
// GET /api/v1/events?status=archived
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	events, err := h.eventSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// GetEvent 获取事件详情
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent 创建事件
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent 更新事件
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// UpdateEventStatus 更新事件状态（完成/归档）
// PUT /api/v1/events/:id/status
func (h *EventHandler) UpdateEventStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// MarkTask 标记流程任务完成
// PUT /api/v1/events/:id/tasks
func (h *EventHandler) MarkTask(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MarkTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.MarkTask(c.Request.Context(), userID, c.Param("id"), req.Task)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 删除事件
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 12001, "事件不存在")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 12002, "非法的事件状态")
	case errors.Is(err, service.ErrInvalidTaskTag):
		response.BadRequest(c, 12003, "非法的任务标签")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/event_handler.go
