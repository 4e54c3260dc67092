package dto

import "time"

// ── 截止期限模块 DTO ──

// DeadlineResponse 派生截止期限响应（不落库）
type DeadlineResponse struct {
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
	Message    string    `json:"message"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	Completed  bool      `json:"completed"`
}
