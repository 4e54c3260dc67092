package dto

// ── 通知模块 DTO ──

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	IsRead    bool    `json:"is_read"`
	EventID   *string `json:"event_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}
