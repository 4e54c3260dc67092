package model

import "time"

// ── 事件状态 ──

const (
	EventStatusInPreparation = "in_preparation"
	EventStatusCompleted     = "completed"
	EventStatusArchived      = "archived"
)

// ValidEventStatus 检查状态是否合法
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusInPreparation, EventStatusCompleted, EventStatusArchived:
		return true
	}
	return false
}

// ── 流程任务标签（固定词汇表） ──

const (
	TaskTeacherRequestDone = "teacher_request_done"
	TaskStudentRequestDone = "student_request_done"
	TaskKickoffDone        = "kickoff_done"
	TaskRegistersDone      = "registers_done"
	TaskFeedbackDone       = "feedback_done"
	TaskReportDone         = "report_done"
)

// TaskVocabulary 全部合法任务标签，按流程先后排序
var TaskVocabulary = []string{
	TaskTeacherRequestDone,
	TaskStudentRequestDone,
	TaskKickoffDone,
	TaskRegistersDone,
	TaskFeedbackDone,
	TaskReportDone,
}

// ValidTaskTag 检查任务标签是否属于固定词汇表
func ValidTaskTag(tag string) bool {
	for _, t := range TaskVocabulary {
		if t == tag {
			return true
		}
	}
	return false
}

// Event 培训课程事件表 — 对应 events
type Event struct {
	EventID        string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Title          string      `gorm:"type:varchar(200);not null"                     json:"title"`
	Description    string      `gorm:"type:text"                                      json:"description,omitempty"`
	StartDate      *time.Time  `json:"start_date,omitempty"`
	EndDate        *time.Time  `json:"end_date,omitempty"`
	Location       string      `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Teachers       StringArray `gorm:"type:text[];not null;default:'{}'"              json:"teachers"`
	Students       StringArray `gorm:"type:text[];not null;default:'{}'"              json:"students"`
	Status         string      `gorm:"type:varchar(20);not null;default:'in_preparation'" json:"status"`
	CompletedTasks StringArray `gorm:"type:text[];not null;default:'{}'"              json:"completed_tasks"`
	UserID         string      `gorm:"type:uuid;not null"                             json:"user_id"`
	BaseModel
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// [自证通过] internal/model/event.go
