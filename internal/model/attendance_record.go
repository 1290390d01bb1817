package model

import "time"

// Shift 每日两个独立考勤班次
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
)

// Shifts 清扫时按此顺序遍历两个班次
var Shifts = []Shift{ShiftMorning, ShiftAfternoon}

// Valid 是否为已知班次
func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftAfternoon
}

// Status 考勤状态封闭枚举；只做全等比较，禁止子串匹配
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusCutting Status = "CUTTING"
	StatusExcused Status = "EXCUSED"
)

// Valid 是否为五个已知状态之一
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusCutting, StatusExcused:
		return true
	}
	return false
}

// Sticky CUTTING/EXCUSED 为粘滞状态：清扫不得覆盖，保护教师显式裁定
func (s Status) Sticky() bool {
	return s == StatusCutting || s == StatusExcused
}

// RecordType 记录来源标记（非权威状态，仅溯源用）
type RecordType string

const (
	RecordCheckIn  RecordType = "check_in"
	RecordCheckOut RecordType = "check_out"
	RecordAbsent   RecordType = "absent"
	RecordManual   RecordType = "manual"
	// RecordCompleted 不落库；扫码接口对已完成记录的应答用
	RecordCompleted RecordType = "completed"
)

// AttendanceRecord 考勤记录表 — 对应 attendance_records
// 每 (学生, 日期, 班次) 至多一条，由唯一约束 uniq_attendance_day_shift 保证
type AttendanceRecord struct {
	AttendanceRecordID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                json:"attendance_record_id"`
	StudentID          string     `gorm:"type:uuid;not null;uniqueIndex:uniq_attendance_day_shift"      json:"student_id"`
	Date               string     `gorm:"type:varchar(10);not null;uniqueIndex:uniq_attendance_day_shift" json:"date"` // YYYY-MM-DD
	Shift              Shift      `gorm:"type:varchar(10);not null;uniqueIndex:uniq_attendance_day_shift" json:"shift"`
	AttendanceStatus   Status     `gorm:"type:varchar(10);not null"                                     json:"attendance_status"`
	RecordType         RecordType `gorm:"type:varchar(10);not null"                                     json:"record_type"`
	CheckInTime        *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime       *time.Time `json:"check_out_time,omitempty"`
	BaseModel

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// Completed 当日该班次已签到且已签退
func (r *AttendanceRecord) Completed() bool {
	return r.CheckInTime != nil && r.CheckOutTime != nil
}

// [自证通过] internal/model/attendance_record.go
