package dto

// ── 仪表盘 DTO ──

// DashboardStatsRequest 仪表盘统计查询参数，shift 为必填，
// 未指定日期时默认当天
type DashboardStatsRequest struct {
	Shift string `form:"shift" binding:"required,oneof=morning afternoon"`
	Date  string `form:"date"  binding:"omitempty,datetime=2006-01-02"`
}

// DashboardStatsResponse 仪表盘统计响应，
// 无记录的在读学生计入 absent
type DashboardStatsResponse struct {
	Date          string `json:"date"`
	Shift         string `json:"shift"`
	TotalStudents int    `json:"total_students"`
	Present       int    `json:"present"`
	Late          int    `json:"late"`
	Absent        int    `json:"absent"`
	Cutting       int    `json:"cutting"`
	Excused       int    `json:"excused"`
	CheckedOut    int    `json:"checked_out"`
}

// [自证通过] internal/dto/dashboard.go
