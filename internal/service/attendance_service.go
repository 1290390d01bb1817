package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrInvalidQRCode   = errors.New("二维码格式无效")
	ErrStudentNotFound = errors.New("学生不存在")
	ErrStudentInactive = errors.New("学生账号已停用")
	ErrStudentNotOwned = errors.New("该学生不属于当前教师")
	ErrInvalidStatus   = errors.New("考勤状态无效")
	ErrInvalidShift    = errors.New("班次无效")
	ErrRecordNotFound  = errors.New("考勤记录不存在")
)

const dateLayout = "2006-01-02"

// manilaLocation 业务时区（学校所在地）；加载失败退回本地时区
var (
	manilaOnce sync.Once
	manilaLoc  *time.Location
)

func manilaNow() time.Time {
	manilaOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Manila")
		if err != nil {
			loc = time.Local
		}
		manilaLoc = loc
	})
	return time.Now().In(manilaLoc)
}

// BusinessNow 业务时区的当前时间，供定时任务与手动触发入口使用
func BusinessNow() time.Time {
	return manilaNow()
}

// AttendanceService 考勤业务接口
//
// 设计说明：
//   - 每次操作开头取一份配置快照，整个判定过程只使用该快照
//   - 状态判定只做封闭枚举的全等比较
//   - 通知门控在判定侧完成，分发器只负责渲染与发送
type AttendanceService interface {
	// Scan 处理一次扫码：首扫签到、次扫签退、三扫起为已完成空操作
	Scan(ctx context.Context, teacherID string, req *dto.ScanRequest) (*dto.ScanResponse, error)
	// Override 教师手动改判指定学生某日某班次的状态；无记录时补建 manual 记录
	Override(ctx context.Context, teacherID, studentID string, req *dto.OverrideStatusRequest) (*dto.OverrideStatusResponse, error)
	// StudentStatus 查询学生某日某班次的状态；无记录按 ABSENT 呈现
	StudentStatus(ctx context.Context, teacherID, studentID, date string, shift model.Shift) (*dto.StudentStatusResponse, error)
	// List 分页查询考勤记录
	List(ctx context.Context, teacherID string, req *dto.AttendanceListRequest) ([]dto.AttendanceRecordResponse, int64, error)
}

type attendanceService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      manilaNow,
	}
}

// parseQRPayload 解析学生二维码载荷 STUDENT_{studentID}_{teacherID}
func parseQRPayload(payload string) (studentID, teacherID string, err error) {
	parts := strings.Split(strings.TrimSpace(payload), "_")
	if len(parts) != 3 || parts[0] != "STUDENT" || parts[1] == "" || parts[2] == "" {
		return "", "", ErrInvalidQRCode
	}
	return parts[1], parts[2], nil
}

func (s *attendanceService) Scan(ctx context.Context, teacherID string, req *dto.ScanRequest) (*dto.ScanResponse, error) {
	// 1. 解析二维码
	studentID, qrTeacherID, err := parseQRPayload(req.QRData)
	if err != nil {
		return nil, err
	}

	// 2. 查询学生并校验归属
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	if student.TeacherID != qrTeacherID {
		return nil, ErrInvalidQRCode
	}
	// teacherID 为空表示扫码终端直报（X-Scanner-Secret），不限定分区
	if teacherID != "" && student.TeacherID != teacherID {
		return nil, ErrStudentNotOwned
	}
	if !student.IsActive {
		return nil, ErrStudentInactive
	}

	// 3. 取配置快照并确定班次
	cfg, err := s.repo.ScheduleConfig.GetOrCreate(ctx)
	if err != nil {
		s.logger.Error("读取考勤配置失败", zap.Error(err))
		return nil, err
	}

	now := s.now()
	date := now.Format(dateLayout)
	shift := SelectShift(cfg, now)
	window := cfg.Window(shift)

	// 4. 按已有记录状态分流：无记录=签到，未签退=签退，其余=已完成
	existing, err := s.repo.Attendance.GetByStudentDateShift(ctx, studentID, date, shift)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, err
	}

	switch {
	case existing == nil:
		return s.checkIn(ctx, student, cfg, window, date, shift, now)
	case existing.CheckOutTime == nil:
		return s.checkOut(ctx, student, cfg, window, existing, now)
	default:
		return &dto.ScanResponse{
			StudentID:    student.StudentID,
			StudentName:  student.FullName,
			Date:         date,
			Shift:        string(shift),
			RecordType:   string(model.RecordCompleted),
			Status:       string(existing.AttendanceStatus),
			CheckInTime:  formatTimePtr(existing.CheckInTime),
			CheckOutTime: formatTimePtr(existing.CheckOutTime),
			Message:      fmt.Sprintf("%s has already completed attendance for today", student.FullName),
		}, nil
	}
}

func (s *attendanceService) checkIn(
	ctx context.Context,
	student *model.Student,
	cfg *model.ScheduleConfig,
	window model.ShiftWindow,
	date string,
	shift model.Shift,
	now time.Time,
) (*dto.ScanResponse, error) {
	status := statusForCheckIn(now, window.CheckInEnd)

	record := &model.AttendanceRecord{
		StudentID:        student.StudentID,
		Date:             date,
		Shift:            shift,
		AttendanceStatus: status,
		RecordType:       model.RecordCheckIn,
		CheckInTime:      &now,
	}
	if err := s.repo.Attendance.Create(ctx, record); err != nil {
		// 并发扫码撞唯一约束时交由调用方重试
		return nil, err
	}

	if cfg.EmailNotificationsEnabled && cfg.NotifyEnabled(status) &&
		student.GuardianEmail != "" && student.NotifyOnCheckin {
		s.notifier.Enqueue(Notification{
			GuardianEmail: student.GuardianEmail,
			GuardianName:  student.GuardianDisplayName(),
			StudentName:   student.FullName,
			Status:        status,
			Timestamp:     now,
			CheckInEnd:    window.CheckInEnd,
			CheckOutEnd:   window.CheckOutEnd,
		})
	}

	return &dto.ScanResponse{
		StudentID:   student.StudentID,
		StudentName: student.FullName,
		Date:        date,
		Shift:       string(shift),
		RecordType:  string(model.RecordCheckIn),
		Status:      string(status),
		CheckInTime: now.Format(time.RFC3339),
		Message:     fmt.Sprintf("%s: %s checked in at %s", status, student.FullName, now.Format("03:04 PM")),
	}, nil
}

func (s *attendanceService) checkOut(
	ctx context.Context,
	student *model.Student,
	cfg *model.ScheduleConfig,
	window model.ShiftWindow,
	record *model.AttendanceRecord,
	now time.Time,
) (*dto.ScanResponse, error) {
	ok, err := s.repo.Attendance.SetCheckOut(ctx, record.AttendanceRecordID, now)
	if err != nil {
		s.logger.Error("签退更新失败", zap.Error(err))
		return nil, err
	}
	if !ok {
		// 并发扫码已完成签退，按已完成处理
		return &dto.ScanResponse{
			StudentID:   student.StudentID,
			StudentName: student.FullName,
			Date:        record.Date,
			Shift:       string(record.Shift),
			RecordType:  string(model.RecordCompleted),
			Status:      string(record.AttendanceStatus),
			Message:     fmt.Sprintf("%s has already completed attendance for today", student.FullName),
		}, nil
	}

	// 签退保持原状态不变（PRESENT 或 LATE）
	status := record.AttendanceStatus

	if cfg.EmailNotificationsEnabled && cfg.NotifyEnabled(status) &&
		student.GuardianEmail != "" && student.NotifyOnCheckout {
		s.notifier.Enqueue(Notification{
			GuardianEmail: student.GuardianEmail,
			GuardianName:  student.GuardianDisplayName(),
			StudentName:   student.FullName,
			Status:        status,
			CheckedOut:    true,
			Timestamp:     now,
			CheckInEnd:    window.CheckInEnd,
			CheckOutEnd:   window.CheckOutEnd,
		})
	}

	return &dto.ScanResponse{
		StudentID:    student.StudentID,
		StudentName:  student.FullName,
		Date:         record.Date,
		Shift:        string(record.Shift),
		RecordType:   string(model.RecordCheckOut),
		Status:       string(status),
		CheckInTime:  formatTimePtr(record.CheckInTime),
		CheckOutTime: now.Format(time.RFC3339),
		Message:      fmt.Sprintf("%s checked out at %s", student.FullName, now.Format("03:04 PM")),
	}, nil
}

func (s *attendanceService) Override(ctx context.Context, teacherID, studentID string, req *dto.OverrideStatusRequest) (*dto.OverrideStatusResponse, error) {
	newStatus := model.Status(req.Status)
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}
	shift := model.Shift(req.Shift)
	if !shift.Valid() {
		return nil, ErrInvalidShift
	}

	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	if student.TeacherID != teacherID {
		return nil, ErrStudentNotOwned
	}

	cfg, err := s.repo.ScheduleConfig.GetOrCreate(ctx)
	if err != nil {
		s.logger.Error("读取考勤配置失败", zap.Error(err))
		return nil, err
	}

	now := s.now()
	date := req.Date
	if date == "" {
		date = now.Format(dateLayout)
	}
	window := cfg.Window(shift)

	record, err := s.repo.Attendance.GetByStudentDateShift(ctx, studentID, date, shift)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, err
	}

	oldStatus := model.StatusAbsent
	if record == nil {
		record = &model.AttendanceRecord{
			StudentID:        studentID,
			Date:             date,
			Shift:            shift,
			AttendanceStatus: newStatus,
			RecordType:       model.RecordManual,
		}
		if err := s.repo.Attendance.Create(ctx, record); err != nil {
			return nil, err
		}
	} else {
		oldStatus = record.AttendanceStatus
		record.AttendanceStatus = newStatus
		record.RecordType = model.RecordManual
		if err := s.repo.Attendance.Update(ctx, record); err != nil {
			s.logger.Error("更新考勤记录失败", zap.Error(err))
			return nil, err
		}
	}

	// 手动改判不受学生侧签到/签退开关限制，只看全局与目标状态开关
	if cfg.EmailNotificationsEnabled && cfg.NotifyEnabled(newStatus) && student.GuardianEmail != "" {
		s.notifier.Enqueue(Notification{
			GuardianEmail:  student.GuardianEmail,
			GuardianName:   student.GuardianDisplayName(),
			StudentName:    student.FullName,
			Status:         newStatus,
			OverrideReason: req.Reason,
			Timestamp:      now,
			CheckInEnd:     window.CheckInEnd,
			CheckOutEnd:    window.CheckOutEnd,
		})
	}

	return &dto.OverrideStatusResponse{
		StudentID:   studentID,
		StudentName: student.FullName,
		Date:        date,
		Shift:       string(shift),
		OldStatus:   string(oldStatus),
		NewStatus:   string(newStatus),
		Message:     fmt.Sprintf("Status updated from %s to %s", oldStatus, newStatus),
	}, nil
}

func (s *attendanceService) StudentStatus(ctx context.Context, teacherID, studentID, date string, shift model.Shift) (*dto.StudentStatusResponse, error) {
	if !shift.Valid() {
		return nil, ErrInvalidShift
	}

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

	if date == "" {
		date = s.now().Format(dateLayout)
	}

	record, err := s.repo.Attendance.GetByStudentDateShift(ctx, studentID, date, shift)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.StudentStatusResponse{
				StudentID: studentID,
				Date:      date,
				Shift:     string(shift),
				Status:    string(model.StatusAbsent),
			}, nil
		}
		return nil, err
	}

	return &dto.StudentStatusResponse{
		StudentID:    studentID,
		Date:         date,
		Shift:        string(shift),
		Status:       string(record.AttendanceStatus),
		CheckedIn:    record.CheckInTime != nil,
		CheckedOut:   record.CheckOutTime != nil,
		CheckInTime:  formatTimePtr(record.CheckInTime),
		CheckOutTime: formatTimePtr(record.CheckOutTime),
	}, nil
}

func (s *attendanceService) List(ctx context.Context, teacherID string, req *dto.AttendanceListRequest) ([]dto.AttendanceRecordResponse, int64, error) {
	filter := repository.AttendanceListFilter{
		StudentID: req.StudentID,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Shift:     model.Shift(req.Shift),
		Status:    model.Status(req.Status),
	}
	if req.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	records, total, err := s.repo.Attendance.ListByTeacher(ctx, teacherID, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询考勤记录列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.AttendanceRecordResponse, 0, len(records))
	for _, r := range records {
		item := dto.AttendanceRecordResponse{
			ID:           r.AttendanceRecordID,
			StudentID:    r.StudentID,
			Date:         r.Date,
			Shift:        string(r.Shift),
			Status:       string(r.AttendanceStatus),
			RecordType:   string(r.RecordType),
			CheckInTime:  formatTimePtr(r.CheckInTime),
			CheckOutTime: formatTimePtr(r.CheckOutTime),
		}
		if r.Student != nil {
			item.StudentName = r.Student.FullName
		}
		resp = append(resp, item)
	}
	return resp, total, nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// [自证通过] internal/service/attendance_service.go
