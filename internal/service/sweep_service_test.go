package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
)

// ── 测试辅助 ──

type sweepTestEnv struct {
	svc      SweepService
	attRepo  *mockAttendanceRepo
	stuRepo  *mockStudentRepo
	cfgRepo  *mockScheduleConfigRepo
	notifier *captureNotifier
}

func setupSweepTest() *sweepTestEnv {
	attRepo := newMockAttendanceRepo()
	stuRepo := newMockStudentRepo()
	cfgRepo := newMockScheduleConfigRepo()
	repo := &repository.Repository{
		Teacher:        newMockTeacherRepo(),
		Student:        stuRepo,
		Attendance:     attRepo,
		ScheduleConfig: cfgRepo,
	}
	notifier := &captureNotifier{}
	return &sweepTestEnv{
		svc:      NewSweepService(repo, notifier, zap.NewNop()),
		attRepo:  attRepo,
		stuRepo:  stuRepo,
		cfgRepo:  cfgRepo,
		notifier: notifier,
	}
}

func (env *sweepTestEnv) seedStudent(id string) *model.Student {
	student := &model.Student{
		StudentID:     id,
		TeacherID:     "t-1",
		FullName:      "Student " + id,
		Email:         id + "@student",
		IsActive:      true,
		GuardianEmail: id + "@guardian",
	}
	env.stuRepo.students[id] = student
	return student
}

func (env *sweepTestEnv) seedCheckIn(studentID string, checkIn time.Time, status model.Status) *model.AttendanceRecord {
	record := &model.AttendanceRecord{
		StudentID:        studentID,
		Date:             checkIn.Format(dateLayout),
		Shift:            model.ShiftMorning,
		AttendanceStatus: status,
		RecordType:       model.RecordCheckIn,
		CheckInTime:      &checkIn,
	}
	_ = env.attRepo.Create(context.Background(), record)
	return record
}

// ── 缺勤补登测试 ──

func TestSweep_MarksAbsentAfterCheckInEnd(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")
	env.seedStudent("s-2")
	env.seedCheckIn("s-1", clockTime(7, 30, 0), model.StatusPresent)

	// 08:05 已过上午签到截止，下午窗口尚未触发
	result, err := env.svc.Sweep(context.Background(), clockTime(8, 5, 0))
	if err != nil {
		t.Fatalf("Sweep 应成功: %v", err)
	}
	if result.MarkedAbsent != 1 {
		t.Errorf("期望补登1条缺勤，实际=%d", result.MarkedAbsent)
	}
	if result.MarkedCutting != 0 {
		t.Errorf("期望0条CUTTING，实际=%d", result.MarkedCutting)
	}

	record, err := env.attRepo.GetByStudentDateShift(context.Background(), "s-2", "2026-03-02", model.ShiftMorning)
	if err != nil {
		t.Fatalf("s-2 应有缺勤记录: %v", err)
	}
	if record.AttendanceStatus != model.StatusAbsent || record.RecordType != model.RecordAbsent {
		t.Errorf("缺勤记录内容错误: %+v", record)
	}

	if len(env.notifier.sent) != 1 || env.notifier.sent[0].Status != model.StatusAbsent {
		t.Errorf("期望1条ABSENT通知，实际: %+v", env.notifier.sent)
	}
}

func TestSweep_BeforeDeadlineDoesNothing(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")

	result, err := env.svc.Sweep(context.Background(), clockTime(7, 50, 0))
	if err != nil {
		t.Fatalf("Sweep 应成功: %v", err)
	}
	if result.MarkedAbsent != 0 || result.MarkedCutting != 0 {
		t.Errorf("截止前不应有任何标记: %+v", result)
	}
}

func TestSweep_Idempotent(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")
	env.seedStudent("s-2")
	env.seedCheckIn("s-1", clockTime(7, 30, 0), model.StatusPresent)

	now := clockTime(17, 5, 0) // 两个截止都已过
	first, err := env.svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("第一次 Sweep 应成功: %v", err)
	}
	if first.MarkedAbsent == 0 && first.MarkedCutting == 0 {
		t.Fatal("第一次 Sweep 应有标记产生")
	}

	second, err := env.svc.Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("第二次 Sweep 应成功: %v", err)
	}
	if second.MarkedAbsent != 0 || second.MarkedCutting != 0 {
		t.Errorf("重复执行应为零标记，实际: %+v", second)
	}
}

// ── CUTTING 改判测试 ──

func TestSweep_MarksCuttingAfterCheckOutEnd(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")
	cfg, _ := env.cfgRepo.GetOrCreate(context.Background())
	cfg.AutoMarkAbsentEnabled = false // 隔离 CUTTING 路径

	env.seedCheckIn("s-1", clockTime(7, 30, 0), model.StatusPresent)

	result, err := env.svc.Sweep(context.Background(), clockTime(17, 5, 0))
	if err != nil {
		t.Fatalf("Sweep 应成功: %v", err)
	}
	if result.MarkedCutting != 1 {
		t.Errorf("期望1条CUTTING，实际=%d", result.MarkedCutting)
	}

	record, _ := env.attRepo.GetByStudentDateShift(context.Background(), "s-1", "2026-03-02", model.ShiftMorning)
	if record.AttendanceStatus != model.StatusCutting {
		t.Errorf("期望CUTTING，实际=%s", record.AttendanceStatus)
	}
	if len(env.notifier.sent) != 1 || env.notifier.sent[0].Status != model.StatusCutting {
		t.Errorf("期望1条CUTTING通知，实际: %+v", env.notifier.sent)
	}
}

func TestSweep_CheckedOutNotCutting(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")
	cfg, _ := env.cfgRepo.GetOrCreate(context.Background())
	cfg.AutoMarkAbsentEnabled = false

	record := env.seedCheckIn("s-1", clockTime(7, 30, 0), model.StatusPresent)
	out := clockTime(16, 30, 0)
	record.CheckOutTime = &out

	result, _ := env.svc.Sweep(context.Background(), clockTime(17, 5, 0))
	if result.MarkedCutting != 0 {
		t.Errorf("已签退不应改判CUTTING，实际=%d", result.MarkedCutting)
	}
}

// 教师显式裁定为粘滞状态，清扫不得覆盖
func TestSweep_ExcusedIsSticky(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")
	cfg, _ := env.cfgRepo.GetOrCreate(context.Background())
	cfg.AutoMarkAbsentEnabled = false

	env.seedCheckIn("s-1", clockTime(7, 30, 0), model.StatusExcused)

	result, _ := env.svc.Sweep(context.Background(), clockTime(17, 5, 0))
	if result.MarkedCutting != 0 {
		t.Errorf("EXCUSED 不应被改判，实际=%d", result.MarkedCutting)
	}

	record, _ := env.attRepo.GetByStudentDateShift(context.Background(), "s-1", "2026-03-02", model.ShiftMorning)
	if record.AttendanceStatus != model.StatusExcused {
		t.Errorf("EXCUSED 应保持不变，实际=%s", record.AttendanceStatus)
	}
}

// ── 开关与降级测试 ──

func TestSweep_TogglesOff(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")
	env.seedStudent("s-2")
	env.seedCheckIn("s-1", clockTime(7, 30, 0), model.StatusPresent)

	cfg, _ := env.cfgRepo.GetOrCreate(context.Background())
	cfg.AutoMarkAbsentEnabled = false
	cfg.AutoMarkCuttingEnabled = false

	result, err := env.svc.Sweep(context.Background(), clockTime(17, 5, 0))
	if err != nil {
		t.Fatalf("Sweep 应成功: %v", err)
	}
	if result.MarkedAbsent != 0 || result.MarkedCutting != 0 {
		t.Errorf("开关关闭不应有任何标记: %+v", result)
	}
}

func TestSweep_MalformedClockSkipsDeadline(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")

	cfg, _ := env.cfgRepo.GetOrCreate(context.Background())
	cfg.CheckInEnd = "garbage"
	cfg.AfternoonCheckInEnd = "also-bad"
	cfg.AutoMarkCuttingEnabled = false

	result, err := env.svc.Sweep(context.Background(), clockTime(23, 0, 0))
	if err != nil {
		t.Fatalf("Sweep 应成功: %v", err)
	}
	if result.MarkedAbsent != 0 {
		t.Errorf("时刻非法应视为截止未到，实际补登=%d", result.MarkedAbsent)
	}
}

func TestSweep_NotifyToggleOffStillMarks(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")

	cfg, _ := env.cfgRepo.GetOrCreate(context.Background())
	cfg.NotifyOnAbsent = false
	cfg.AutoMarkCuttingEnabled = false

	result, _ := env.svc.Sweep(context.Background(), clockTime(8, 5, 0))
	if result.MarkedAbsent != 1 {
		t.Errorf("通知开关不影响标记本身，实际=%d", result.MarkedAbsent)
	}
	if len(env.notifier.sent) != 0 {
		t.Errorf("ABSENT 通知开关关闭不应发送通知，实际=%d", len(env.notifier.sent))
	}
}

// 两个班次独立成账：下午截止过后对无下午记录的学生再补登一次
func TestSweep_ShiftsAreIndependent(t *testing.T) {
	env := setupSweepTest()
	env.seedStudent("s-1")
	cfg, _ := env.cfgRepo.GetOrCreate(context.Background())
	cfg.AutoMarkCuttingEnabled = false

	// 上午截止后第一次清扫
	first, _ := env.svc.Sweep(context.Background(), clockTime(8, 5, 0))
	if first.MarkedAbsent != 1 {
		t.Fatalf("上午应补登1条，实际=%d", first.MarkedAbsent)
	}

	// 下午签到截止（14:00）过后，再为下午班次补登
	second, _ := env.svc.Sweep(context.Background(), clockTime(14, 5, 0))
	if second.MarkedAbsent != 1 {
		t.Errorf("下午应再补登1条，实际=%d", second.MarkedAbsent)
	}

	if _, err := env.attRepo.GetByStudentDateShift(context.Background(), "s-1", "2026-03-02", model.ShiftAfternoon); err != nil {
		t.Errorf("应存在下午缺勤记录: %v", err)
	}
}
