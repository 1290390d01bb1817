package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
	pkgerrors "github.com/LJxknzk/QRA/pkg/errors"
)

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	if teacher.TeacherID == "" {
		teacher.TeacherID = "t-" + teacher.Email
	}
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) GetByEmail(_ context.Context, email string) (*model.Teacher, error) {
	for _, t := range m.teachers {
		if t.Email == email {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) List(_ context.Context, offset, limit int) ([]model.Teacher, int64, error) {
	var result []model.Teacher
	for _, t := range m.teachers {
		result = append(result, *t)
	}
	return result, int64(len(result)), nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students  map[string]*model.Student
	idCounter int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		m.idCounter++
		student.StudentID = fmt.Sprintf("s-%d", m.idCounter)
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) ListByTeacher(_ context.Context, teacherID string, filter repository.StudentListFilter, offset, limit int) ([]model.Student, int64, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.TeacherID != teacherID {
			continue
		}
		if filter.IsActive != nil && s.IsActive != *filter.IsActive {
			continue
		}
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockStudentRepo) ListActiveByTeacher(_ context.Context, teacherID string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.TeacherID == teacherID && s.IsActive {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) ListActive(_ context.Context) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.IsActive {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock AttendanceRepository ──
//
// 与真实实现同样维护 (学生, 日期, 班次) 唯一约束与条件更新语义，
// 保证并发保护路径在单测中可被验证。

type mockAttendanceRepo struct {
	records   map[string]*model.AttendanceRecord // key: attendance_record_id
	idCounter int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.AttendanceRecord)}
}

func (m *mockAttendanceRepo) uniqueKey(studentID, date string, shift model.Shift) string {
	return studentID + "|" + date + "|" + string(shift)
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *model.AttendanceRecord) error {
	key := m.uniqueKey(record.StudentID, record.Date, record.Shift)
	for _, r := range m.records {
		if m.uniqueKey(r.StudentID, r.Date, r.Shift) == key {
			return pkgerrors.ErrDuplicateRecord
		}
	}
	if record.AttendanceRecordID == "" {
		m.idCounter++
		record.AttendanceRecordID = fmt.Sprintf("rec-%d", m.idCounter)
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	m.records[record.AttendanceRecordID] = record
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.AttendanceRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetByStudentDateShift(_ context.Context, studentID, date string, shift model.Shift) (*model.AttendanceRecord, error) {
	for _, r := range m.records {
		if r.StudentID == studentID && r.Date == date && r.Shift == shift {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, record *model.AttendanceRecord) error {
	record.UpdatedAt = time.Now()
	m.records[record.AttendanceRecordID] = record
	return nil
}

func (m *mockAttendanceRepo) SetCheckOut(_ context.Context, id string, checkOutTime time.Time) (bool, error) {
	r, ok := m.records[id]
	if !ok || r.CheckOutTime != nil {
		return false, nil
	}
	r.CheckOutTime = &checkOutTime
	r.RecordType = model.RecordCheckOut
	r.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockAttendanceRepo) MarkCutting(_ context.Context, id string) (bool, error) {
	r, ok := m.records[id]
	if !ok || r.CheckOutTime != nil || r.AttendanceStatus.Sticky() {
		return false, nil
	}
	r.AttendanceStatus = model.StatusCutting
	r.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockAttendanceRepo) ListByDateShift(_ context.Context, date string, shift model.Shift) ([]model.AttendanceRecord, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.Date == date && r.Shift == shift {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByTeacherDateShift(_ context.Context, teacherID, date string, shift model.Shift) ([]model.AttendanceRecord, error) {
	// mock 不做 join，由测试直接以 Student 指针标注归属
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if r.Date == date && r.Shift == shift {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) ListByTeacher(_ context.Context, teacherID string, filter repository.AttendanceListFilter, offset, limit int) ([]model.AttendanceRecord, int64, error) {
	var result []model.AttendanceRecord
	for _, r := range m.records {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if filter.Shift != "" && r.Shift != filter.Shift {
			continue
		}
		if filter.Status != "" && r.AttendanceStatus != filter.Status {
			continue
		}
		if filter.DateFrom != "" && r.Date < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && r.Date > filter.DateTo {
			continue
		}
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

// ── Mock ScheduleConfigRepository ──

type mockScheduleConfigRepo struct {
	cfg *model.ScheduleConfig
}

func newMockScheduleConfigRepo() *mockScheduleConfigRepo {
	return &mockScheduleConfigRepo{}
}

func (m *mockScheduleConfigRepo) GetOrCreate(_ context.Context) (*model.ScheduleConfig, error) {
	if m.cfg == nil {
		m.cfg = model.DefaultScheduleConfig()
	}
	return m.cfg, nil
}

func (m *mockScheduleConfigRepo) Update(_ context.Context, cfg *model.ScheduleConfig) error {
	m.cfg = cfg
	return nil
}

// ── 通知捕获器 ──

type captureNotifier struct {
	sent []Notification
}

func (c *captureNotifier) Enqueue(n Notification) {
	c.sent = append(c.sent, n)
}
