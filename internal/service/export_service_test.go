package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
)

func setupExportTest() (ExportService, *mockAttendanceRepo) {
	attRepo := newMockAttendanceRepo()
	repo := &repository.Repository{
		Teacher:        newMockTeacherRepo(),
		Student:        newMockStudentRepo(),
		Attendance:     attRepo,
		ScheduleConfig: newMockScheduleConfigRepo(),
	}
	return NewExportService(repo, zap.NewNop()), attRepo
}

func TestExportAttendance_NoRecords(t *testing.T) {
	svc, _ := setupExportTest()

	_, _, err := svc.ExportAttendance(context.Background(), "t-1", &dto.AttendanceListRequest{})
	if !errors.Is(err, ErrExportNoRecords) {
		t.Errorf("期望 ErrExportNoRecords，实际: %v", err)
	}
}

func TestExportAttendance_GeneratesWorkbook(t *testing.T) {
	svc, attRepo := setupExportTest()

	in := clockTime(7, 30, 0)
	_ = attRepo.Create(context.Background(), &model.AttendanceRecord{
		StudentID:        "s-1",
		Date:             "2026-03-02",
		Shift:            model.ShiftMorning,
		AttendanceStatus: model.StatusPresent,
		RecordType:       model.RecordCheckIn,
		CheckInTime:      &in,
		Student:          &model.Student{StudentID: "s-1", FullName: "Juan Dela Cruz"},
	})

	buf, filename, err := svc.ExportAttendance(context.Background(), "t-1", &dto.AttendanceListRequest{})
	if err != nil {
		t.Fatalf("ExportAttendance 应成功: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("导出内容不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾: %s", filename)
	}
}
