package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/repository"
)

func setupScheduleConfigTest() (ScheduleConfigService, *mockScheduleConfigRepo) {
	cfgRepo := newMockScheduleConfigRepo()
	repo := &repository.Repository{
		Teacher:        newMockTeacherRepo(),
		Student:        newMockStudentRepo(),
		Attendance:     newMockAttendanceRepo(),
		ScheduleConfig: cfgRepo,
	}
	return NewScheduleConfigService(repo, zap.NewNop()), cfgRepo
}

// ── Get 测试 ──

func TestScheduleConfig_GetReturnsDefaults(t *testing.T) {
	svc, _ := setupScheduleConfigTest()

	result, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if result.MorningCheckInEnd != "08:00" {
		t.Errorf("期望签到截止08:00，实际=%s", result.MorningCheckInEnd)
	}
	if result.AfternoonCheckOutEnd != "18:00" {
		t.Errorf("期望下午签退截止18:00，实际=%s", result.AfternoonCheckOutEnd)
	}
	if !result.EmailNotificationsEnabled || !result.AutoMarkAbsentEnabled {
		t.Error("默认开关应全部开启")
	}
}

// ── Update 测试 ──

func TestScheduleConfig_PartialUpdate(t *testing.T) {
	svc, _ := setupScheduleConfigTest()

	newEnd := "08:30"
	off := false
	result, err := svc.Update(context.Background(), &dto.UpdateScheduleConfigRequest{
		MorningCheckInEnd: &newEnd,
		NotifyOnPresent:   &off,
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.MorningCheckInEnd != "08:30" {
		t.Errorf("期望08:30，实际=%s", result.MorningCheckInEnd)
	}
	if result.NotifyOnPresent {
		t.Error("NotifyOnPresent 应已关闭")
	}
	// 未修改的字段应保持原值
	if result.MorningCheckInStart != "07:00" {
		t.Errorf("期望07:00（未修改），实际=%s", result.MorningCheckInStart)
	}
}

func TestScheduleConfig_InvalidClockRejected(t *testing.T) {
	svc, cfgRepo := setupScheduleConfigTest()

	bad := "25:99"
	_, err := svc.Update(context.Background(), &dto.UpdateScheduleConfigRequest{
		MorningCheckInEnd: &bad,
	})
	if !errors.Is(err, ErrInvalidClock) {
		t.Errorf("期望 ErrInvalidClock，实际: %v", err)
	}
	// 非法更新不应落库
	if cfgRepo.cfg.CheckInEnd != "08:00" {
		t.Errorf("非法更新不应修改配置，实际=%s", cfgRepo.cfg.CheckInEnd)
	}
}
