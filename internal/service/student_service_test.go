package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
)

func setupStudentTest() (StudentService, *mockStudentRepo, *mockTeacherRepo) {
	stuRepo := newMockStudentRepo()
	teaRepo := newMockTeacherRepo()
	repo := &repository.Repository{
		Teacher:        teaRepo,
		Student:        stuRepo,
		Attendance:     newMockAttendanceRepo(),
		ScheduleConfig: newMockScheduleConfigRepo(),
	}
	return NewStudentService(repo, zap.NewNop()), stuRepo, teaRepo
}

// ── Create 测试 ──

func TestStudentCreate_Success(t *testing.T) {
	svc, stuRepo, _ := setupStudentTest()

	result, err := svc.Create(context.Background(), "t-1", &dto.CreateStudentRequest{
		FullName:      "Juan Dela Cruz",
		Email:         "juan@student",
		Password:      "secret123",
		GuardianEmail: "maria@example.com",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.TeacherID != "t-1" {
		t.Errorf("期望归属t-1，实际=%s", result.TeacherID)
	}
	if !result.NotifyOnCheckin || !result.NotifyOnCheckout {
		t.Error("通知开关默认应开启")
	}

	stored := stuRepo.students[result.ID]
	if stored.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("密码哈希应可验证: %v", err)
	}
}

func TestStudentCreate_DuplicateEmail(t *testing.T) {
	svc, _, teaRepo := setupStudentTest()
	teaRepo.teachers["t-1"] = &model.Teacher{TeacherID: "t-1", Email: "taken@school"}

	_, err := svc.Create(context.Background(), "t-1", &dto.CreateStudentRequest{
		FullName: "Juan",
		Email:    "taken@school",
		Password: "secret123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

// ── UpdateGuardian 测试 ──

func TestStudentUpdateGuardian_Partial(t *testing.T) {
	svc, stuRepo, _ := setupStudentTest()
	stuRepo.students["s-1"] = &model.Student{
		StudentID:        "s-1",
		TeacherID:        "t-1",
		FullName:         "Juan",
		Email:            "juan@student",
		IsActive:         true,
		GuardianEmail:    "old@example.com",
		NotifyOnCheckin:  true,
		NotifyOnCheckout: true,
	}

	newEmail := "new@example.com"
	off := false
	result, err := svc.UpdateGuardian(context.Background(), "t-1", "s-1", &dto.UpdateGuardianRequest{
		GuardianEmail:    &newEmail,
		NotifyOnCheckout: &off,
	})
	if err != nil {
		t.Fatalf("UpdateGuardian 应成功: %v", err)
	}
	if result.GuardianEmail != "new@example.com" {
		t.Errorf("期望新邮箱，实际=%s", result.GuardianEmail)
	}
	if result.NotifyOnCheckout {
		t.Error("签退通知开关应已关闭")
	}
	if !result.NotifyOnCheckin {
		t.Error("未修改的签到开关应保持开启")
	}
}

func TestStudentUpdateGuardian_WrongTeacher(t *testing.T) {
	svc, stuRepo, _ := setupStudentTest()
	stuRepo.students["s-1"] = &model.Student{StudentID: "s-1", TeacherID: "t-1", IsActive: true}

	name := "Somebody"
	_, err := svc.UpdateGuardian(context.Background(), "t-2", "s-1", &dto.UpdateGuardianRequest{
		GuardianName: &name,
	})
	if !errors.Is(err, ErrStudentNotOwned) {
		t.Errorf("期望 ErrStudentNotOwned，实际: %v", err)
	}
}

// ── QRCodePNG 测试 ──

func TestStudentQRCodePNG(t *testing.T) {
	svc, stuRepo, _ := setupStudentTest()
	stuRepo.students["s-1"] = &model.Student{StudentID: "s-1", TeacherID: "t-1", IsActive: true}

	png, err := svc.QRCodePNG(context.Background(), "t-1", "s-1")
	if err != nil {
		t.Fatalf("QRCodePNG 应成功: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("输出应为 PNG 图片")
	}
}

func TestStudentQRCodePNG_NotFound(t *testing.T) {
	svc, _, _ := setupStudentTest()

	_, err := svc.QRCodePNG(context.Background(), "t-1", "missing")
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}
