package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Teacher        TeacherRepository
	Student        StudentRepository
	Attendance     AttendanceRepository
	ScheduleConfig ScheduleConfigRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Teacher:        NewTeacherRepo(db),
		Student:        NewStudentRepo(db),
		Attendance:     NewAttendanceRepo(db),
		ScheduleConfig: NewScheduleConfigRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
