package dto

// TestNotificationRequest 测试通知请求
type TestNotificationRequest struct {
	To string `json:"to" binding:"required,email"`
}
