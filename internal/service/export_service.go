package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/0xniki/rezzy-backend/internal/dto"
	"github.com/0xniki/rezzy-backend/internal/model"
	"github.com/0xniki/rezzy-backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportInvalidRange   = errors.New("导出日期范围无效")
	ErrExportNoReservations = errors.New("该日期范围内没有预订")
	ErrExportGenerateFail   = errors.New("生成导出文件失败")
)

// 单次导出的预订数量上限
const exportMaxRows = 10000

// ExportService 预订导出业务接口
//
// 设计说明：
//   - Excel 导出面向门店运营，逐行列出日期范围内的预订
//   - iCalendar 导出面向日历订阅，取消/未到店的预订不出现在日历中
//   - 两者均以内存缓冲返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportExcel 导出日期范围内的预订为 Excel
	ExportExcel(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error)
	// ExportCalendar 导出日期范围内的预订为 iCalendar
	ExportCalendar(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportExcel(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	reservations, err := s.listRange(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "预订记录"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 8)
	f.SetColWidth(sheetName, "E", "E", 10)
	f.SetColWidth(sheetName, "F", "G", 22)
	f.SetColWidth(sheetName, "H", "H", 16)
	f.SetColWidth(sheetName, "I", "I", 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"日期", "开始时间", "结束时间", "人数", "状态", "顾客", "联系方式", "桌位", "备注"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row := 2
	for i := range reservations {
		res := &reservations[i]
		endTime := ""
		if w, err := res.Window(); err == nil {
			endTime = model.FormatClock(w.End)
		}

		customerName, contact := "", ""
		if res.Customer != nil {
			customerName = res.Customer.Name
			contact = customerContact(res.Customer)
		}

		tableNumbers := make([]string, 0, len(res.Tables))
		for j := range res.Tables {
			tableNumbers = append(tableNumbers, res.Tables[j].TableNumber)
		}

		values := []interface{}{
			model.FormatDate(res.ReservationDate),
			formatClockField(res.StartTime),
			endTime,
			res.PartySize,
			statusLabel(res.Status),
			customerName,
			contact,
			strings.Join(tableNumbers, ", "),
			res.Notes,
		}
		for j, v := range values {
			f.SetCellValue(sheetName, cell(colName(j), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("预订记录_%s_%s.xlsx", req.DateFrom, req.DateTo)
	return buf, filename, nil
}

func (s *exportService) ExportCalendar(ctx context.Context, req *dto.ExportRequest) (*bytes.Buffer, string, error) {
	reservations, err := s.listRange(ctx, req)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//rezzy//reservation-export//CN")

	now := time.Now().UTC()
	for i := range reservations {
		res := &reservations[i]
		// 日历只保留仍占用容量的预订
		if !model.IsBlockingStatus(res.Status) {
			continue
		}
		w, err := res.Window()
		if err != nil {
			continue
		}

		// DATE 列可能带驱动附加的时区/时刻成分，取日期分量重建 UTC 零点
		y, m, d := res.ReservationDate.Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		startAt := start.Add(time.Duration(w.Start) * time.Minute)
		endAt := start.Add(time.Duration(w.End) * time.Minute)

		customerName := "散客"
		if res.Customer != nil {
			customerName = res.Customer.Name
		}
		tableNumbers := make([]string, 0, len(res.Tables))
		for j := range res.Tables {
			tableNumbers = append(tableNumbers, res.Tables[j].TableNumber)
		}

		event := cal.AddEvent(fmt.Sprintf("%s@rezzy", res.ReservationID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(startAt)
		event.SetEndAt(endAt)
		event.SetSummary(fmt.Sprintf("%s %d人", customerName, res.PartySize))

		description := fmt.Sprintf("桌位: %s / 状态: %s", strings.Join(tableNumbers, ", "), statusLabel(res.Status))
		if res.Notes != "" {
			description += " / 备注: " + res.Notes
		}
		event.SetDescription(description)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("预订日历_%s_%s.ics", req.DateFrom, req.DateTo)
	return buf, filename, nil
}

// listRange 校验范围并取出范围内的全部预订
func (s *exportService) listRange(ctx context.Context, req *dto.ExportRequest) ([]model.Reservation, error) {
	if req.DateFrom > req.DateTo {
		return nil, ErrExportInvalidRange
	}

	reservations, _, err := s.repo.Reservation.List(ctx, repository.ReservationFilter{
		DateFrom: &req.DateFrom,
		DateTo:   &req.DateTo,
		Limit:    exportMaxRows,
	})
	if err != nil {
		s.logger.Error("查询导出预订失败",
			zap.String("date_from", req.DateFrom),
			zap.String("date_to", req.DateTo),
			zap.Error(err))
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, ErrExportNoReservations
	}
	return reservations, nil
}

// ── 辅助函数 ──

var statusLabels = map[string]string{
	model.StatusPending:   "待确认",
	model.StatusConfirmed: "已确认",
	model.StatusSeated:    "已入座",
	model.StatusCompleted: "已完成",
	model.StatusCancelled: "已取消",
	model.StatusNoShow:    "未到店",
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func customerContact(c *model.Customer) string {
	parts := make([]string, 0, 2)
	if c.Email != nil {
		parts = append(parts, *c.Email)
	}
	if c.Phone != nil {
		parts = append(parts, *c.Phone)
	}
	return strings.Join(parts, " / ")
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
