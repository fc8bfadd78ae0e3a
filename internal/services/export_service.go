package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
)

var ErrUnsupportedFormat = fmt.Errorf("%w: format must be csv or xlsx", ErrValidation)

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

var exportHeaders = []string{"Project", "Task Title", "Description", "Assigned To", "Due Date", "Priority", "Status"}

// Export is a rendered task file ready to download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a subcontractor's open tasks for import into
// scheduling tools
type ExportService struct {
	taskService *TaskService
}

// NewExportService creates a new ExportService
func NewExportService(taskService *TaskService) *ExportService {
	return &ExportService{taskService: taskService}
}

// ExportSubcontractorTasks renders the subcontractor's open tasks as csv or xlsx
func (s *ExportService) ExportSubcontractorTasks(ctx context.Context, subcontractor, format string) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, ErrUnsupportedFormat
	}

	tasks, err := s.taskService.GetSubcontractorTaskList(ctx, subcontractor)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, exportRow(t))
	}

	filename := exportFilename(subcontractor, format)
	if format == ExportFormatXLSX {
		data, err := renderXLSX(rows)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    filename,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	}

	return &Export{
		Filename:    filename,
		ContentType: "text/csv; charset=utf-8",
		Data:        renderCSV(rows),
	}, nil
}

func exportRow(t models.Task) []string {
	priority := string(t.Priority)
	if priority == "" {
		priority = constants.DefaultPriority
	}
	status := string(t.Status)
	if status == "" {
		status = constants.DefaultStatus
	}
	return []string{t.Project, t.TaskTitle, t.TaskDetails, t.AssignedTo, t.DueDate, priority, status}
}

// renderCSV writes one line per row with every cell quoted, header included.
func renderCSV(rows [][]string) []byte {
	var buf bytes.Buffer
	writeLine := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			buf.WriteByte('"')
		}
		buf.WriteByte('\n')
	}

	writeLine(exportHeaders)
	for _, row := range rows {
		writeLine(row)
	}
	return buf.Bytes()
}

func renderXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Tasks"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("error naming sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("error writing headers: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4285F4"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(sheet, "A", "G", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func exportFilename(subcontractor, format string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(subcontractor, "-"), "-")
	if name == "" {
		name = "subcontractor"
	}
	return fmt.Sprintf("%s-open-tasks.%s", strings.ToLower(name), format)
}
