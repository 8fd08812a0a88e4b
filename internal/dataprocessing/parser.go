package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gradepulse/internal/infrastructure"
	"gradepulse/pkg/contracts/domain"
)

// Expected sheet layout:
//
//	row 0: ["Date", <date>, "Total Marks", <number>]
//	row 1: column labels (not validated)
//	row 2+: [studentName, marks-or-absence-token, comments?]
const (
	headerDateLabel       = "Date"
	headerTotalMarksLabel = "Total Marks"
	minTopicRows          = 3
)

// Parser extracts SubjectData from subject workbooks. Sheets are processed
// independently; a malformed sheet is dropped with a diagnostic and never
// aborts the rest of the workbook.
type Parser struct {
	logger     *slog.Logger
	normalizer *Normalizer
}

// NewParser creates a workbook parser. A nil logger falls back to
// slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger:     logger.With(slog.String("component", "workbook_parser")),
		normalizer: NewNormalizer(logger),
	}
}

// ParseWorkbook reads one subject workbook and returns its SubjectData with
// every surviving sheet parsed and metric-enriched. className and
// subjectName come from the file's location and base name.
func (p *Parser) ParseWorkbook(path, className, subjectName string) (*domain.SubjectData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	subject := &domain.SubjectData{
		SubjectName: subjectName,
		ClassName:   className,
	}

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			p.logger.Warn("failed to read sheet, skipping",
				slog.String("workbook", path),
				slog.String("sheet", sheetName),
				slog.String("error", err.Error()))
			infrastructure.SheetsSkipped.Inc()
			continue
		}

		topic, ok := p.parseSheet(sheetName, rows)
		if !ok {
			continue
		}

		ProcessTopic(topic)
		subject.Topics = append(subject.Topics, *topic)
	}

	return subject, nil
}

// parseSheet converts one sheet grid into a raw TopicData. It returns false
// when the sheet does not carry a topic: too few rows or a header that does
// not match the expected layout.
func (p *Parser) parseSheet(sheetName string, rows [][]string) (*domain.TopicData, bool) {
	if len(rows) < minTopicRows {
		p.logger.Debug("sheet too short for a topic, skipping",
			slog.String("sheet", sheetName),
			slog.Int("rows", len(rows)))
		return nil, false
	}

	if cellAt(rows[0], 0) != headerDateLabel || cellAt(rows[0], 2) != headerTotalMarksLabel {
		p.logger.Warn("sheet header does not match topic layout, skipping",
			slog.String("sheet", sheetName),
			slog.String("row0_col0", cellAt(rows[0], 0)),
			slog.String("row0_col2", cellAt(rows[0], 2)))
		infrastructure.SheetsSkipped.Inc()
		return nil, false
	}

	// Non-numeric or missing total marks coerces to 0; the percentage
	// computation treats a 0 denominator as absent.
	totalMarks := 0.0
	if v, err := strconv.ParseFloat(cellAt(rows[0], 3), 64); err == nil {
		totalMarks = v
	}

	topic := &domain.TopicData{
		TopicName:  sheetName,
		Date:       p.normalizer.Date(ClassifyCell(cellAt(rows[0], 1)), sheetName, "B1"),
		TotalMarks: totalMarks,
	}

	// Row 1 is the column-label header. Student rows start at row 2; rows
	// with an empty name are skipped.
	for i := 2; i < len(rows); i++ {
		name := cellAt(rows[i], 0)
		if name == "" {
			continue
		}
		topic.Students = append(topic.Students, domain.StudentRecord{
			Name:     name,
			Marks:    p.normalizer.Marks(ClassifyCell(cellAt(rows[i], 1)), sheetName, cellRef(1, i)),
			Comments: cellAt(rows[i], 2),
		})
	}

	return topic, true
}

// cellAt returns the trimmed cell at col, tolerating the ragged rows
// excelize produces when trailing cells are empty.
func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// cellRef renders a 0-based column/row pair as an A1-style reference for
// diagnostics.
func cellRef(col, row int) string {
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Sprintf("(%d,%d)", col, row)
	}
	return ref
}
