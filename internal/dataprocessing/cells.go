package dataprocessing

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"gradepulse/internal/infrastructure"
)

// CellKind classifies a raw sheet cell once at the ingestion boundary.
// Nothing deeper in the pipeline sees an untyped cell value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellDate
	CellText
)

// CellValue is a typed spreadsheet cell. Number is set for CellNumber,
// Date for CellDate; Raw always carries the trimmed source text.
type CellValue struct {
	Kind   CellKind
	Raw    string
	Number float64
	Date   time.Time
}

// excelEpochOffsetDays is the distance between the spreadsheet date epoch
// (1899-12-30) and the Unix epoch.
const excelEpochOffsetDays = 25569

// dateLayouts are tried in order when classifying date-shaped text.
// "01-02-06" is the default short-date rendering excelize produces for
// date-styled cells.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"01-02-06 15:04",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"2 January 2006",
	"January 2, 2006",
}

// ClassifyCell converts a raw sheet string into a typed CellValue.
func ClassifyCell(raw string) CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CellValue{Kind: CellEmpty}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return CellValue{Kind: CellNumber, Raw: trimmed, Number: n}
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return CellValue{Kind: CellDate, Raw: trimmed, Date: d.UTC()}
		}
	}
	return CellValue{Kind: CellText, Raw: trimmed}
}

// absenceTokens are the explicit absent markers accepted in mark cells,
// matched case-insensitively.
var absenceTokens = map[string]bool{
	"AB":  true,
	"ABS": true,
	"-":   true,
}

// Normalizer converts typed cells into domain values. Fallbacks are a
// compatibility contract: they never fail, but each one is logged and
// counted so masked data errors stay observable.
type Normalizer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewNormalizer creates a cell normalizer. A nil logger falls back to
// slog.Default.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger, now: time.Now}
}

// Date converts a cell into an absolute instant. Numeric cells are
// interpreted as spreadsheet serial day counts and mapped to midnight UTC of
// that day; date cells pass through; anything else falls back to the current
// instant. sheet and ref locate the cell for diagnostics.
func (n *Normalizer) Date(cell CellValue, sheet, ref string) time.Time {
	switch cell.Kind {
	case CellNumber:
		secs := math.Round((cell.Number - excelEpochOffsetDays) * 86400)
		return time.Unix(int64(secs), 0).UTC()
	case CellDate:
		return cell.Date
	}

	n.logger.Warn("unparsable date cell, falling back to current instant",
		slog.String("sheet", sheet),
		slog.String("cell", ref),
		slog.String("raw", cell.Raw))
	infrastructure.CellFallbacks.WithLabelValues("date").Inc()
	return n.now().UTC()
}

// Marks converts a cell into a mark value, or nil for the absent marker.
// Empty cells and the explicit absence tokens are absent by contract;
// unparsable content degrades to absent as well, without surfacing an error.
func (n *Normalizer) Marks(cell CellValue, sheet, ref string) *float64 {
	switch cell.Kind {
	case CellEmpty:
		return nil
	case CellNumber:
		v := cell.Number
		return &v
	}

	if absenceTokens[strings.ToUpper(cell.Raw)] {
		return nil
	}

	n.logger.Debug("unparsable marks cell, treating as absent",
		slog.String("sheet", sheet),
		slog.String("cell", ref),
		slog.String("raw", cell.Raw))
	infrastructure.CellFallbacks.WithLabelValues("marks").Inc()
	return nil
}
