package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pvaudit/pvevolution/pkg/types"
	"github.com/xuri/excelize/v2"
)

// missingValues are cells that load as NaN instead of failing the parse.
var missingValues = []string{"", "NA", "NaN", "N/A", "<nil>"}

// table is a loaded source file. header is kept separately because gota
// refuses to build a frame without data rows.
type table struct {
	header []string
	df     dataframe.DataFrame
}

func readTable(path string) (table, error) {
	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		return table{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return table{}, err
	}
	if len(records) == 0 {
		return table{}, fmt.Errorf("%s: %w: %s", path, ErrMissingColumn, DateColumn)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	records[0] = header
	tbl := table{header: header}
	if !tbl.has(DateColumn) {
		return table{}, fmt.Errorf("%s: %w: %s", path, ErrMissingColumn, DateColumn)
	}
	if len(records) == 1 {
		return tbl, nil
	}

	tbl.df = dataframe.LoadRecords(
		records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
	)
	if tbl.df.Err != nil {
		return table{}, fmt.Errorf("failed to load %s: %w", path, tbl.df.Err)
	}
	return tbl, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// readXLSX returns the raw cell values of the first sheet. Rows are padded to
// the header width since excelize trims trailing empty cells.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	width := len(rows[0])
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		out = append(out, row[:width])
	}
	return out, nil
}

func (t table) empty() bool {
	return t.df.Nrow() == 0
}

func (t table) has(column string) bool {
	for _, h := range t.header {
		if h == column {
			return true
		}
	}
	return false
}

func (t table) dates() ([]time.Time, error) {
	col := t.df.Col(DateColumn)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, DateColumn)
	}
	raw := col.Records()
	dates := make([]time.Time, len(raw))
	for i, s := range raw {
		d, err := parseDateCell(s)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		dates[i] = d
	}
	return dates, nil
}

// parseDateCell accepts the text layouts of types.ParseDate plus spreadsheet
// date serials.
func parseDateCell(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	d, err := types.ParseDate(s)
	if err == nil {
		return d, nil
	}
	if serial, ferr := strconv.ParseFloat(s, 64); ferr == nil && serial > 0 {
		t, xerr := excelize.ExcelDateToTime(serial, false)
		if xerr == nil {
			return types.Day(t), nil
		}
	}
	return time.Time{}, err
}

func (t table) floats(column string) ([]float64, error) {
	if !t.has(column) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	col := t.df.Col(column)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}
	raw := col.Records()
	values := col.Float()
	for i, v := range values {
		// gota reports unparseable numbers as NaN as well, tell them apart
		// from cells that were actually missing
		if math.IsNaN(v) && raw[i] != "NaN" {
			return nil, fmt.Errorf("row %d: invalid %s value: %q", i+2, column, raw[i])
		}
	}
	return values, nil
}
