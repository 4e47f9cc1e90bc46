// Package dataset reads sensor exports and reads/writes the canonical merged
// table.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pvaudit/pvevolution/pkg/types"
)

// MergedFile is the fixed name of the table written by the merger and read by
// the analyzer.
const MergedFile = "pv_plant.csv"

// DateColumn is the join key present in every table.
const DateColumn = "Date"

var (
	ErrMissingColumn     = errors.New("missing column")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Extensions lists the file extensions recognized as tabular data.
var Extensions = []string{".csv", ".xlsx"}

func isTabular(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Discover returns every tabular file under root at any depth in lexical walk
// order.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTabular(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// LoadReadings loads the Date column and the value column of one source file.
func LoadReadings(path, column string) ([]types.Reading, error) {
	tbl, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if tbl.empty() {
		return nil, nil
	}
	dates, err := tbl.dates()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	values, err := tbl.floats(column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	readings := make([]types.Reading, len(dates))
	for i := range dates {
		readings[i] = types.Reading{Date: dates[i], Value: values[i]}
	}
	return readings, nil
}

// LoadRecords loads a merged table previously written by WriteRecords.
func LoadRecords(path string) ([]types.Record, error) {
	tbl, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if tbl.empty() {
		return nil, nil
	}
	dates, err := tbl.dates()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prs, err := tbl.floats(types.CategoryPR.Column())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ghis, err := tbl.floats(types.CategoryGHI.Column())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	records := make([]types.Record, len(dates))
	for i := range dates {
		records[i] = types.Record{Date: dates[i], PR: prs[i], GHI: ghis[i]}
	}
	// the merger writes sorted output but a hand-edited file might not be
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// WriteRecords writes records as Date,PR,GHI to path, replacing any existing
// file.
func WriteRecords(path string, records []types.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{DateColumn, types.CategoryPR.Column(), types.CategoryGHI.Column()}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(types.DateLayout),
			formatValue(r.PR),
			formatValue(r.GHI),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row[0], err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
