package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pvaudit/pvevolution/pkg/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeXLSX(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, f.SaveAs(path))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "2023.csv"), "Date,PR\n")
	writeFile(t, filepath.Join(root, "a", "nested", "2022.CSV"), "Date,PR\n")
	writeFile(t, filepath.Join(root, "a", "notes.txt"), "ignored")
	writeXLSX(t, filepath.Join(root, "c.xlsx"), [][]interface{}{{"Date", "PR"}})

	files, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "nested", "2022.CSV"),
		filepath.Join(root, "b", "2023.csv"),
		filepath.Join(root, "c.xlsx"),
	}, files)

	_, err = Discover(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestLoadReadingsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr.csv")

	t.Run("valid", func(t *testing.T) {
		writeFile(t, path, "\ufeffDate,PR,Extra\n2023-07-01,75.5,x\n2023-07-02 00:00:00,,y\n2023/07/03,80,z\n")
		readings, err := LoadReadings(path, "PR")
		require.NoError(t, err)
		require.Len(t, readings, 3)
		assert.Equal(t, day(2023, 7, 1), readings[0].Date)
		assert.Equal(t, 75.5, readings[0].Value)
		assert.Equal(t, day(2023, 7, 2), readings[1].Date)
		assert.True(t, math.IsNaN(readings[1].Value))
		assert.Equal(t, 80.0, readings[2].Value)
	})

	t.Run("header only", func(t *testing.T) {
		writeFile(t, path, "Date,PR\n")
		readings, err := LoadReadings(path, "PR")
		require.NoError(t, err)
		assert.Empty(t, readings)
	})

	t.Run("missing value column", func(t *testing.T) {
		writeFile(t, path, "Date,GHI\n2023-07-01,5.1\n")
		_, err := LoadReadings(path, "PR")
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("missing date column", func(t *testing.T) {
		writeFile(t, path, "Day,PR\n2023-07-01,75\n")
		_, err := LoadReadings(path, "PR")
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("invalid value", func(t *testing.T) {
		writeFile(t, path, "Date,PR\n2023-07-01,75\n2023-07-02,abc\n")
		_, err := LoadReadings(path, "PR")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 3")
	})

	t.Run("invalid date", func(t *testing.T) {
		writeFile(t, path, "Date,PR\nyesterday,75\n")
		_, err := LoadReadings(path, "PR")
		assert.Error(t, err)
	})
}

func TestLoadReadingsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghi.xlsx")
	writeXLSX(t, path, [][]interface{}{
		{"Date", "GHI"},
		{"2023-06-30", 4.25},
		{45108, 6},
	})

	readings, err := LoadReadings(path, "GHI")
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, day(2023, 6, 30), readings[0].Date)
	assert.Equal(t, 4.25, readings[0].Value)
	assert.Equal(t, day(2023, 7, 1), readings[1].Date)
	assert.Equal(t, 6.0, readings[1].Value)
}

func TestUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr.json")
	writeFile(t, path, "{}")
	_, err := LoadReadings(path, "PR")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteAndLoadRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), MergedFile)
	records := []types.Record{
		{Date: day(2023, 7, 2), PR: 78.25, GHI: 5.5},
		{Date: day(2023, 7, 1), PR: 80, GHI: math.NaN()},
	}
	require.NoError(t, WriteRecords(path, records))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,PR,GHI\n2023-07-02,78.25,5.5\n2023-07-01,80,\n", string(raw))

	loaded, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, day(2023, 7, 1), loaded[0].Date)
	assert.Equal(t, 80.0, loaded[0].PR)
	assert.True(t, math.IsNaN(loaded[0].GHI))
	assert.Equal(t, day(2023, 7, 2), loaded[1].Date)
	assert.Equal(t, 78.25, loaded[1].PR)

	require.NoError(t, WriteRecords(path, nil))
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,PR,GHI\n", string(raw))
	loaded, err = LoadRecords(path)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
