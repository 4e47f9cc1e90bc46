package merge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pvaudit/pvevolution/pkg/analysis"
	"github.com/pvaudit/pvevolution/pkg/dataset"
	"github.com/pvaudit/pvevolution/pkg/types"
)

func day(d int) time.Time {
	return time.Date(2023, 7, d, 0, 0, 0, 0, time.UTC)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseDuplicatePolicy(t *testing.T) {
	for _, s := range []string{"first", "all", "error"} {
		p, err := ParseDuplicatePolicy(s)
		require.NoError(t, err)
		assert.Equal(t, DuplicatePolicy(s), p)
	}
	_, err := ParseDuplicatePolicy("last")
	assert.Error(t, err)
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("inner join sorted by date", func(t *testing.T) {
		pr := []types.Reading{
			{Date: day(3), Value: 73},
			{Date: day(1), Value: 71},
			{Date: day(2), Value: 72},
		}
		ghi := []types.Reading{
			{Date: day(2), Value: 4.2},
			{Date: day(3), Value: 6.3},
			{Date: day(4), Value: 1.1},
		}
		records, err := Join(ctx, pr, ghi, DuplicatesFirst)
		require.NoError(t, err)
		assert.Equal(t, []types.Record{
			{Date: day(2), PR: 72, GHI: 4.2},
			{Date: day(3), PR: 73, GHI: 6.3},
		}, records)
	})

	t.Run("no shared dates", func(t *testing.T) {
		records, err := Join(ctx,
			[]types.Reading{{Date: day(1), Value: 70}},
			[]types.Reading{{Date: day(2), Value: 3}},
			DuplicatesFirst,
		)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	pr := []types.Reading{
		{Date: day(1), Value: 70},
		{Date: day(1), Value: 90},
	}
	ghi := []types.Reading{
		{Date: day(1), Value: 3},
		{Date: day(1), Value: 5},
	}

	t.Run("duplicates first", func(t *testing.T) {
		records, err := Join(ctx, pr, ghi, DuplicatesFirst)
		require.NoError(t, err)
		assert.Equal(t, []types.Record{{Date: day(1), PR: 70, GHI: 3}}, records)
	})

	t.Run("duplicates all", func(t *testing.T) {
		records, err := Join(ctx, pr, ghi, DuplicatesAll)
		require.NoError(t, err)
		assert.Equal(t, []types.Record{
			{Date: day(1), PR: 70, GHI: 3},
			{Date: day(1), PR: 70, GHI: 5},
			{Date: day(1), PR: 90, GHI: 3},
			{Date: day(1), PR: 90, GHI: 5},
		}, records)
	})

	t.Run("duplicates error", func(t *testing.T) {
		_, err := Join(ctx, pr, ghi, DuplicatesError)
		assert.ErrorIs(t, err, ErrDuplicateDate)
	})
}

func TestMergerRun(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "pr", "2023", "07.csv"), "Date,PR\n2023-07-02,72.5\n2023-07-01,71\n2023-07-03,73\n")
	writeFile(t, filepath.Join(dataDir, "pr", "2023", "readme.txt"), "not a table")
	writeFile(t, filepath.Join(dataDir, "ghi", "site", "07.csv"), "Date,GHI\n2023-07-01,1.5\n2023-07-03,6.1\n")
	writeFile(t, filepath.Join(dataDir, "ghi", "site", "08.csv"), "Date,GHI\n2023-07-02,4\n")

	m := New(dataDir, DuplicatesFirst)
	m.output = filepath.Join(t.TempDir(), dataset.MergedFile)

	records, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)

	raw, err := os.ReadFile(m.output)
	require.NoError(t, err)
	assert.Equal(t, "Date,PR,GHI\n2023-07-01,71,1.5\n2023-07-02,72.5,4\n2023-07-03,73,6.1\n", string(raw))
}

func TestMergerRunErrors(t *testing.T) {
	t.Run("missing category directory", func(t *testing.T) {
		dataDir := t.TempDir()
		writeFile(t, filepath.Join(dataDir, "pr", "a.csv"), "Date,PR\n2023-07-01,71\n")
		m := New(dataDir, DuplicatesFirst)
		m.output = filepath.Join(t.TempDir(), dataset.MergedFile)
		_, err := m.Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("file without value column", func(t *testing.T) {
		dataDir := t.TempDir()
		writeFile(t, filepath.Join(dataDir, "pr", "a.csv"), "Date,GHI\n2023-07-01,71\n")
		writeFile(t, filepath.Join(dataDir, "ghi", "a.csv"), "Date,GHI\n2023-07-01,3\n")
		m := New(dataDir, DuplicatesFirst)
		m.output = filepath.Join(t.TempDir(), dataset.MergedFile)
		_, err := m.Run(context.Background())
		assert.ErrorIs(t, err, dataset.ErrMissingColumn)
	})
}

func TestMergerRunMixedFormats(t *testing.T) {
	csvDir := t.TempDir()
	writeFile(t, filepath.Join(csvDir, "pr", "a.csv"), "Date,PR\n2023-07-01,71\n2023-07-02,72.5\n")
	writeFile(t, filepath.Join(csvDir, "ghi", "a.csv"), "Date,GHI\n2023-07-01,1.5\n2023-07-02,4\n")

	xlsxDir := t.TempDir()
	writeFile(t, filepath.Join(xlsxDir, "pr", "a.csv"), "Date,PR\n2023-07-01,71\n2023-07-02,72.5\n")
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Date", "GHI"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2023-07-01", 1.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"2023-07-02", 4}))
	require.NoError(t, os.MkdirAll(filepath.Join(xlsxDir, "ghi"), 0o755))
	require.NoError(t, f.SaveAs(filepath.Join(xlsxDir, "ghi", "a.xlsx")))

	var outputs []string
	for _, dir := range []string{csvDir, xlsxDir} {
		m := New(dir, DuplicatesFirst)
		m.output = filepath.Join(t.TempDir(), dataset.MergedFile)
		_, err := m.Run(context.Background())
		require.NoError(t, err)
		raw, err := os.ReadFile(m.output)
		require.NoError(t, err)
		outputs = append(outputs, string(raw))
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, "Date,PR,GHI\n2023-07-01,71,1.5\n2023-07-02,72.5,4\n", outputs[0])
}

func TestMergeThenAnalyze(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "pr", "pr.csv"), "Date,PR\n2024-01-01,80\n")
	writeFile(t, filepath.Join(dataDir, "ghi", "ghi.csv"), "Date,GHI\n2024-01-01,3\n")

	m := New(dataDir, DuplicatesFirst)
	m.output = filepath.Join(t.TempDir(), dataset.MergedFile)
	_, err := m.Run(context.Background())
	require.NoError(t, err)

	records, err := dataset.LoadRecords(m.output)
	require.NoError(t, err)
	require.Len(t, records, 1)

	res, err := analysis.New(analysis.DefaultProfile(), analysis.Range{}).Analyze(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.True(t, res.Rows[0].AboveTarget)
	assert.Equal(t, "80.0", res.Summary.Lifetime)
	for _, avg := range res.Summary.Averages {
		assert.Equal(t, "80.0", avg.Value)
	}
}

func TestMergerRunEmptyJoin(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "pr", "pr.csv"), "Date,PR\n2024-01-01,80\n")
	writeFile(t, filepath.Join(dataDir, "ghi", "ghi.csv"), "Date,GHI\n2024-01-02,3\n")

	m := New(dataDir, DuplicatesFirst)
	m.output = filepath.Join(t.TempDir(), dataset.MergedFile)
	records, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	raw, err := os.ReadFile(m.output)
	require.NoError(t, err)
	assert.Equal(t, "Date,PR,GHI\n", string(raw))
}
