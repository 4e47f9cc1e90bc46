// Package merge combines the PR and GHI exports of a plant into one date
// ordered table.
package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/pvaudit/pvevolution/pkg/dataset"
	"github.com/pvaudit/pvevolution/pkg/log"
	"github.com/pvaudit/pvevolution/pkg/types"
)

var ErrDuplicateDate = errors.New("duplicate date")

// DuplicatePolicy decides what happens when a category has more than one
// reading for the same date.
type DuplicatePolicy string

const (
	// DuplicatesFirst keeps the first reading in concatenation order.
	DuplicatesFirst DuplicatePolicy = "first"
	// DuplicatesAll keeps every reading, so the join emits one record per
	// PR/GHI pair sharing the date.
	DuplicatesAll DuplicatePolicy = "all"
	// DuplicatesError fails the merge.
	DuplicatesError DuplicatePolicy = "error"
)

// ParseDuplicatePolicy validates a policy name.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(s); p {
	case DuplicatesFirst, DuplicatesAll, DuplicatesError:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy: %s", s)
	}
}

// Merger merges <dataDir>/pr and <dataDir>/ghi into the canonical table.
type Merger struct {
	dataDir string
	policy  DuplicatePolicy
	output  string
}

// New returns a Merger writing dataset.MergedFile in the working directory.
func New(dataDir string, policy DuplicatePolicy) *Merger {
	return &Merger{
		dataDir: dataDir,
		policy:  policy,
		output:  dataset.MergedFile,
	}
}

// Run loads both categories, joins them and writes the result. The merged
// records are returned as well.
func (m *Merger) Run(ctx context.Context) ([]types.Record, error) {
	pr, err := LoadCategory(ctx, filepath.Join(m.dataDir, types.CategoryPR.Dir()), types.CategoryPR)
	if err != nil {
		return nil, err
	}
	ghi, err := LoadCategory(ctx, filepath.Join(m.dataDir, types.CategoryGHI.Dir()), types.CategoryGHI)
	if err != nil {
		return nil, err
	}

	records, err := Join(ctx, pr, ghi, m.policy)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		log.Ctx(ctx).WarnContext(ctx, "no dates shared between PR and GHI readings")
	}

	if err := dataset.WriteRecords(m.output, records); err != nil {
		return nil, err
	}
	log.Ctx(ctx).InfoContext(
		ctx,
		"wrote merged table",
		slog.String("path", m.output),
		slog.Int("rows", len(records)),
	)
	return records, nil
}

// LoadCategory concatenates the readings of every tabular file under root.
func LoadCategory(ctx context.Context, root string, category types.Category) ([]types.Reading, error) {
	files, err := dataset.Discover(root)
	if err != nil {
		return nil, err
	}
	var readings []types.Reading
	for _, file := range files {
		rs, err := dataset.LoadReadings(file, category.Column())
		if err != nil {
			return nil, fmt.Errorf("failed to load %s readings: %w", category, err)
		}
		log.Ctx(ctx).DebugContext(
			ctx,
			"loaded source file",
			slog.String("category", string(category)),
			slog.String("path", file),
			slog.Int("rows", len(rs)),
		)
		readings = append(readings, rs...)
	}
	log.Ctx(ctx).InfoContext(
		ctx,
		"loaded category",
		slog.String("category", string(category)),
		slog.Int("files", len(files)),
		slog.Int("rows", len(readings)),
	)
	return readings, nil
}

// Join inner-joins pr and ghi on date and returns the records sorted by date.
// Records sharing a date keep PR concatenation order.
func Join(ctx context.Context, pr, ghi []types.Reading, policy DuplicatePolicy) ([]types.Record, error) {
	pr, err := applyPolicy(ctx, types.CategoryPR, pr, policy)
	if err != nil {
		return nil, err
	}
	ghi, err = applyPolicy(ctx, types.CategoryGHI, ghi, policy)
	if err != nil {
		return nil, err
	}

	ghiByDate := make(map[time.Time][]float64, len(ghi))
	for _, r := range ghi {
		ghiByDate[r.Date] = append(ghiByDate[r.Date], r.Value)
	}

	records := make([]types.Record, 0, len(pr))
	for _, p := range pr {
		for _, g := range ghiByDate[p.Date] {
			records = append(records, types.Record{Date: p.Date, PR: p.Value, GHI: g})
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func applyPolicy(ctx context.Context, category types.Category, readings []types.Reading, policy DuplicatePolicy) ([]types.Reading, error) {
	if policy == DuplicatesAll {
		return readings, nil
	}
	seen := make(map[time.Time]struct{}, len(readings))
	out := make([]types.Reading, 0, len(readings))
	for _, r := range readings {
		if _, ok := seen[r.Date]; ok {
			if policy == DuplicatesError {
				return nil, fmt.Errorf("%w: %s has more than one reading on %s", ErrDuplicateDate, category, r.Date.Format(types.DateLayout))
			}
			continue
		}
		seen[r.Date] = struct{}{}
		out = append(out, r)
	}
	if dropped := len(readings) - len(out); dropped > 0 {
		log.Ctx(ctx).WarnContext(
			ctx,
			"dropped duplicate readings",
			slog.String("category", string(category)),
			slog.Int("dropped", dropped),
		)
	}
	return out, nil
}
