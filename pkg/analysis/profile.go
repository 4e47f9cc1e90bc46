package analysis

import (
	"fmt"
	"os"
	"time"

	"github.com/pvaudit/pvevolution/pkg/types"
	"gopkg.in/yaml.v3"
)

// Profile holds the contractual constants of a plant. Zero values in a loaded
// file fall back to DefaultProfile.
type Profile struct {
	// InitialBudget is the first-year target PR in percent.
	InitialBudget float64 `yaml:"initial_budget"`

	// AnnualDecay multiplies the budget at every yearly boundary.
	AnnualDecay float64 `yaml:"annual_decay"`

	// BoundaryMonth and BoundaryDay locate the yearly boundary.
	BoundaryMonth time.Month `yaml:"boundary_month"`
	BoundaryDay   int        `yaml:"boundary_day"`

	RollingWindow   int       `yaml:"rolling_window"`
	GHIThresholds   []float64 `yaml:"ghi_thresholds"`
	TrailingWindows []int     `yaml:"trailing_windows"`
}

// DefaultProfile returns a 73.9% budget decaying 0.8% every July 1st.
func DefaultProfile() Profile {
	return Profile{
		InitialBudget:   73.9,
		AnnualDecay:     0.992,
		BoundaryMonth:   time.July,
		BoundaryDay:     1,
		RollingWindow:   30,
		GHIThresholds:   append([]float64(nil), types.DefaultGHIThresholds[:]...),
		TrailingWindows: []int{7, 30, 60, 90, 365},
	}
}

// LoadProfile reads a YAML profile from path and fills unset fields with the
// defaults.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read plant profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse plant profile %s: %w", path, err)
	}
	p = mergeProfile(DefaultProfile(), p)
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid plant profile %s: %w", path, err)
	}
	return p, nil
}

func mergeProfile(base, override Profile) Profile {
	if override.InitialBudget != 0 {
		base.InitialBudget = override.InitialBudget
	}
	if override.AnnualDecay != 0 {
		base.AnnualDecay = override.AnnualDecay
	}
	if override.BoundaryMonth != 0 {
		base.BoundaryMonth = override.BoundaryMonth
	}
	if override.BoundaryDay != 0 {
		base.BoundaryDay = override.BoundaryDay
	}
	if override.RollingWindow != 0 {
		base.RollingWindow = override.RollingWindow
	}
	if len(override.GHIThresholds) != 0 {
		base.GHIThresholds = override.GHIThresholds
	}
	if len(override.TrailingWindows) != 0 {
		base.TrailingWindows = override.TrailingWindows
	}
	return base
}

// Validate checks the profile is usable.
func (p Profile) Validate() error {
	if p.InitialBudget <= 0 {
		return fmt.Errorf("initial_budget must be positive")
	}
	if p.AnnualDecay <= 0 || p.AnnualDecay > 1 {
		return fmt.Errorf("annual_decay must be in (0, 1]")
	}
	if p.BoundaryMonth < time.January || p.BoundaryMonth > time.December {
		return fmt.Errorf("boundary_month must be 1-12")
	}
	if p.BoundaryDay < 1 || p.BoundaryDay > 28 {
		return fmt.Errorf("boundary_day must be 1-28")
	}
	if p.RollingWindow < 1 {
		return fmt.Errorf("rolling_window must be positive")
	}
	if len(p.GHIThresholds) != len(types.GHIThresholds{}) {
		return fmt.Errorf("ghi_thresholds needs exactly %d values", len(types.GHIThresholds{}))
	}
	for i := 1; i < len(p.GHIThresholds); i++ {
		if p.GHIThresholds[i] <= p.GHIThresholds[i-1] {
			return fmt.Errorf("ghi_thresholds must be increasing")
		}
	}
	for _, w := range p.TrailingWindows {
		if w < 1 {
			return fmt.Errorf("trailing_windows must be positive")
		}
	}
	return nil
}

// Thresholds returns the GHI thresholds as the fixed size array used by
// types.GHIThresholds.
func (p Profile) Thresholds() types.GHIThresholds {
	var t types.GHIThresholds
	copy(t[:], p.GHIThresholds)
	return t
}
