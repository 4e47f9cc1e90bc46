package analysis

import (
	"fmt"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the Analyzer based on flags.
func Configured() *Analyzer {
	startDate := lflag.String("start-date", "", "Start date for the graph in YYYY-MM-DD format")
	endDate := lflag.String("end-date", "", "End date for the graph in YYYY-MM-DD format")
	profilePath := lflag.String("plant-profile", "", "Optional YAML file overriding the target budget and GHI constants")

	a := New(DefaultProfile(), Range{})

	lflag.Do(func() {
		rng, err := ParseRange(*startDate, *endDate)
		if err != nil {
			panic(fmt.Sprintf("invalid date range: %v", err))
		}
		a.rng = rng
		if *profilePath != "" {
			p, err := LoadProfile(*profilePath)
			if err != nil {
				panic(fmt.Sprintf("plant profile: %v", err))
			}
			a.profile = p
		}
	})

	return a
}
