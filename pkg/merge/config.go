package merge

import (
	"fmt"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the Merger based on flags.
func Configured() *Merger {
	dataDir := lflag.RequiredString("data-directory", "Path to the data directory containing 'pr' and 'ghi' subdirectories")
	duplicates := lflag.String("duplicates", string(DuplicatesFirst), "What to do with repeated dates within a category (first, all, error)")

	m := New("", DuplicatesFirst)

	lflag.Do(func() {
		policy, err := ParseDuplicatePolicy(*duplicates)
		if err != nil {
			panic(fmt.Sprintf("invalid duplicates flag: %v", err))
		}
		m.dataDir = *dataDir
		m.policy = policy
	})

	return m
}
