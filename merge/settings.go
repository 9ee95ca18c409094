package merge

import "github.com/armon/go-pypred/rewrite"

// RefactorSettings tunes the recursive refactor loop:
// MaxDepth caps how many branch-expansion levels the pivot search may
// recurse through, MinSelect is the minimum sibling count before a
// candidate is worth pivoting on, MaxOptPass/MinChange bound each
// peephole pass, and MinDensity is the contains-rewriter's selectivity
// floor. Per-stage toggles let callers skip a stage entirely, matching
// pypred's RefactorSettings per-field switches.
type RefactorSettings struct {
	MaxDepth   int
	MinSelect  int
	MaxOptPass int
	MinChange  int
	MinDensity float64

	StaticRewrite   bool
	Canonicalize    bool
	InitialOptimize bool
	Refactor        bool
	Compact         bool
	CacheExpr       bool
}

// MinimumSettings disables nearly everything: only the initial merge,
// static resolution, canonicalization and a single optimizer pass run;
// there is no refactoring, compaction or expression caching. Useful for
// debugging or very small sets where refactor overhead isn't worth paying.
func MinimumSettings() RefactorSettings {
	return RefactorSettings{
		MaxDepth: 0, MinSelect: 1_000_000, MaxOptPass: 1, MinChange: 1, MinDensity: 0.1,
		StaticRewrite: true, Canonicalize: true, InitialOptimize: true,
		Refactor: false, Compact: false, CacheExpr: false,
	}
}

// ShallowSettings allows a small amount of branch expansion.
func ShallowSettings() RefactorSettings {
	return RefactorSettings{
		MaxDepth: 4, MinSelect: 4, MaxOptPass: 8, MinChange: 1, MinDensity: 0.1,
		StaticRewrite: true, Canonicalize: true, InitialOptimize: true,
		Refactor: true, Compact: true, CacheExpr: true,
	}
}

// DeepSettings doubles ShallowSettings' branching ceiling.
func DeepSettings() RefactorSettings {
	s := ShallowSettings()
	s.MaxDepth *= 2
	s.MinSelect = 2
	s.MaxOptPass = 16
	s.MinDensity = 0.05
	return s
}

// ExtremeSettings doubles DeepSettings' branching ceiling again, trading
// compile time for the most aggressively pruned tree.
func ExtremeSettings() RefactorSettings {
	s := DeepSettings()
	s.MaxDepth *= 2
	s.MinSelect = 1
	s.MaxOptPass = 32
	s.MinDensity = 0.01
	return s
}

func (s RefactorSettings) containsSettings() rewrite.ContainsSettings {
	return rewrite.ContainsSettings{MinDensity: s.MinDensity}
}
