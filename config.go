package pypred

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/armon/go-pypred/merge"
)

// tomlRefactorSettings mirrors merge.RefactorSettings field-for-field so
// BurntSushi/toml can decode directly into exported, tagged fields without
// requiring merge.RefactorSettings itself to carry toml struct tags (it
// has no other reason to import an encoding package).
type tomlRefactorSettings struct {
	MaxDepth   int     `toml:"max_depth"`
	MinSelect  int     `toml:"min_select"`
	MaxOptPass int     `toml:"max_opt_pass"`
	MinChange  int     `toml:"min_change"`
	MinDensity float64 `toml:"min_density"`

	StaticRewrite   bool `toml:"static_rewrite"`
	Canonicalize    bool `toml:"canonicalize"`
	InitialOptimize bool `toml:"initial_optimize"`
	Refactor        bool `toml:"refactor"`
	Compact         bool `toml:"compact"`
	CacheExpr       bool `toml:"cache_expr"`
}

// LoadRefactorSettings reads a RefactorSettings from a TOML file, starting
// from base (typically one of merge.ShallowSettings() and friends) so a
// config file only needs to override the fields it cares about.
func LoadRefactorSettings(path string, base merge.RefactorSettings) (merge.RefactorSettings, error) {
	t := tomlRefactorSettings{
		MaxDepth: base.MaxDepth, MinSelect: base.MinSelect,
		MaxOptPass: base.MaxOptPass, MinChange: base.MinChange, MinDensity: base.MinDensity,
		StaticRewrite: base.StaticRewrite, Canonicalize: base.Canonicalize,
		InitialOptimize: base.InitialOptimize, Refactor: base.Refactor,
		Compact: base.Compact, CacheExpr: base.CacheExpr,
	}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return merge.RefactorSettings{}, errors.Wrapf(err, "loading refactor settings from %s", path)
	}
	return merge.RefactorSettings{
		MaxDepth: t.MaxDepth, MinSelect: t.MinSelect,
		MaxOptPass: t.MaxOptPass, MinChange: t.MinChange, MinDensity: t.MinDensity,
		StaticRewrite: t.StaticRewrite, Canonicalize: t.Canonicalize,
		InitialOptimize: t.InitialOptimize, Refactor: t.Refactor,
		Compact: t.Compact, CacheExpr: t.CacheExpr,
	}, nil
}
