package pypred

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armon/go-pypred/merge"
)

func TestLoadRefactorSettingsOverridesBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refactor.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth = 12\nmin_density = 0.2\n"), 0o644))

	base := merge.ShallowSettings()
	got, err := LoadRefactorSettings(path, base)
	require.NoError(t, err)

	require.Equal(t, 12, got.MaxDepth)
	require.Equal(t, 0.2, got.MinDensity)
	// Fields the file doesn't mention keep the base preset's values.
	require.Equal(t, base.MinSelect, got.MinSelect)
	require.Equal(t, base.CacheExpr, got.CacheExpr)
}

func TestLoadRefactorSettingsMissingFile(t *testing.T) {
	_, err := LoadRefactorSettings(filepath.Join(t.TempDir(), "absent.toml"), merge.ShallowSettings())
	require.Error(t, err)
}
