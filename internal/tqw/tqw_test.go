package tqw

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_MissingFileYieldsDefaults(t *testing.T) {
	prefs, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), prefs)
}

func Test_SaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	want := Preferences{ConfigPath: "mine.json", Prompt: "q> ", HistoryFile: "hist.txt"}

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
