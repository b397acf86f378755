package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/doxide/internal/lens"
)

func TestLens_Table(t *testing.T) {
	path := writeSource(t, "mod.py", pythonSource)
	common, out := newCommon(t, nil)

	lenses, err := Lens(context.Background(), LensParams{Common: common, File: path})
	require.NoError(t, err)
	require.Len(t, lenses, 2)

	table := out.String()
	assert.Contains(t, table, "LINE")
	assert.Contains(t, table, "add_one")
	assert.Contains(t, table, "documented (documented)")
	assert.Contains(t, table, lens.GenerateCommand)
}

func TestLens_JSON(t *testing.T) {
	path := writeSource(t, "mod.py", pythonSource)
	common, out := newCommon(t, nil)

	_, err := Lens(context.Background(), LensParams{Common: common, File: path, JSON: true})
	require.NoError(t, err)

	var decoded []struct {
		Symbol  string `json:"symbol"`
		Command struct {
			Title     string `json:"title"`
			Command   string `json:"command"`
			Arguments []any  `json:"arguments"`
		} `json:"command"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "add_one", decoded[0].Symbol)
	assert.Equal(t, "Generate", decoded[0].Command.Title)
	require.Len(t, decoded[0].Command.Arguments, 2)
	assert.Equal(t, "def add_one(x):\n    return x + 1", decoded[0].Command.Arguments[0])
	assert.Equal(t, float64(0), decoded[0].Command.Arguments[1])
}

func TestLens_PendingAlternatives(t *testing.T) {
	path, common := generateAlternatives(t)

	lenses, err := Lens(context.Background(), LensParams{Common: common, File: path})
	require.NoError(t, err)
	require.Len(t, lenses, 5)

	var kinds []lens.Kind
	for _, l := range lenses[2:] {
		kinds = append(kinds, l.Kind)
		assert.Equal(t, 0, l.Range.StartLine)
	}
	assert.Equal(t, []lens.Kind{lens.Previous, lens.Next, lens.Accept}, kinds)
}

func TestLens_StaleAlternativesHidden(t *testing.T) {
	path, common := generateAlternatives(t)
	require.NoError(t, os.WriteFile(path, []byte("# header\n"+pythonSource), 0644))

	lenses, err := Lens(context.Background(), LensParams{Common: common, File: path})
	require.NoError(t, err)
	assert.Len(t, lenses, 2)
}

func TestLens_Disabled(t *testing.T) {
	path := writeSource(t, "mod.py", pythonSource)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".doxide.yml"), []byte("codeLens:\n  enabled: false\n"), 0644))
	common, out := newCommon(t, nil)

	_, err := Lens(context.Background(), LensParams{Common: common, File: path, JSON: true})
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out.String())
}
