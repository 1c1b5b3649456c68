package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/ofertas-service/internal/browse"
	"github.com/Cheertaboi/ofertas-service/internal/models"
	"github.com/Cheertaboi/ofertas-service/internal/prefs"
)

func TestOpenPrefs_UsesUserConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	store, err := openPrefs()
	require.NoError(t, err)

	state := browse.New()
	state.SetViewMode(browse.List)
	require.NoError(t, state.Save(store))

	path, err := prefs.DefaultPath()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := openPrefs()
	require.NoError(t, err)
	restored := browse.New()
	restored.Load(reopened)
	assert.Equal(t, browse.List, restored.ViewMode)
}

func TestSortFieldHelp_NamesAcceptedFields(t *testing.T) {
	fields := strings.Split(sortFieldHelp, " or ")
	require.Len(t, fields, 2)
	for _, f := range fields {
		o := models.QueryOptions{SortField: models.SortField(f)}.WithDefaults()
		assert.NoError(t, models.ValidateQuery(models.Filters{}, o), f)
	}
}
