package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettingsFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileProviderLoadsAndFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeSettingsFile(t, path, `
settings:
  gatehouse.organization_units.max_membership_count: "10"
tenants:
  7:
    gatehouse.organization_units.max_membership_count: "3"
`)

	p, err := NewFileProvider(path, nil)
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()

	got, err := p.Get(ctx, "gatehouse.organization_units.max_membership_count")
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	got, err = p.GetForTenant(ctx, 7, "gatehouse.organization_units.max_membership_count")
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	got, err = p.GetForTenant(ctx, 8, "gatehouse.organization_units.max_membership_count")
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	_, err = p.Get(ctx, "undefined")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestFileProviderHotReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeSettingsFile(t, path, "settings:\n  key: \"before\"\n")

	p, err := NewFileProvider(path, nil)
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()

	got, err := p.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, "before", got)

	writeSettingsFile(t, path, "settings:\n  key: \"after\"\n")

	require.Eventually(t, func() bool {
		v, err := p.Get(ctx, "key")
		return err == nil && v == "after"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFileProviderKeepsValuesOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	writeSettingsFile(t, path, "settings:\n  key: \"good\"\n")

	p, err := NewFileProvider(path, nil)
	require.NoError(t, err)
	defer p.Close()

	writeSettingsFile(t, path, "settings: [not: a: map")
	assert.Error(t, p.Reload())

	got, err := p.Get(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, "good", got)
}

func TestFileProviderMissingFile(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
