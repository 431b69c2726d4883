package langpack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir string) {
	t.Helper()
	content := "name = \"en\"\nversion = \"1.0.0\"\nauthor = \"test\"\ndictionary_path = \"en.xml\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.toml"), []byte(content), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.xml"), []byte("<dictionary></dictionary>"), 0644))
}

func TestLoadManifestResolvesDictionaryPath(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir)

	pack, err := LoadManifest(filepath.Join(dir, "pack.toml"))
	require.NoError(t, err)
	assert.Equal(t, "en", pack.Manifest.Name)
	assert.Equal(t, filepath.Join(dir, "en.xml"), pack.DictionaryPath())
}

func TestLoadManifestRejectsMissingDictionaryPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.toml"), []byte("name = \"en\"\n"), 0644))

	_, err := LoadManifest(filepath.Join(dir, "pack.toml"))
	assert.Error(t, err)
}

func TestDiscoverAndFind(t *testing.T) {
	dir := t.TempDir()
	packDir := filepath.Join(dir, "packs", "en")
	require.NoError(t, os.MkdirAll(packDir, 0755))
	writeManifest(t, packDir)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	found, err := Find("packs/**/pack.toml", "en")
	require.NoError(t, err)
	assert.Equal(t, "en", found.Manifest.Name)
}
