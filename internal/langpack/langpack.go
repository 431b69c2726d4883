// Package langpack discovers installed dictionary packs: a language
// document's XML rule file plus an optional pack.toml sidecar manifest
// describing it. -L selects one by name; --dict-glob discovers candidates
// by glob pattern against the pack.toml manifests on disk, the way the
// batch CLI and daemon locate a language document without a hardcoded path.
//
// Grounded on internal/indexing/watcher.go's doublestar glob matching
// (teacher) for pack discovery, and go-toml/v2 for the manifest format
// (no ecosystem TOML use in the teacher itself, so this is new wiring
// rather than an adapted file).
package langpack

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
)

// Manifest is the decoded pack.toml sidecar next to a dictionary XML file.
type Manifest struct {
	Name           string `toml:"name"`
	Version        string `toml:"version"`
	Author         string `toml:"author"`
	DictionaryPath string `toml:"dictionary_path"`
}

// Pack pairs a manifest with the directory it was found in, resolving
// DictionaryPath to an absolute path.
type Pack struct {
	Manifest Manifest
	Dir      string
}

// DictionaryPath returns the absolute path to this pack's language document.
func (p Pack) DictionaryPath() string {
	if filepath.IsAbs(p.Manifest.DictionaryPath) {
		return p.Manifest.DictionaryPath
	}
	return filepath.Join(p.Dir, p.Manifest.DictionaryPath)
}

// LoadManifest parses a single pack.toml file.
func LoadManifest(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("langpack: read %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Pack{}, fmt.Errorf("langpack: parse %s: %w", path, err)
	}
	if m.DictionaryPath == "" {
		return Pack{}, fmt.Errorf("langpack: %s missing dictionary_path", path)
	}
	return Pack{Manifest: m, Dir: filepath.Dir(path)}, nil
}

// Discover finds every pack.toml manifest matching the glob pattern
// (e.g. "packs/**/pack.toml"), used by --dict-glob.
func Discover(pattern string) ([]Pack, error) {
	matches, err := doublestar.Glob(os.DirFS("."), pattern)
	if err != nil {
		return nil, fmt.Errorf("langpack: glob %s: %w", pattern, err)
	}

	packs := make([]Pack, 0, len(matches))
	for _, m := range matches {
		pack, err := LoadManifest(m)
		if err != nil {
			continue
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

// Find returns the pack named name among those discovered by pattern.
func Find(pattern, name string) (Pack, error) {
	packs, err := Discover(pattern)
	if err != nil {
		return Pack{}, err
	}
	for _, p := range packs {
		if p.Manifest.Name == name {
			return p, nil
		}
	}
	return Pack{}, fmt.Errorf("langpack: no pack named %q matched %s", name, pattern)
}
