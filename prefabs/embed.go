package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Files on disk under ./prefabs shadow the embedded copies, so a running demo
// picks up edits without a rebuild.

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

func Load(name string) ([]byte, error) {
	return readShadowed(PrefabsFS, cleanPrefabPath(name))
}

// LoadScript loads a cue script by bare name ("bell.tengo") or by any path
// ending in scripts/.
func LoadScript(name string) ([]byte, error) {
	return readShadowed(ScriptsFS, cleanScriptPath(name))
}

// ScriptName maps a watched file path back to the name cue components use.
func ScriptName(p string) string {
	return path.Base(filepath.ToSlash(p))
}

func readShadowed(fsys embed.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join("prefabs", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return fsys.ReadFile(clean)
}

func cleanPrefabPath(p string) string {
	return trimPrefixes(filepath.ToSlash(p), "prefabs/")
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	return "scripts/" + trimPrefixes(filepath.ToSlash(p), "prefabs/", "scripts/")
}

func trimPrefixes(s string, prefixes ...string) string {
	for _, prefix := range prefixes {
		s = strings.TrimPrefix(s, prefix)
	}
	return s
}
