package assets

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:generate go run ../cmd/tonegen -out sfx

//go:embed sfx/*.wav
var assetsFS embed.FS

// LoadFile loads an asset by assets-relative path. A copy under ./assets on
// disk wins over the embedded one so clips can be swapped while running.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if data, err := os.ReadFile(filepath.Join("assets", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return assetsFS.ReadFile(clean)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
