package config

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.txt
var presetFS embed.FS

// GetPreset returns the scenario text of a built-in preset.
func GetPreset(name string) (string, bool) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".txt"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	entries, err := fs.ReadDir(presetFS, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names
}
