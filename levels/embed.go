// Package levels embeds the built-in level specs and loads them by name.
package levels

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"embed"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/lavarunner/config"
)

//go:embed *.yaml
var levelsFS embed.FS

// Names lists the built-in level names in sorted order.
func Names() []string {
	entries, err := levelsFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Load reads a built-in level spec by name (basename, .yaml optional).
func Load(name string) (*config.LevelSpec, error) {
	name = strings.TrimSuffix(name, ".yaml")
	data, err := fs.ReadFile(levelsFS, name+".yaml")
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	var spec config.LevelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if spec.Name == "" {
		spec.Name = name
	}
	if spec.Mode == "" {
		spec.Mode = config.ModeDefault
	}
	if !spec.Mode.Valid() {
		return nil, fmt.Errorf("levels: %s: unknown mode %q", name, spec.Mode)
	}
	return &spec, nil
}
