// Package config loads and writes the two TOML files a guide repository
// carries under .codasai/: guide.toml (guide-wide settings) and rev.toml
// (the page checked out in the working tree, written by "page new").
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/codasai/codasai/internal/codasaierr"
)

const (
	// Dir is the reserved directory every guide reserves for its own
	// bookkeeping; the history reducer excludes anything under it.
	Dir = ".codasai"

	guideFileName = "guide.toml"
	revFileName   = "rev.toml"

	// DefaultPagesPath is used whenever guide.toml omits pages_path.
	DefaultPagesPath = "_pages/"
)

// GuideConfig is the parsed form of .codasai/guide.toml.
type GuideConfig struct {
	Title     string `toml:"title"`
	PagesPath string `toml:"pages_path"`
}

// RevConfig is the parsed form of .codasai/rev.toml: which page Markdown
// file the current revision's working tree has checked out.
type RevConfig struct {
	PagePath string `toml:"page_path"`
}

// DefaultGuideConfig returns the guide.toml contents "init" writes for a
// freshly created guide.
func DefaultGuideConfig(title string) GuideConfig {
	return GuideConfig{Title: title, PagesPath: DefaultPagesPath}
}

// ParseGuideConfig decodes raw guide.toml bytes, filling in PagesPath's
// default when the file omits it.
func ParseGuideConfig(data []byte) (GuideConfig, error) {
	var cfg GuideConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return GuideConfig{}, codasaierr.Wrap(codasaierr.ConfigRead, guideFileName, err)
	}
	if cfg.PagesPath == "" {
		cfg.PagesPath = DefaultPagesPath
	}
	return cfg, nil
}

// ParseRevConfig decodes raw rev.toml bytes.
func ParseRevConfig(data []byte) (RevConfig, error) {
	var cfg RevConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return RevConfig{}, codasaierr.Wrap(codasaierr.ConfigRead, revFileName, err)
	}
	return cfg, nil
}

// LoadGuideConfig reads and parses .codasai/guide.toml under root.
func LoadGuideConfig(root string) (GuideConfig, error) {
	path := filepath.Join(root, Dir, guideFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return GuideConfig{}, codasaierr.Wrap(codasaierr.ConfigRead, path, err)
	}
	return ParseGuideConfig(data)
}

// LoadRevConfig reads and parses .codasai/rev.toml under root.
func LoadRevConfig(root string) (RevConfig, error) {
	path := filepath.Join(root, Dir, revFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return RevConfig{}, codasaierr.Wrap(codasaierr.ConfigRead, path, err)
	}
	return ParseRevConfig(data)
}

// WriteGuideConfig marshals cfg and writes it to .codasai/guide.toml under
// root, creating the .codasai directory if necessary.
func WriteGuideConfig(root string, cfg GuideConfig) error {
	return write(root, guideFileName, cfg)
}

// WriteRevConfig marshals cfg and writes it to .codasai/rev.toml under root.
func WriteRevConfig(root string, cfg RevConfig) error {
	return write(root, revFileName, cfg)
}

func write(root, name string, v any) error {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return codasaierr.Wrap(codasaierr.ConfigRead, dir, err)
	}

	data, err := toml.Marshal(v)
	if err != nil {
		return codasaierr.Wrap(codasaierr.ConfigRead, name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return codasaierr.Wrap(codasaierr.ConfigRead, path, err)
	}
	return nil
}
