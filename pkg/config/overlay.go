package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Overlay holds deployment-site additions to the built-in normalization
// tables: extra company suffixes to strip and extra per-language stopwords,
// for sanctions lists that carry entity naming conventions the built-in
// tables don't cover. Grounded on the teacher's YAML-config pattern
// (pkg/ml/scorer_config.go's ScorerConfig/LoadScorerConfig).
//
// An Overlay is carried on its owning *Config (Config.Overlay) rather than
// a package-level global: Load may build multiple independently-configured
// Configs (e.g. one per tuning profile, each with its own overlay file) in
// the same process, and "config is effectively immutable post-startup"
// (spec.md §5) only holds per-instance.
type Overlay struct {
	CompanySuffixes   []string            `yaml:"company_suffixes"`
	StopwordOverrides map[string][]string `yaml:"stopword_overrides"`
}

// LoadOverlay reads and parses a YAML overlay file. An empty path is not an
// error: it returns an empty Overlay so callers can unconditionally assign
// the result to Config.Overlay.
func LoadOverlay(path string) (*Overlay, error) {
	if path == "" {
		return &Overlay{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newConfigError("overlay", "reading "+path+": "+err.Error())
	}
	var ov Overlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, newConfigError("overlay", "parsing "+path+": "+err.Error())
	}
	return &ov, nil
}
