package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the parsed statewire.yaml. All fields have working defaults; a
// missing or malformed file never aborts a build.
type Config struct {
	// Prefix is the naming convention marking managed variables.
	Prefix string `yaml:"prefix"`

	// Debug enables debug diagnostics on stdout.
	Debug bool `yaml:"debug"`

	// SourceDir is the root scanned for component files.
	SourceDir string `yaml:"source_dir"`

	// OutDir receives transformed files, mirroring SourceDir's layout.
	OutDir string `yaml:"out_dir"`

	// ContextModule is the path of the generated shared-context module,
	// relative to the project root. It is both an emitter output and the
	// import target injected into transformed files.
	ContextModule string `yaml:"context_module"`

	// Cache is the SQLite build-cache path. Empty disables caching.
	Cache string `yaml:"cache"`

	// LogFile enables a rotating debug log when set.
	LogFile string `yaml:"log_file"`

	// Exclude lists extra directory names to skip while walking.
	Exclude []string `yaml:"exclude"`

	// Root is the project root directory; set by the loader, not the file.
	Root string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Prefix:        DefaultPrefix,
		SourceDir:     "src",
		OutDir:        "build",
		ContextModule: filepath.Join("src", SharedModuleBase),
		Root:          ".",
	}
}

// Load reads statewire.yaml from path. The returned error is advisory: the
// Config is always usable, falling back to defaults on any failure.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Root = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		// Partial unmarshal may have clobbered fields; start over.
		fresh := Default()
		fresh.Root = cfg.Root
		return fresh, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Prefix == "" {
		c.Prefix = d.Prefix
	}
	if c.SourceDir == "" {
		c.SourceDir = d.SourceDir
	}
	if c.OutDir == "" {
		c.OutDir = d.OutDir
	}
	if c.ContextModule == "" {
		c.ContextModule = filepath.Join(c.SourceDir, SharedModuleBase)
	}
	if c.Root == "" {
		c.Root = "."
	}
}

// IsManagedName is the naming-convention predicate used identically by every
// pass: a name is managed when it carries the configured prefix and has a
// non-empty remainder.
func (c *Config) IsManagedName(name string) bool {
	return strings.HasPrefix(name, c.Prefix) && len(name) > len(c.Prefix)
}

// StripPrefix returns the state-object key for a managed name.
func (c *Config) StripPrefix(name string) string {
	return strings.TrimPrefix(name, c.Prefix)
}

// ShouldProcess is the file exclusion predicate: source files only, never
// dependency or output directories, never the generated shared module.
func (c *Config) ShouldProcess(path string) bool {
	if !hasSourceExt(path) {
		return false
	}
	abs := path
	if a, err := filepath.Abs(path); err == nil {
		abs = a
	}
	if ctxAbs, err := filepath.Abs(filepath.Join(c.Root, c.ContextModule)); err == nil && abs == ctxAbs {
		return false
	}
	skip := append([]string{"node_modules", ".git", filepath.Base(c.OutDir)}, c.Exclude...)
	for _, part := range strings.Split(filepath.ToSlash(abs), "/") {
		for _, s := range skip {
			if s != "" && part == s {
				return false
			}
		}
	}
	return true
}

func hasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
