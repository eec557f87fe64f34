// Package config loads reactive.yaml or reactive.toml for the reactive CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/reactive/internal/logging"
)

const (
	// YAMLFile is the YAML configuration file name.
	YAMLFile = "reactive.yaml"
	// TOMLFile is the TOML configuration file name.
	TOMLFile = "reactive.toml"
)

// Config represents the optional reactive.yaml or reactive.toml configuration.
type Config struct {
	App        AppConfig        `yaml:"app" toml:"app"`
	Run        RunConfig        `yaml:"run" toml:"run"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	Attributes AttributesConfig `yaml:"attributes" toml:"attributes"`
	Hosts      []HostConfig     `yaml:"hosts" toml:"hosts"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty" toml:"name"`
}

// RunConfig controls how long the loop runs.
type RunConfig struct {
	// Duration is a time.ParseDuration string. Empty runs until interrupted.
	Duration string `yaml:"duration,omitempty" toml:"duration"`
}

// LogConfig contains logger settings. Environment variables override them.
type LogConfig struct {
	Level   string `yaml:"level,omitempty" toml:"level"`
	Verbose bool   `yaml:"verbose,omitempty" toml:"verbose"`
}

// AttributesConfig selects where host attributes live.
type AttributesConfig struct {
	// Dir holds one YAML attribute file per host. Empty keeps attributes in memory.
	Dir string `yaml:"dir,omitempty" toml:"dir"`
	// Watch applies edits made to the attribute files while running.
	Watch bool `yaml:"watch,omitempty" toml:"watch"`
}

// HostConfig declares one host to mount.
type HostConfig struct {
	Tag        string            `yaml:"tag" toml:"tag"`
	ID         string            `yaml:"id,omitempty" toml:"id"`
	Attributes map[string]string `yaml:"attributes,omitempty" toml:"attributes"`
	Connected  *bool             `yaml:"connected,omitempty" toml:"connected"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root        string
	ModulePath  string
	AppName     string
	Duration    time.Duration
	LogLevel    zerolog.Level
	LogLevelSet bool
	Verbose     bool
	AttrDir     string
	Watch       bool
	Hosts       []Host
}

// Host is a resolved host declaration.
type Host struct {
	Tag        string
	ID         string
	Attributes map[string]string
	Connected  bool
}

// LoadOptional reads reactive.yaml or reactive.toml if present. Having
// both is an error.
func LoadOptional(dir string) (*Config, error) {
	yamlPath := filepath.Join(dir, YAMLFile)
	tomlPath := filepath.Join(dir, TOMLFile)
	hasYAML := exists(yamlPath)
	hasTOML := exists(tomlPath)

	switch {
	case hasYAML && hasTOML:
		return nil, fmt.Errorf("both %s and %s found in %s", YAMLFile, TOMLFile, dir)
	case hasYAML:
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", YAMLFile, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", YAMLFile, err)
		}
		return &cfg, nil
	case hasTOML:
		var cfg Config
		if _, err := toml.DecodeFile(tomlPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", TOMLFile, err)
		}
		return &cfg, nil
	}
	return &Config{}, nil
}

// Resolve loads the configuration (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	res := &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		LogLevel:   zerolog.InfoLevel,
		Verbose:    cfg.Log.Verbose,
		Watch:      cfg.Attributes.Watch,
	}

	if raw := strings.TrimSpace(cfg.Run.Duration); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse run.duration: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("run.duration must not be negative (got %s)", raw)
		}
		res.Duration = d
	}

	if raw := strings.TrimSpace(cfg.Log.Level); raw != "" {
		lvl, ok := logging.ParseLevel(raw)
		if !ok {
			return nil, fmt.Errorf("unknown log.level %q", raw)
		}
		res.LogLevel = lvl
		res.LogLevelSet = true
	}

	if d := strings.TrimSpace(cfg.Attributes.Dir); d != "" {
		if !filepath.IsAbs(d) {
			d = filepath.Join(dir, d)
		}
		res.AttrDir = d
	}
	if res.Watch && res.AttrDir == "" {
		return nil, fmt.Errorf("attributes.watch requires attributes.dir")
	}

	seen := make(map[string]bool)
	for i, h := range cfg.Hosts {
		tag := strings.TrimSpace(h.Tag)
		if tag == "" {
			return nil, fmt.Errorf("hosts[%d]: tag is required", i)
		}
		id := strings.TrimSpace(h.ID)
		if id == "" {
			id = fmt.Sprintf("%s-%d", tag, i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("hosts[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
		connected := true
		if h.Connected != nil {
			connected = *h.Connected
		}
		res.Hosts = append(res.Hosts, Host{
			Tag:        tag,
			ID:         id,
			Attributes: h.Attributes,
			Connected:  connected,
		})
	}

	return res, nil
}

// FindProjectRoot walks up from the current directory to the first
// directory holding a configuration file or go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{YAMLFile, TOMLFile, "go.mod"} {
			if exists(filepath.Join(dir, name)) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s, %s or go.mod found", YAMLFile, TOMLFile)
		}
		dir = parent
	}
}

// modulePath returns the module path from go.mod in dir, or "" when dir
// is not a module root.
func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		modName, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "reactive_app"
	}
	return base
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
