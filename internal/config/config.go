// Package config loads and saves the user's small set of git-shadow
// preferences: whether to color terminal output, an optional external merge
// tool to suggest on conflict, and how aggressively post-merge should react
// to baseline drift.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the top-level git-shadow user configuration.
type Config struct {
	UI     UIConfig     `toml:"ui"`
	Merge  MergeConfig  `toml:"merge"`
	Remote RemoteConfig `toml:"remote"`
}

// UIConfig controls terminal output styling.
type UIConfig struct {
	// Color enables ANSI styling. Defaults to true when unset.
	Color *bool `toml:"color,omitempty"`
}

// IsColorEnabled reports whether output should be styled. Treats nil
// (missing from config) as true.
func (u UIConfig) IsColorEnabled() bool {
	if u.Color == nil {
		return true
	}
	return *u.Color
}

// MergeConfig names an external merge tool to suggest when a rebase or
// resume produces conflict markers that `git merge-file` couldn't resolve.
type MergeConfig struct {
	Tool string `toml:"tool,omitempty"`
}

// RemotePolicy controls how `git-shadow hook post-merge` reacts when a pull
// or merge leaves a registered overlay's baseline stale.
type RemotePolicy string

const (
	// RemotePolicyWarn prints a warning and leaves rebasing to the user.
	RemotePolicyWarn RemotePolicy = "warn"
	// RemotePolicyAutoRebase re-baselines drifted overlays automatically,
	// 3-way merging shadow content against the new HEAD.
	RemotePolicyAutoRebase RemotePolicy = "auto-rebase"
	// RemotePolicySilent performs no drift check at all.
	RemotePolicySilent RemotePolicy = "silent"
)

// RemoteConfig controls post-merge baseline drift handling.
type RemoteConfig struct {
	PolicyName string `toml:"policy,omitempty"`
}

// Policy returns the configured RemotePolicy, defaulting to warn.
func (r RemoteConfig) Policy() RemotePolicy {
	switch RemotePolicy(r.PolicyName) {
	case RemotePolicyAutoRebase:
		return RemotePolicyAutoRebase
	case RemotePolicySilent:
		return RemotePolicySilent
	default:
		return RemotePolicyWarn
	}
}

// Paths are the resolved, XDG-compliant filesystem locations git-shadow
// reads and writes ambient (non-per-repo) state from.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	shadowConfig := filepath.Join(configDir, "git-shadow")
	shadowData := filepath.Join(dataDir, "git-shadow")

	return Paths{
		ConfigDir:  shadowConfig,
		DataDir:    shadowData,
		CacheDir:   filepath.Join(cacheDir, "git-shadow"),
		StateDir:   filepath.Join(stateDir, "git-shadow"),
		ConfigFile: filepath.Join(shadowConfig, "config.toml"),
		DBFile:     filepath.Join(shadowData, "events.db"),
	}
}

// EnsureDirs creates every directory the paths reference.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := &Config{}

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized reports whether a config file has been written.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

func defaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{PolicyName: string(RemotePolicyWarn)},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
