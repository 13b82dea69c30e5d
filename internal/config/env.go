// This file implements environment variable expansion for configuration values.

package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// envVarPattern matches environment variable references in configuration values.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// Unset variables without defaults are replaced with the empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") {
			inner := match[2 : len(match)-1]
			if name, def, ok := strings.Cut(inner, ":-"); ok {
				if val := os.Getenv(name); val != "" {
					return val
				}
				return def
			}
			return os.Getenv(inner)
		}
		return os.Getenv(match[1:])
	})
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// The path is returned unchanged when the home directory is unknown.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// ExpandEnvConfig expands environment references in the window title and
// the export directory. The export directory also gets "~" expansion.
func ExpandEnvConfig(cfg *Config) {
	ExpandEnvConfigWithOptions(cfg)
}

// EnvConfigOption is a functional option for environment variable expansion.
type EnvConfigOption func(*envConfigOptions)

type envConfigOptions struct {
	expandTitle  bool
	expandExport bool
}

// WithExpandTitle controls whether the window title is expanded.
func WithExpandTitle(expand bool) EnvConfigOption {
	return func(o *envConfigOptions) {
		o.expandTitle = expand
	}
}

// WithExpandExportDir controls whether the export directory is expanded.
func WithExpandExportDir(expand bool) EnvConfigOption {
	return func(o *envConfigOptions) {
		o.expandExport = expand
	}
}

// ExpandEnvConfigWithOptions expands environment variables with specific options.
func ExpandEnvConfigWithOptions(cfg *Config, opts ...EnvConfigOption) {
	if cfg == nil {
		return
	}

	options := &envConfigOptions{expandTitle: true, expandExport: true}
	for _, opt := range opts {
		opt(options)
	}

	if options.expandTitle {
		cfg.Window.Title = ExpandEnv(cfg.Window.Title)
	}
	if options.expandExport {
		cfg.Export.Dir = ExpandHome(ExpandEnv(cfg.Export.Dir))
	}
}
