package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
)

// Configuration formats. The two formats share one key set.
const (
	FormatLegacy = "legacy"
	FormatLua    = "lua"
)

// luaConfigPattern matches an "annotate.config =" assignment at the start
// of a line, so a legacy comment mentioning the table is not mistaken for
// Lua.
var luaConfigPattern = regexp.MustCompile(`(?m)^\s*annotate\.config\s*=`)

// DetectFormat reports which format content is written in.
func DetectFormat(content []byte) string {
	if luaConfigPattern.Match(content) {
		return FormatLua
	}
	return FormatLegacy
}

// Parser reads configurations in either format and expands environment
// references in path values. A Parser owns a Lua runtime; Close it.
type Parser struct {
	legacy *LegacyParser
	lua    *LuaConfigParser
}

func NewParser() (*Parser, error) {
	lua, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}
	return &Parser{legacy: NewLegacyParser(), lua: lua}, nil
}

// Parse parses content in the format DetectFormat reports.
func (p *Parser) Parse(content []byte) (*Config, error) {
	return p.parseAs(content, DetectFormat(content))
}

func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return p.Parse(content)
}

func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}
	return p.Parse(content)
}

// ParseReader parses r in the named format without detection.
func (p *Parser) ParseReader(r io.Reader, format string) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return p.parseAs(content, format)
}

func (p *Parser) parseAs(content []byte, format string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch format {
	case FormatLua:
		cfg, err = p.lua.Parse(content)
	case FormatLegacy:
		cfg, err = p.legacy.Parse(content)
	default:
		return nil, fmt.Errorf("unknown format: %s (expected %q or %q)", format, FormatLua, FormatLegacy)
	}
	if err != nil {
		return nil, err
	}
	ExpandEnvConfig(cfg)
	return cfg, nil
}

// Close releases the Lua runtime.
func (p *Parser) Close() error {
	if p.lua != nil {
		return p.lua.Close()
	}
	return nil
}
