// This file implements the legacy "key value" configuration parser.

package config

import (
	"bufio"
	"fmt"
	"strings"
)

// LegacyParser parses legacy line based configuration files.
// Each non-empty line holds one "key value" directive; lines starting with
// # are comments. A key without a value is a boolean flag set to true.
type LegacyParser struct{}

// NewLegacyParser creates a new LegacyParser instance.
func NewLegacyParser() *LegacyParser {
	return &LegacyParser{}
}

// Parse parses legacy configuration content.
// It returns a Config with parsed values or an error naming the failing line.
func (p *LegacyParser) Parse(content []byte) (*Config, error) {
	cfg := DefaultConfig()
	scanner := bufio.NewScanner(strings.NewReader(string(content)))

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := p.parseDirective(&cfg, trimmed, lineNum); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading configuration: %w", err)
	}
	return &cfg, nil
}

// parseDirective parses a single configuration directive line.
// Format: "key value" or "key" (for boolean flags).
func (p *LegacyParser) parseDirective(cfg *Config, line string, lineNum int) error {
	key, value, found := strings.Cut(line, " ")
	if !found {
		key, value, found = strings.Cut(line, "\t")
	}
	value = strings.TrimSpace(value)
	if !found || value == "" {
		value = "true"
	}
	if err := apply(cfg, key, value); err != nil {
		return fmt.Errorf("line %d: %w", lineNum, err)
	}
	return nil
}
