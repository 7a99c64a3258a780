package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Parser reads overlay configuration files. Every successful parse applies
// environment expansion to the string values before returning.
type Parser struct {
	luaParser *LuaConfigParser
}

// NewParser creates a new Parser.
func NewParser() (*Parser, error) {
	luaParser, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}
	return &Parser{luaParser: luaParser}, nil
}

// ParseFile reads and parses a configuration file.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return p.Parse(content)
}

// Parse parses configuration content.
func (p *Parser) Parse(content []byte) (*Config, error) {
	cfg, err := p.luaParser.Parse(content)
	if err != nil {
		return nil, err
	}
	ExpandEnvConfig(cfg)
	return cfg, nil
}

// ParseFromFS reads and parses a configuration file from a filesystem,
// typically an embed.FS.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}
	return p.Parse(content)
}

// ParseReader parses configuration from an io.Reader.
func (p *Parser) ParseReader(r io.Reader) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return p.Parse(content)
}

// SetLimits overrides the Lua resource limits. Zero keeps the default.
func (p *Parser) SetLimits(cpu, memory uint64) {
	p.luaParser.SetLimits(cpu, memory)
}

// Close releases resources associated with the parser.
func (p *Parser) Close() error {
	if p.luaParser != nil {
		return p.luaParser.Close()
	}
	return nil
}
