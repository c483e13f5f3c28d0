package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Pins is the content of a pin file. Nil booleans were not set.
type Pins struct {
	Version      string
	OutDir       string
	CheckVersion *bool
	UseProxy     *bool
	AddToken     *bool
}

// Apply returns a copy of cfg with the pins layered on top. The environment
// keeps precedence for OutDir; pin toggles can only disable behavior the
// environment enabled.
func (p *Pins) Apply(cfg *Config) *Config {
	out := *cfg

	if out.OutDir == "" {
		out.OutDir = p.OutDir
	}
	if p.CheckVersion != nil && !*p.CheckVersion {
		out.CheckVersion = false
	}
	if p.UseProxy != nil && !*p.UseProxy {
		out.UseProxy = false
	}
	if p.AddToken != nil && !*p.AddToken {
		out.Token = ""
	}

	return &out
}

// Parser evaluates pin files with platform detection.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new pin file parser with the given platform detector.
// A nil detector leaves the platform global undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: NoopLogger()}
}

// WithLogger sets the logger used for credential warnings.
func (p *Parser) WithLogger(l Logger) *Parser {
	p.logger = OrNoop(l)
	return p
}

// ParseFile reads and evaluates a pin file. A relative out_dir is resolved
// against the directory containing the file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Pins, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pin file: %w", err)
	}

	content := string(data)
	if findings := DetectSensitiveData(content); len(findings) > 0 {
		p.logger.Warn(FormatSensitiveDataWarning(findings), "file", path)
	}

	pins, err := p.ParseString(ctx, content)
	if err != nil {
		return nil, err
	}

	if pins.OutDir != "" && !filepath.IsAbs(pins.OutDir) {
		pins.OutDir = filepath.Join(filepath.Dir(path), pins.OutDir)
	}

	return pins, nil
}

// ParseString evaluates pin file code held in memory.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Pins, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractPins(L)
}

// ParseError represents a pin file error with a friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractPins reads the global "protoc" table.
func extractPins(L *lua.LState) (*Pins, error) {
	global := L.GetGlobal(luaGlobalProtoc)
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'protoc' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	pins := &Pins{}
	var err error

	if pins.Version, err = stringField(table, luaFieldVersion); err != nil {
		return nil, err
	}
	if pins.OutDir, err = stringField(table, luaFieldOutDir); err != nil {
		return nil, err
	}
	if pins.CheckVersion, err = boolField(table, luaFieldCheckVer); err != nil {
		return nil, err
	}
	if pins.UseProxy, err = boolField(table, luaFieldUseProxy); err != nil {
		return nil, err
	}
	if pins.AddToken, err = boolField(table, luaFieldAddToken); err != nil {
		return nil, err
	}

	if strings.TrimSpace(pins.Version) == "" {
		return nil, &ParseError{
			Message: "pin validation failed",
			Detail:  "protoc.version is required",
		}
	}
	pins.Version = strings.TrimPrefix(strings.TrimSpace(pins.Version), "v")

	return pins, nil
}

func stringField(table *lua.LTable, name string) (string, error) {
	switch v := table.RawGetString(name).(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	default:
		return "", &ParseError{
			Message: "pin validation failed",
			Detail:  fmt.Sprintf("protoc.%s must be a string, got %s", name, v.Type()),
		}
	}
}

func boolField(table *lua.LTable, name string) (*bool, error) {
	switch v := table.RawGetString(name).(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		b := bool(v)
		return &b, nil
	default:
		return nil, &ParseError{
			Message: "pin validation failed",
			Detail:  fmt.Sprintf("protoc.%s must be a boolean, got %s", name, v.Type()),
		}
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	if parseErr, ok := err.(*ParseError); ok {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
