package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/codemod/internal/iconmod"
)

// Tool name constants.
const (
	ToolNameIconUpdate = "icon_update"
	ToolNameIconScan   = "icon_scan"
)

const (
	// MaxSourceInputBytes is the maximum allowed size for inline source (1 MB).
	MaxSourceInputBytes = 1 << 20

	// defaultPath picks the TSX grammar when no path is given.
	defaultPath = "input.tsx"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptySource indicates the source parameter is empty.
	ErrEmptySource = errors.New("source parameter is required and must not be empty")
	// ErrSourceTooLarge indicates the source input exceeds the size limit.
	ErrSourceTooLarge = errors.New("source input exceeds maximum size")
)

// IconUpdateInput is the input schema for the icon_update tool.
type IconUpdateInput struct {
	Source      string            `json:"source"                  jsonschema:"full source text of the file"`
	Path        string            `json:"path,omitempty"          jsonschema:"file name used to pick the grammar (default input.tsx)"`
	Grammar     string            `json:"grammar,omitempty"       jsonschema:"grammar overriding the path: tsx, typescript or javascript"`
	IconMap     map[string]string `json:"icon_map,omitempty"      jsonschema:"legacy icon name to exported identifier, merged over the server map"`
	IconMapPath string            `json:"icon_map_path,omitempty" jsonschema:"path to a JSON or YAML icon map file, merged over icon_map"`
}

// IconScanInput is the input schema for the icon_scan tool.
type IconScanInput struct {
	Source  string            `json:"source"             jsonschema:"full source text of the file"`
	Path    string            `json:"path,omitempty"     jsonschema:"file name used to pick the grammar (default input.tsx)"`
	Grammar string            `json:"grammar,omitempty"  jsonschema:"grammar overriding the path: tsx, typescript or javascript"`
	IconMap map[string]string `json:"icon_map,omitempty" jsonschema:"legacy icon name to exported identifier, merged over the server map"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// IconUpdateResult is the structured result of icon_update.
type IconUpdateResult struct {
	Output         string   `json:"output"`
	Changed        bool     `json:"changed"`
	Imported       []string `json:"imported"`
	DeepPathUsages int      `json:"deep_path_usages"`
	PackageUsages  int      `json:"package_usages"`
}

func (s *Server) handleIconUpdate(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input IconUpdateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	path, err := validateSourceInput(input.Source, input.Path)
	if err != nil {
		return errorResult(err)
	}

	icons, err := s.iconsFor(input.IconMap, input.IconMapPath)
	if err != nil {
		return errorResult(err)
	}

	res, err := iconmod.New(s.env, icons, s.opts).Transform(ctx, iconmod.File{
		Path:    path,
		Source:  []byte(input.Source),
		Grammar: input.Grammar,
	})
	if err != nil {
		return errorResult(err)
	}

	out := IconUpdateResult{
		Output:         string(res.Output),
		Changed:        res.Changed,
		Imported:       res.Imported,
		DeepPathUsages: res.DeepPathUsages,
		PackageUsages:  res.PackageUsages,
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: out.Output}},
	}, ToolOutput{Data: out}, nil
}

func (s *Server) handleIconScan(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input IconScanInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	path, err := validateSourceInput(input.Source, input.Path)
	if err != nil {
		return errorResult(err)
	}

	icons, err := s.iconsFor(input.IconMap, "")
	if err != nil {
		return errorResult(err)
	}

	findings, err := iconmod.New(s.env, icons, s.opts).Scan(ctx, iconmod.File{
		Path:    path,
		Source:  []byte(input.Source),
		Grammar: input.Grammar,
	})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(newScanReport(findings))
}

// scanReport is the JSON shape of icon_scan.
type scanReport struct {
	Path           string   `json:"path"`
	Patterns       []string `json:"patterns"`
	IconNames      []string `json:"icon_names"`
	Unmapped       []string `json:"unmapped"`
	DeepPathUsages int      `json:"deep_path_usages"`
	PackageUsages  int      `json:"package_usages"`
	Migrated       int      `json:"migrated"`
	Pending        bool     `json:"pending"`
}

func newScanReport(f iconmod.Findings) scanReport {
	patterns := make([]string, 0, len(f.Patterns))
	for _, p := range f.Patterns {
		patterns = append(patterns, p.String())
	}

	return scanReport{
		Path:           f.Path,
		Patterns:       patterns,
		IconNames:      f.IconNames,
		Unmapped:       f.Unmapped,
		DeepPathUsages: f.DeepPathUsages,
		PackageUsages:  f.PackageUsages,
		Migrated:       f.Migrated,
		Pending:        f.Pending(),
	}
}

// iconsFor merges the inline map and then the map file over the server map.
func (s *Server) iconsFor(inline map[string]string, path string) (iconmod.IconMap, error) {
	icons := s.icons

	if len(inline) > 0 {
		data, err := json.Marshal(inline)
		if err != nil {
			return iconmod.IconMap{}, fmt.Errorf("encode icon_map: %w", err)
		}

		parsed, err := iconmod.ParseIconMap(data, iconmod.FormatJSON)
		if err != nil {
			return iconmod.IconMap{}, fmt.Errorf("icon_map: %w", err)
		}

		icons = icons.Merge(parsed)
	}

	if path != "" {
		loaded, err := iconmod.LoadIconMap(path)
		if err != nil {
			return iconmod.IconMap{}, err
		}

		icons = icons.Merge(loaded)
	}

	return icons, nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{Data: map[string]string{"kind": iconmod.KindOf(err).String()}}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, ToolOutput{Data: value}, nil
}

// validateSourceInput checks the source limits and returns the effective path.
func validateSourceInput(source, path string) (string, error) {
	if source == "" {
		return "", ErrEmptySource
	}

	if len(source) > MaxSourceInputBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrSourceTooLarge, len(source), MaxSourceInputBytes)
	}

	if path == "" {
		return defaultPath, nil
	}

	return path, nil
}
