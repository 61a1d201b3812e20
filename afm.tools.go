package afm

import (
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// FilteredTools applies a tool filter's allow/deny combination and returns
// the permitted tool names. The second return value reports whether a
// restriction applies at all: false means every discovered tool is permitted.
//
// A deny-only filter is not fully supported and permits all tools - the
// restriction would require fetching the server's tool list first. This is a
// documented limitation carried over from the AFM specification, logged so
// operators notice it.
func FilteredTools(filter *ToolFilter, logger *zap.Logger) ([]string, bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filter == nil || (filter.Allow == nil && filter.Deny == nil) {
		return nil, false
	}

	if filter.Allow == nil {
		logger.Warn(LogMsgDenyOnlyFilter)
		return nil, false
	}

	if filter.Deny == nil {
		return filter.Allow, true
	}

	denied := make(map[string]struct{}, len(filter.Deny))
	for _, name := range filter.Deny {
		denied[name] = struct{}{}
	}

	allowed := make([]string, 0, len(filter.Allow))
	for _, name := range filter.Allow {
		if _, ok := denied[name]; !ok {
			allowed = append(allowed, name)
		}
	}
	return allowed, true
}

// FilterMCPTools restricts a discovered MCP tool list to the names the filter
// permits, preserving the discovered order. With no effective restriction the
// input is returned unchanged.
func FilterMCPTools(tools []mcp.Tool, filter *ToolFilter, logger *zap.Logger) []mcp.Tool {
	allowed, restricted := FilteredTools(filter, logger)
	if !restricted {
		return tools
	}

	permitted := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		permitted[name] = struct{}{}
	}

	filtered := make([]mcp.Tool, 0, len(tools))
	for _, tool := range tools {
		if _, ok := permitted[tool.Name]; ok {
			filtered = append(filtered, tool)
		}
	}
	return filtered
}
