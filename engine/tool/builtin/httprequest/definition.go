package httprequest

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mobai/mobai-http/engine/executor"
	"github.com/mobai/mobai-http/engine/tool/builtin"
)

const toolID = "http_request"

const toolDescription = `LOW-LEVEL HTTP API - Prefer mobai:native-runner or mobai:web-runner skills for automation.

Make an HTTP request to any URL. Supports HTTP and HTTPS, all methods (GET, POST, PUT, PATCH, DELETE), and JSON bodies. Default timeout is 10 minutes for long-running operations like agent/run.

ANTI-PATTERN: Sequential HTTP calls (GET /ui-tree → POST /tap → GET /ui-tree). USE INSTEAD: mobai:native-runner with DSL batch execution.

Use raw HTTP API ONLY for: listing devices, starting/stopping bridge, or when DSL skills are insufficient.`

// Tool returns the MCP schema of the http_request tool.
func Tool() mcp.Tool {
	return mcp.NewTool(
		toolID,
		mcp.WithDescription(toolDescription),
		mcp.WithString(
			"method",
			mcp.Required(),
			mcp.Enum(executor.Methods...),
			mcp.Description("HTTP method (GET, POST, PUT, PATCH, DELETE)"),
		),
		mcp.WithString(
			"url",
			mcp.Required(),
			mcp.Description("The URL to request (e.g., http://127.0.0.1:8686/api/v1/devices)"),
		),
		mcp.WithString(
			"body",
			mcp.Description(`Request body as JSON string (for POST, PUT, PATCH). Example: {"index": 5}`),
		),
		mcp.WithObject(
			"headers",
			mcp.Description("Additional headers to send"),
			mcp.AdditionalProperties(map[string]any{"type": "string"}),
		),
		mcp.WithNumber(
			"timeout",
			mcp.Description(
				"Request timeout in milliseconds. Default: 600000 (10 minutes). Use higher values for agent/run endpoint.",
			),
		),
	)
}

// Definition binds the tool schema to h.
func Definition(h *Handler) builtin.Definition {
	return builtin.Definition{
		Tool:    Tool(),
		Handler: h.Handle,
	}
}
