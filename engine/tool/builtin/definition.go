package builtin

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Definition pairs a tool schema with the handler that serves it.
type Definition struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Validate checks that the definition can be registered.
func (d Definition) Validate() error {
	if d.Tool.Name == "" {
		return errors.New("tool name is required")
	}
	if d.Handler == nil {
		return fmt.Errorf("tool %s has no handler", d.Tool.Name)
	}
	return nil
}

// Register adds every definition to s, rejecting invalid or duplicate tools
// before any is registered.
func Register(s *server.MCPServer, defs ...Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return err
		}
		if _, dup := seen[def.Tool.Name]; dup {
			return fmt.Errorf("tool %s registered twice", def.Tool.Name)
		}
		seen[def.Tool.Name] = struct{}{}
	}
	for _, def := range defs {
		s.AddTool(def.Tool, def.Handler)
	}
	return nil
}
