package mcp

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// ToolHandler executes a tool with already-validated arguments.
type ToolHandler func(ctx context.Context, args map[string]interface{}) (CallToolResult, error)

// RegisteredTool binds a tool definition to its handler.
type RegisteredTool struct {
	Definition Tool
	Handler    ToolHandler
}

// ToolRegistry holds the fixed tool set. It is populated once during startup
// and read-only afterwards, so lookups need no synchronization.
type ToolRegistry struct {
	tools map[string]RegisteredTool
	order []string
}

// NewToolRegistry creates an empty tool registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]RegisteredTool),
	}
}

// Register adds a tool to the registry. The registry is write-once: a name
// that is already registered is ignored, keeping the first registration.
func (r *ToolRegistry) Register(tool RegisteredTool) {
	name := tool.Definition.Name
	if _, exists := r.tools[name]; exists {
		return
	}
	r.order = append(r.order, name)
	r.tools[name] = tool
}

// Get returns the registered tool by name
func (r *ToolRegistry) Get(name string) (RegisteredTool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// ListTools returns all tool definitions in registration order
func (r *ToolRegistry) ListTools() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].Definition)
	}
	return tools
}

// Execute validates the arguments against the tool's input schema and invokes
// the handler. Unknown tools, invalid arguments, and handler errors all
// surface as tool-level failures, never as Go errors.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args map[string]interface{}) CallToolResult {
	tool, ok := r.tools[name]
	if !ok {
		return NewErrorResult(fmt.Errorf("unknown tool: %s", name))
	}

	if err := validateArguments(tool.Definition.InputSchema, args); err != nil {
		return NewErrorResult(fmt.Errorf("invalid arguments for %s: %w", name, err))
	}

	result, err := tool.Handler(ctx, args)
	if err != nil {
		return NewErrorResult(fmt.Errorf("%s failed: %w", name, err))
	}
	return result
}

// validateArguments checks required properties, primitive types, enum
// membership, and numeric bounds declared by the schema.
func validateArguments(schema InputSchema, args map[string]interface{}) error {
	for _, required := range schema.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("missing required argument %q", required)
		}
	}

	for key, value := range args {
		prop, declared := schema.Properties[key]
		if !declared {
			// Tolerate extra arguments; clients sometimes send hints
			// the schema does not declare.
			continue
		}
		if value == nil {
			continue
		}
		if err := validateProperty(key, prop, value); err != nil {
			return err
		}
	}

	return nil
}

func validateProperty(key string, prop PropertySchema, value interface{}) error {
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("argument %q must be a string", key)
		}
		if len(prop.Enum) > 0 && !containsString(prop.Enum, s) {
			return fmt.Errorf("argument %q must be one of [%s], got %q",
				key, strings.Join(prop.Enum, ", "), s)
		}
	case "integer":
		n, ok := asNumber(value)
		if !ok || n != math.Trunc(n) {
			return fmt.Errorf("argument %q must be an integer", key)
		}
		return validateBounds(key, prop, n)
	case "number":
		n, ok := asNumber(value)
		if !ok {
			return fmt.Errorf("argument %q must be a number", key)
		}
		return validateBounds(key, prop, n)
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean", key)
		}
	}
	return nil
}

func validateBounds(key string, prop PropertySchema, n float64) error {
	if prop.Minimum != nil && n < *prop.Minimum {
		return fmt.Errorf("argument %q must be at least %v, got %v", key, *prop.Minimum, n)
	}
	if prop.Maximum != nil && n > *prop.Maximum {
		return fmt.Errorf("argument %q must be at most %v, got %v", key, *prop.Maximum, n)
	}
	return nil
}

// asNumber normalizes the numeric types a decoded JSON argument can carry.
func asNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
