package mcp

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func textOf(t *testing.T, result CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	return result.Content[0].Text
}

func newEchoTool(name string) RegisteredTool {
	return RegisteredTool{
		Definition: Tool{
			Name:        name,
			InputSchema: InputSchema{Type: "object", Properties: map[string]PropertySchema{}},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (CallToolResult, error) {
			return NewTextResult("ok:" + name), nil
		},
	}
}

func TestRegistryPreservesRegistrationOrder(t *testing.T) {
	r := NewToolRegistry()
	names := []string{"zeta", "alpha", "midway"}
	for _, name := range names {
		r.Register(newEchoTool(name))
	}

	for i := 0; i < 3; i++ {
		tools := r.ListTools()
		if len(tools) != len(names) {
			t.Fatalf("expected %d tools, got %d", len(names), len(tools))
		}
		for j, tool := range tools {
			if tool.Name != names[j] {
				t.Errorf("position %d: got %q, want %q", j, tool.Name, names[j])
			}
		}
	}
}

func TestRegistryIgnoresDuplicateRegistration(t *testing.T) {
	r := NewToolRegistry()
	r.Register(newEchoTool("stable"))

	r.Register(RegisteredTool{
		Definition: Tool{
			Name:        "stable",
			InputSchema: InputSchema{Type: "object", Properties: map[string]PropertySchema{}},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (CallToolResult, error) {
			return NewTextResult("usurper"), nil
		},
	})

	if tools := r.ListTools(); len(tools) != 1 {
		t.Fatalf("expected one tool after duplicate registration, got %d", len(tools))
	}
	result := r.Execute(context.Background(), "stable", nil)
	if textOf(t, result) != "ok:stable" {
		t.Fatalf("duplicate registration must keep the first handler, got %q", textOf(t, result))
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewToolRegistry()
	result := r.Execute(context.Background(), "no_such_tool", nil)

	if !result.IsError {
		t.Fatal("expected a tool-level error result")
	}
	if !strings.Contains(textOf(t, result), "no_such_tool") {
		t.Errorf("error text should name the tool: %q", textOf(t, result))
	}
}

func TestRegistryExecuteMissingRequiredArgument(t *testing.T) {
	r := NewToolRegistry()
	r.Register(RegisteredTool{
		Definition: Tool{
			Name: "needs_arg",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"target": {Type: "string"},
				},
				Required: []string{"target"},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (CallToolResult, error) {
			return NewTextResult("ran"), nil
		},
	})

	result := r.Execute(context.Background(), "needs_arg", map[string]interface{}{})
	if !result.IsError {
		t.Fatal("expected a validation failure result")
	}
}

func TestRegistryExecuteEnumValidation(t *testing.T) {
	r := NewToolRegistry()
	r.Register(RegisteredTool{
		Definition: Tool{
			Name: "pick",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"color": {Type: "string", Enum: []string{"red", "green"}},
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (CallToolResult, error) {
			return NewTextResult("picked"), nil
		},
	})

	good := r.Execute(context.Background(), "pick", map[string]interface{}{"color": "red"})
	if good.IsError {
		t.Fatalf("valid enum value rejected: %s", textOf(t, good))
	}

	bad := r.Execute(context.Background(), "pick", map[string]interface{}{"color": "mauve"})
	if !bad.IsError {
		t.Fatal("invalid enum value accepted")
	}
}

func TestRegistryExecuteIntegerBounds(t *testing.T) {
	r := NewToolRegistry()
	r.Register(RegisteredTool{
		Definition: Tool{
			Name: "count",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"n": {Type: "integer", Minimum: Float64Ptr(1), Maximum: Float64Ptr(100)},
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (CallToolResult, error) {
			return NewTextResult("counted"), nil
		},
	})

	cases := []struct {
		value   interface{}
		wantErr bool
	}{
		{float64(50), false}, // JSON numbers decode as float64
		{float64(0), true},
		{float64(101), true},
		{float64(2.5), true}, // not an integer
		{"ten", true},
	}
	for _, tc := range cases {
		result := r.Execute(context.Background(), "count", map[string]interface{}{"n": tc.value})
		if result.IsError != tc.wantErr {
			t.Errorf("n=%v: isError=%v, want %v", tc.value, result.IsError, tc.wantErr)
		}
	}
}

func TestRegistryExecuteToleratesUndeclaredArguments(t *testing.T) {
	r := NewToolRegistry()
	r.Register(newEchoTool("lenient"))

	result := r.Execute(context.Background(), "lenient", map[string]interface{}{"extra": true})
	if result.IsError {
		t.Fatalf("undeclared argument rejected: %s", textOf(t, result))
	}
}

func TestRegistryExecuteHandlerError(t *testing.T) {
	r := NewToolRegistry()
	r.Register(RegisteredTool{
		Definition: Tool{
			Name:        "broken",
			InputSchema: InputSchema{Type: "object", Properties: map[string]PropertySchema{}},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (CallToolResult, error) {
			return CallToolResult{}, fmt.Errorf("disk on fire")
		},
	})

	result := r.Execute(context.Background(), "broken", nil)
	if !result.IsError {
		t.Fatal("expected handler failure to surface as an error result")
	}
	if !strings.Contains(textOf(t, result), "broken") {
		t.Errorf("error text should name the tool: %q", textOf(t, result))
	}
}
