package tools

import (
	"context"

	"github.com/infrascope/infrascope/internal/mcp"
)

func (e *Executor) systemInfoTool() mcp.RegisteredTool {
	return mcp.RegisteredTool{
		Definition: mcp.Tool{
			Name:        "get_system_info",
			Description: "Get system information: hostname, OS, CPU, memory, and disk usage",
			InputSchema: mcp.InputSchema{
				Type:       "object",
				Properties: map[string]mcp.PropertySchema{},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
			info, err := e.monitor.GetSystemInfo(ctx)
			if err != nil {
				return mcp.CallToolResult{}, err
			}
			return mcp.NewJSONResult(info), nil
		},
	}
}

func (e *Executor) serviceStatusTool() mcp.RegisteredTool {
	return mcp.RegisteredTool{
		Definition: mcp.Tool{
			Name:        "get_service_status",
			Description: "Get the status of system services and the top processes by CPU usage",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.PropertySchema{
					"service_name": {
						Type:        "string",
						Description: "Specific service to check; omit to check common services",
					},
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
			report, err := e.monitor.GetServiceStatus(ctx, stringArg(args, "service_name", ""))
			if err != nil {
				return mcp.CallToolResult{}, err
			}
			return mcp.NewJSONResult(report), nil
		},
	}
}

func (e *Executor) userInfoTool() mcp.RegisteredTool {
	return mcp.RegisteredTool{
		Definition: mcp.Tool{
			Name:        "get_user_info",
			Description: "Get active login sessions and known system user accounts",
			InputSchema: mcp.InputSchema{
				Type:       "object",
				Properties: map[string]mcp.PropertySchema{},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
			report, err := e.monitor.GetUserInfo(ctx)
			if err != nil {
				return mcp.CallToolResult{}, err
			}
			return mcp.NewJSONResult(report), nil
		},
	}
}

func (e *Executor) networkInfoTool() mcp.RegisteredTool {
	return mcp.RegisteredTool{
		Definition: mcp.Tool{
			Name:        "get_network_info",
			Description: "Get network interfaces, active connections, and IO statistics",
			InputSchema: mcp.InputSchema{
				Type:       "object",
				Properties: map[string]mcp.PropertySchema{},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
			report, err := e.monitor.GetNetworkInfo(ctx)
			if err != nil {
				return mcp.CallToolResult{}, err
			}
			return mcp.NewJSONResult(report), nil
		},
	}
}

// stringArg reads an optional string argument, falling back when absent or
// of the wrong type. Type mismatches on declared properties are rejected by
// schema validation before handlers run.
func stringArg(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
