package tools

import (
	"context"

	"github.com/infrascope/infrascope/internal/analyzer"
	"github.com/infrascope/infrascope/internal/mcp"
	"github.com/infrascope/infrascope/internal/monitor"
)

const healthCheckLogLines = 50

func (e *Executor) logsTool() mcp.RegisteredTool {
	return mcp.RegisteredTool{
		Definition: mcp.Tool{
			Name:        "get_logs",
			Description: "Get recent system log entries",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.PropertySchema{
					"log_type": {
						Type:        "string",
						Description: "Which log to read",
						Enum:        monitor.LogTypes(),
						Default:     "syslog",
					},
					"lines": {
						Type:        "integer",
						Description: "Number of recent lines to return",
						Default:     monitor.DefaultLogLines,
						Minimum:     mcp.Float64Ptr(1),
						Maximum:     mcp.Float64Ptr(monitor.MaxLogLines),
					},
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
			bundle := e.monitor.GetLogs(ctx,
				stringArg(args, "log_type", "syslog"),
				intArg(args, "lines", monitor.DefaultLogLines))
			return mcp.NewJSONResult(bundle), nil
		},
	}
}

func (e *Executor) analyzeLogsTool() mcp.RegisteredTool {
	return mcp.RegisteredTool{
		Definition: mcp.Tool{
			Name:        "analyze_logs",
			Description: "Analyze recent system logs with AI assistance, falling back to pattern matching when no inference backend is reachable",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.PropertySchema{
					"log_type": {
						Type:        "string",
						Description: "Which log to analyze",
						Enum:        monitor.LogTypes(),
						Default:     "syslog",
					},
					"lines": {
						Type:        "integer",
						Description: "Number of recent lines to analyze",
						Default:     monitor.DefaultLogLines,
						Minimum:     mcp.Float64Ptr(10),
						Maximum:     mcp.Float64Ptr(500),
					},
					"analysis_type": {
						Type:        "string",
						Description: "Focus of the analysis",
						Enum:        analyzer.Categories(),
						Default:     "summary",
					},
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
			bundle := e.monitor.GetLogs(ctx,
				stringArg(args, "log_type", "syslog"),
				intArg(args, "lines", monitor.DefaultLogLines))
			category := analyzer.ParseCategory(stringArg(args, "analysis_type", "summary"))

			result := e.analyzer.Analyze(ctx, bundle.Lines, category)
			return mcp.NewJSONResult(struct {
				LogType string `json:"log_type"`
				LogFile string `json:"log_file,omitempty"`
				analyzer.Result
			}{
				LogType: bundle.LogType,
				LogFile: bundle.LogFile,
				Result:  result,
			}), nil
		},
	}
}

func (e *Executor) healthCheckTool() mcp.RegisteredTool {
	return mcp.RegisteredTool{
		Definition: mcp.Tool{
			Name:        "health_check",
			Description: "Run an overall system health assessment combining resource usage with recent logs",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]mcp.PropertySchema{
					"include_logs": {
						Type:        "boolean",
						Description: "Include recent system logs in the assessment",
						Default:     true,
					},
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.CallToolResult, error) {
			info, err := e.monitor.GetSystemInfo(ctx)
			if err != nil {
				return mcp.CallToolResult{}, err
			}

			var lines []string
			if boolArg(args, "include_logs", true) {
				lines = e.monitor.GetLogs(ctx, "syslog", healthCheckLogLines).Lines
			}

			result := e.analyzer.AnalyzeHealth(ctx, info, lines)
			return mcp.NewJSONResult(struct {
				System monitor.SystemInfo `json:"system"`
				analyzer.HealthResult
			}{
				System:       info,
				HealthResult: result,
			}), nil
		},
	}
}

func boolArg(args map[string]interface{}, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}
