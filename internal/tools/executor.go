// Package tools registers the monitoring and analysis tools and executes
// them on behalf of the protocol server.
package tools

import (
	"context"

	"github.com/infrascope/infrascope/internal/analyzer"
	"github.com/infrascope/infrascope/internal/mcp"
	"github.com/infrascope/infrascope/internal/monitor"
)

// Collector gathers host state. *monitor.Monitor satisfies it; tests
// substitute a stub.
type Collector interface {
	GetSystemInfo(ctx context.Context) (monitor.SystemInfo, error)
	GetServiceStatus(ctx context.Context, serviceName string) (monitor.ServiceReport, error)
	GetUserInfo(ctx context.Context) (monitor.UserReport, error)
	GetLogs(ctx context.Context, logType string, lines int) monitor.LogBundle
	GetNetworkInfo(ctx context.Context) (monitor.NetworkReport, error)
}

// LogAnalyzer produces log and health analyses. *analyzer.Analyzer
// satisfies it.
type LogAnalyzer interface {
	Analyze(ctx context.Context, lines []string, category analyzer.Category) analyzer.Result
	AnalyzeHealth(ctx context.Context, sys monitor.SystemInfo, lines []string) analyzer.HealthResult
}

// Executor wires the tool registry to the collectors. It implements
// mcp.ToolExecutor.
type Executor struct {
	registry *mcp.ToolRegistry
	monitor  Collector
	analyzer LogAnalyzer
}

// NewExecutor builds the executor and registers every tool. Registration
// happens once; the registry is read-only afterwards.
func NewExecutor(collector Collector, logAnalyzer LogAnalyzer) *Executor {
	e := &Executor{
		registry: mcp.NewToolRegistry(),
		monitor:  collector,
		analyzer: logAnalyzer,
	}
	e.registerTools()
	return e
}

// ListTools returns the tool definitions in registration order.
func (e *Executor) ListTools() []mcp.Tool {
	return e.registry.ListTools()
}

// ExecuteTool runs one tool invocation. Failures surface as tool-level
// error results, never as protocol errors.
func (e *Executor) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) mcp.CallToolResult {
	return e.registry.Execute(ctx, name, args)
}

func (e *Executor) registerTools() {
	e.registry.Register(e.systemInfoTool())
	e.registry.Register(e.serviceStatusTool())
	e.registry.Register(e.userInfoTool())
	e.registry.Register(e.logsTool())
	e.registry.Register(e.networkInfoTool())
	e.registry.Register(e.analyzeLogsTool())
	e.registry.Register(e.healthCheckTool())
}
