package analyzer

import (
	"fmt"
	"strings"

	"github.com/infrascope/infrascope/internal/monitor"
)

const analystSystemPrompt = "You are an experienced Linux systems administrator reviewing logs and metrics. Be concise, factual, and concrete. When you flag a problem, say what to check next."

var categoryInstructions = map[Category]string{
	CategorySummary:     "Summarize the notable events in these logs. Call out anything an administrator should follow up on.",
	CategoryErrors:      "Identify errors and failures in these logs. Group related errors, note how often each occurs, and suggest likely causes.",
	CategorySecurity:    "Review these logs for security-relevant events: authentication failures, privilege escalation, unusual access patterns. Rate the severity of anything you find.",
	CategoryPerformance: "Review these logs for performance problems: resource exhaustion, slow operations, timeouts, throttling. Note which subsystems are affected.",
}

func buildPrompt(category Category, logText string) string {
	instruction, ok := categoryInstructions[category]
	if !ok {
		instruction = categoryInstructions[CategorySummary]
	}
	if strings.TrimSpace(logText) == "" {
		logText = "(no log lines were collected)"
	}
	return fmt.Sprintf("%s\n\nLogs:\n%s", instruction, logText)
}

func buildHealthPrompt(sys monitor.SystemInfo, logText string) string {
	var b strings.Builder
	b.WriteString("Assess the overall health of this system. Give a short verdict, a health rating out of 10, and the top issues to address.\n\n")
	fmt.Fprintf(&b, "Host: %s (%s %s, kernel %s)\n", sys.Hostname, sys.Platform, sys.PlatformVersion, sys.KernelVersion)
	fmt.Fprintf(&b, "CPU: %d cores, %.1f%% used\n", sys.CPUCount, sys.CPUPercent)
	fmt.Fprintf(&b, "Memory: %.1f%% used (%d / %d bytes)\n", sys.Memory.Percent, sys.Memory.Used, sys.Memory.Total)
	fmt.Fprintf(&b, "Disk /: %.1f%% used (%d / %d bytes)\n", sys.Disk.Percent, sys.Disk.Used, sys.Disk.Total)
	fmt.Fprintf(&b, "Uptime: %s\n", sys.Uptime)
	if strings.TrimSpace(logText) != "" {
		b.WriteString("\nRecent system logs:\n")
		b.WriteString(logText)
	}
	return b.String()
}
