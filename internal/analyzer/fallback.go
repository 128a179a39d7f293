package analyzer

import (
	"fmt"
	"strings"

	"github.com/infrascope/infrascope/internal/monitor"
)

// PatternCounts tallies how many log lines matched each marker set.
type PatternCounts struct {
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Security    int `json:"security"`
	Performance int `json:"performance"`
}

var (
	errorMarkers    = []string{"error", "failed", "failure", "exception", "critical", "alert", "panic", "fatal"}
	warningMarkers  = []string{"warn", "warning", "deprecated", "timeout", "retry"}
	securityMarkers = []string{"auth", "login", "sudo", "ssh", "permission", "denied", "unauthorized", "invalid user"}
	perfMarkers     = []string{"slow", "out of memory", "oom", "throttle", "overload", "high load", "cannot allocate", "blocked for"}
)

// PatternEngine is the deterministic analysis backend of last resort. It
// counts case-insensitive marker substrings; no tokenization, no scoring
// beyond the counts themselves.
type PatternEngine struct{}

// CountPatterns tallies marker hits across the given lines. A line can
// contribute to more than one counter.
func (PatternEngine) CountPatterns(lines []string) PatternCounts {
	var c PatternCounts
	for _, line := range lines {
		lower := strings.ToLower(line)
		if matchesAny(lower, errorMarkers) {
			c.Errors++
		}
		if matchesAny(lower, warningMarkers) {
			c.Warnings++
		}
		if matchesAny(lower, securityMarkers) {
			c.Security++
		}
		if matchesAny(lower, perfMarkers) {
			c.Performance++
		}
	}
	return c
}

func matchesAny(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// Analyze produces a pattern-matching analysis for one category.
func (e PatternEngine) Analyze(lines []string, category Category) Result {
	counts := e.CountPatterns(lines)
	return Result{
		AnalysisType: category,
		LogsAnalyzed: len(lines),
		Analysis:     e.describe(lines, category, counts),
		Backend:      BackendFallback,
		Model:        "pattern-matching",
		Patterns:     &counts,
	}
}

func (e PatternEngine) describe(lines []string, category Category, c PatternCounts) string {
	if len(lines) == 0 {
		return "No log lines were available for analysis; no events found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pattern analysis of %d log lines:\n", len(lines))
	fmt.Fprintf(&b, "- %d lines with error indicators\n", c.Errors)
	fmt.Fprintf(&b, "- %d lines with warning indicators\n", c.Warnings)
	fmt.Fprintf(&b, "- %d lines with security-related activity\n", c.Security)
	fmt.Fprintf(&b, "- %d lines with performance indicators\n", c.Performance)

	switch category {
	case CategoryErrors:
		if c.Errors == 0 {
			b.WriteString("\nNo error events found.")
		} else {
			b.WriteString("\nSample error lines:\n")
			writeSamples(&b, lines, errorMarkers)
		}
	case CategorySecurity:
		if c.Security == 0 {
			b.WriteString("\nNo security-related events found.")
		} else {
			b.WriteString("\nSample security lines:\n")
			writeSamples(&b, lines, securityMarkers)
		}
	case CategoryPerformance:
		if c.Performance == 0 {
			b.WriteString("\nNo performance-related events found.")
		} else {
			b.WriteString("\nSample performance lines:\n")
			writeSamples(&b, lines, perfMarkers)
		}
	default:
		if c.Errors == 0 && c.Warnings == 0 && c.Security == 0 && c.Performance == 0 {
			b.WriteString("\nNo notable events found.")
		}
	}
	return b.String()
}

const maxSampleLines = 5

func writeSamples(b *strings.Builder, lines, markers []string) {
	shown := 0
	for _, line := range lines {
		if shown == maxSampleLines {
			break
		}
		if matchesAny(strings.ToLower(line), markers) {
			fmt.Fprintf(b, "  %s\n", strings.TrimSpace(line))
			shown++
		}
	}
}

// AnalyzeHealth scores the host from its resource usage and recent log
// markers. Score starts at 10 and never drops below 1.
func (e PatternEngine) AnalyzeHealth(sys monitor.SystemInfo, lines []string) HealthResult {
	score := 10
	var issues []string

	switch {
	case sys.CPUPercent > 80:
		score -= 2
		issues = append(issues, fmt.Sprintf("CPU usage is high (%.1f%%)", sys.CPUPercent))
	case sys.CPUPercent > 60:
		score--
		issues = append(issues, fmt.Sprintf("CPU usage is elevated (%.1f%%)", sys.CPUPercent))
	}

	switch {
	case sys.Memory.Percent > 85:
		score -= 2
		issues = append(issues, fmt.Sprintf("memory usage is high (%.1f%%)", sys.Memory.Percent))
	case sys.Memory.Percent > 70:
		score--
		issues = append(issues, fmt.Sprintf("memory usage is elevated (%.1f%%)", sys.Memory.Percent))
	}

	switch {
	case sys.Disk.Percent > 90:
		score -= 3
		issues = append(issues, fmt.Sprintf("disk usage is critical (%.1f%%)", sys.Disk.Percent))
	case sys.Disk.Percent > 80:
		score--
		issues = append(issues, fmt.Sprintf("disk usage is elevated (%.1f%%)", sys.Disk.Percent))
	}

	counts := e.CountPatterns(lines)
	if counts.Errors > 0 {
		issues = append(issues, fmt.Sprintf("%d recent log lines contain error indicators", counts.Errors))
	}

	if score < 1 {
		score = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Health score: %d/10 for %s.\n", score, sys.Hostname)
	if len(issues) == 0 {
		b.WriteString("No resource pressure detected; system appears healthy.")
	} else {
		b.WriteString("Issues detected:\n")
		for _, issue := range issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}

	return HealthResult{
		Analysis:       strings.TrimRight(b.String(), "\n"),
		HealthScore:    score,
		CriticalIssues: score < 7,
		LogsAnalyzed:   len(lines),
		Backend:        BackendFallback,
		Model:          "pattern-matching",
	}
}
