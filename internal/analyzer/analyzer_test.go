package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/infrascope/infrascope/internal/analyzer/providers"
	"github.com/infrascope/infrascope/internal/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name   string
	model  string
	models []providers.ModelInfo

	generateText string
	generateErr  error
	connectErr   error
	listErr      error

	generateCalls int
}

func (s *stubProvider) Generate(ctx context.Context, req providers.GenerateRequest) (string, error) {
	s.generateCalls++
	return s.generateText, s.generateErr
}

func (s *stubProvider) TestConnection(ctx context.Context) error {
	return s.connectErr
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) Model() string {
	return s.model
}

func (s *stubProvider) ListModels(ctx context.Context) ([]providers.ModelInfo, error) {
	return s.models, s.listErr
}

func newTestAnalyzer(local *stubProvider, cloud providers.Provider, mode Backend) *Analyzer {
	a := &Analyzer{
		mode:    mode,
		timeout: time.Second,
		nowFn:   func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	if local != nil {
		a.local = local
	}
	if cloud != nil {
		a.cloud = cloud
	}
	return a
}

func TestAnalyzeUsesLocalBackend(t *testing.T) {
	local := &stubProvider{name: "ollama", model: "llama3.2", generateText: "all quiet"}
	a := newTestAnalyzer(local, nil, BackendLocal)

	result := a.Analyze(context.Background(), []string{"line"}, CategorySummary)

	assert.Equal(t, BackendLocal, result.Backend)
	assert.Equal(t, "llama3.2", result.Model)
	assert.Equal(t, "all quiet", result.Analysis)
	assert.Empty(t, result.Note)
	assert.Equal(t, 1, local.generateCalls)
}

func TestAnalyzeFallsBackToCloud(t *testing.T) {
	local := &stubProvider{name: "ollama", model: "llama3.2", generateErr: errors.New("connection refused")}
	cloud := &stubProvider{name: "gemini", generateText: "cloud answer"}
	a := newTestAnalyzer(local, cloud, BackendLocal)

	result := a.Analyze(context.Background(), []string{"line"}, CategoryErrors)

	assert.Equal(t, BackendCloud, result.Backend)
	assert.Equal(t, "cloud answer", result.Analysis)
	assert.Equal(t, 1, local.generateCalls)
	assert.Equal(t, 1, cloud.generateCalls)
}

func TestAnalyzeFallsBackToPatternEngine(t *testing.T) {
	local := &stubProvider{name: "ollama", model: "llama3.2", generateErr: errors.New("connection refused")}
	cloud := &stubProvider{name: "gemini", generateErr: errors.New("quota exceeded")}
	a := newTestAnalyzer(local, cloud, BackendLocal)

	lines := []string{
		"app: error one",
		"app: error two",
		"app: all good",
	}
	result := a.Analyze(context.Background(), lines, CategoryErrors)

	assert.Equal(t, BackendFallback, result.Backend)
	assert.Equal(t, "pattern-matching", result.Model)
	require.NotNil(t, result.Patterns)
	assert.Equal(t, 2, result.Patterns.Errors)
	assert.Contains(t, result.Note, "pattern matching")
	assert.Equal(t, len(lines), result.LogsAnalyzed)
}

func TestAnalyzeNeverFails(t *testing.T) {
	// No backends at all; the pattern engine must still answer.
	a := newTestAnalyzer(nil, nil, BackendFallback)

	result := a.Analyze(context.Background(), nil, CategorySummary)
	assert.Equal(t, BackendFallback, result.Backend)
	assert.NotEmpty(t, result.Analysis)
	// Never-probed fallback mode is not a degradation.
	assert.Empty(t, result.Note)
}

func TestAnalyzeRetriesLocalEachCall(t *testing.T) {
	// A local failure must not demote the backend for subsequent calls.
	local := &stubProvider{name: "ollama", model: "m", generateErr: errors.New("busy")}
	a := newTestAnalyzer(local, nil, BackendLocal)

	a.Analyze(context.Background(), []string{"x"}, CategorySummary)
	assert.Equal(t, BackendLocal, a.Mode())

	local.generateErr = nil
	local.generateText = "recovered"
	result := a.Analyze(context.Background(), []string{"x"}, CategorySummary)
	assert.Equal(t, BackendLocal, result.Backend)
	assert.Equal(t, "recovered", result.Analysis)
	assert.Equal(t, 2, local.generateCalls)
}

func TestAnalyzeCloudModeSkipsLocal(t *testing.T) {
	local := &stubProvider{name: "ollama", model: "m", generateText: "local answer"}
	cloud := &stubProvider{name: "gemini", generateText: "cloud answer"}
	a := newTestAnalyzer(local, cloud, BackendCloud)

	result := a.Analyze(context.Background(), []string{"x"}, CategorySummary)
	assert.Equal(t, BackendCloud, result.Backend)
	assert.Zero(t, local.generateCalls)
}

func TestAnalyzeHealthChain(t *testing.T) {
	local := &stubProvider{name: "ollama", model: "llama3.2", generateText: "healthy enough"}
	a := newTestAnalyzer(local, nil, BackendLocal)

	sys := monitor.SystemInfo{Hostname: "host-a", CPUPercent: 12}
	result := a.AnalyzeHealth(context.Background(), sys, []string{"line"})

	assert.Equal(t, BackendLocal, result.Backend)
	assert.Equal(t, "healthy enough", result.Analysis)
	assert.False(t, result.CriticalIssues)
}

func TestAnalyzeHealthFallsBackWithNote(t *testing.T) {
	local := &stubProvider{name: "ollama", model: "m", generateErr: errors.New("down")}
	a := newTestAnalyzer(local, nil, BackendLocal)

	sys := monitor.SystemInfo{
		Hostname:   "host-a",
		CPUPercent: 90,
		Memory:     monitor.MemoryInfo{Percent: 90},
		Disk:       monitor.DiskInfo{Percent: 95},
	}
	result := a.AnalyzeHealth(context.Background(), sys, nil)

	assert.Equal(t, BackendFallback, result.Backend)
	assert.True(t, result.CriticalIssues)
	assert.Contains(t, result.Note, "pattern matching")
}

func TestProbeLocalSubstitutesMissingModel(t *testing.T) {
	local := &stubProvider{
		name:  "ollama",
		model: "llama3.2",
		models: []providers.ModelInfo{
			{ID: "mistral", Name: "mistral"},
			{ID: "qwen2", Name: "qwen2"},
		},
	}

	model, ok := probeLocal(context.Background(), local, time.Second)
	require.True(t, ok)
	assert.Equal(t, "mistral", model)
}

func TestProbeLocalKeepsConfiguredModel(t *testing.T) {
	local := &stubProvider{
		name:  "ollama",
		model: "llama3.2",
		models: []providers.ModelInfo{
			{ID: "mistral", Name: "mistral"},
			{ID: "llama3.2", Name: "llama3.2"},
		},
	}

	model, ok := probeLocal(context.Background(), local, time.Second)
	require.True(t, ok)
	assert.Equal(t, "llama3.2", model)
}

func TestProbeLocalUnreachable(t *testing.T) {
	local := &stubProvider{name: "ollama", connectErr: errors.New("refused")}

	_, ok := probeLocal(context.Background(), local, time.Second)
	assert.False(t, ok)
}

func TestProbeLocalNoModels(t *testing.T) {
	local := &stubProvider{name: "ollama"}

	_, ok := probeLocal(context.Background(), local, time.Second)
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategorySummary, ParseCategory(""))
	assert.Equal(t, CategorySummary, ParseCategory("bogus"))
	assert.Equal(t, CategoryErrors, ParseCategory("Errors"))
	assert.Equal(t, CategorySecurity, ParseCategory(" security "))
	assert.Equal(t, CategoryPerformance, ParseCategory("performance"))
}

func TestJoinTailBoundsInput(t *testing.T) {
	var lines []string
	for i := 0; i < 150; i++ {
		lines = append(lines, "l")
	}
	joined := joinTail(lines, promptLineLimit)
	assert.Equal(t, promptLineLimit, len(splitLines(joined)))
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
