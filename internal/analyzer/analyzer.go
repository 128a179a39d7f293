// Package analyzer turns raw log text into a structured analysis. It probes
// the available reasoning backends once at startup and, per call, walks the
// fallback chain local inference -> cloud inference -> pattern matching.
// Analyze never fails: the pattern engine is always able to answer.
package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/infrascope/infrascope/internal/analyzer/providers"
	"github.com/infrascope/infrascope/internal/monitor"
	"github.com/rs/zerolog/log"
)

// Backend identifies which strategy produced an analysis.
type Backend string

const (
	BackendLocal    Backend = "local"
	BackendCloud    Backend = "cloud"
	BackendFallback Backend = "fallback"
)

// Category selects the analysis instruction template and marker set.
type Category string

const (
	CategorySummary     Category = "summary"
	CategoryErrors      Category = "errors"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
)

// Categories lists the accepted analysis_type values in schema order.
func Categories() []string {
	return []string{
		string(CategorySummary),
		string(CategoryErrors),
		string(CategorySecurity),
		string(CategoryPerformance),
	}
}

// ParseCategory normalizes a category string, defaulting to summary.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryErrors:
		return CategoryErrors
	case CategorySecurity:
		return CategorySecurity
	case CategoryPerformance:
		return CategoryPerformance
	default:
		return CategorySummary
	}
}

// Result is the outcome of one analysis call.
type Result struct {
	AnalysisType Category       `json:"analysis_type"`
	LogsAnalyzed int            `json:"logs_analyzed"`
	Analysis     string         `json:"analysis"`
	Backend      Backend        `json:"backend"`
	Model        string         `json:"model"`
	Note         string         `json:"note,omitempty"`
	Patterns     *PatternCounts `json:"patterns_detected,omitempty"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// HealthResult is the outcome of a health analysis.
type HealthResult struct {
	Analysis       string    `json:"health_analysis"`
	HealthScore    int       `json:"health_score,omitempty"`
	CriticalIssues bool      `json:"critical_issues"`
	LogsAnalyzed   int       `json:"logs_analyzed"`
	Backend        Backend   `json:"backend"`
	Model          string    `json:"model"`
	Note           string    `json:"note,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Config holds the backend endpoints and timeouts.
type Config struct {
	OllamaBaseURL  string
	OllamaModel    string
	GeminiAPIKey   string
	GeminiModel    string
	ProbeTimeout   time.Duration
	AnalyzeTimeout time.Duration
}

const (
	defaultProbeTimeout   = 3 * time.Second
	defaultAnalyzeTimeout = 60 * time.Second

	// promptLineLimit bounds how much log text is handed to an
	// inference backend.
	promptLineLimit = 100
)

type localProvider interface {
	providers.Provider
	ListModels(ctx context.Context) ([]providers.ModelInfo, error)
	Model() string
}

// Analyzer selects among the analysis backends. The preferred backend is
// recorded once by New; every call still re-attempts the chain from the
// preferred backend down, so a transient failure never demotes it for good.
type Analyzer struct {
	local   localProvider      // nil when the startup probe failed
	cloud   providers.Provider // nil when no credentials are configured
	engine  PatternEngine
	mode    Backend
	timeout time.Duration
	nowFn   func() time.Time
}

// New probes backend availability in priority order and records the
// preferred mode. It never fails: with no backend reachable the pattern
// engine serves every call.
func New(ctx context.Context, cfg Config) *Analyzer {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	if cfg.AnalyzeTimeout <= 0 {
		cfg.AnalyzeTimeout = defaultAnalyzeTimeout
	}

	a := &Analyzer{
		mode:    BackendFallback,
		timeout: cfg.AnalyzeTimeout,
		nowFn:   time.Now,
	}

	local := providers.NewOllamaClient(cfg.OllamaModel, cfg.OllamaBaseURL, cfg.AnalyzeTimeout)
	if model, ok := probeLocal(ctx, local, cfg.ProbeTimeout); ok {
		local.SetModel(model)
		a.local = local
		a.mode = BackendLocal
		log.Info().Str("model", model).Msg("Local inference backend available")
	}

	if cfg.GeminiAPIKey != "" {
		a.cloud = providers.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, "", cfg.AnalyzeTimeout)
		if a.mode == BackendFallback {
			a.mode = BackendCloud
			log.Info().Msg("Cloud inference backend selected")
		}
	}

	if a.mode == BackendFallback {
		log.Warn().Msg("No inference backend available; using pattern-matching analysis")
	}

	return a
}

// probeLocal checks Ollama liveness and resolves a usable model name. A
// configured model that is not installed is substituted with any available
// one rather than failing the probe.
func probeLocal(ctx context.Context, local localProvider, timeout time.Duration) (string, bool) {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := local.TestConnection(probeCtx); err != nil {
		log.Debug().Err(err).Msg("Local inference probe failed")
		return "", false
	}

	models, err := local.ListModels(probeCtx)
	if err != nil || len(models) == 0 {
		log.Debug().Err(err).Msg("Local inference reachable but no models available")
		return "", false
	}

	preferred := local.Model()
	for _, m := range models {
		if m.Name == preferred {
			return preferred, true
		}
	}

	substitute := models[0].Name
	if preferred != "" {
		log.Warn().
			Str("preferred", preferred).
			Str("substitute", substitute).
			Msg("Configured model not installed; substituting")
	}
	return substitute, true
}

// Mode returns the preferred backend recorded at startup.
func (a *Analyzer) Mode() Backend {
	return a.mode
}

// Analyze runs the fallback chain for one block of log lines. It always
// returns a result; backend failures only change which backend answers.
func (a *Analyzer) Analyze(ctx context.Context, lines []string, category Category) Result {
	prompt := buildPrompt(category, joinTail(lines, promptLineLimit))
	degraded := false

	if a.mode == BackendLocal && a.local != nil {
		if text, err := a.generate(ctx, a.local, prompt); err == nil {
			return Result{
				AnalysisType: category,
				LogsAnalyzed: len(lines),
				Analysis:     text,
				Backend:      BackendLocal,
				Model:        a.local.Model(),
				GeneratedAt:  a.nowFn(),
			}
		} else {
			log.Warn().Err(err).Msg("Local inference failed; trying next backend")
			degraded = true
		}
	}

	// Cloud is attempted whenever credentials exist, regardless of the
	// recorded preferred mode.
	if a.cloud != nil {
		if text, err := a.generate(ctx, a.cloud, prompt); err == nil {
			return Result{
				AnalysisType: category,
				LogsAnalyzed: len(lines),
				Analysis:     text,
				Backend:      BackendCloud,
				Model:        modelOf(a.cloud),
				GeneratedAt:  a.nowFn(),
			}
		} else {
			log.Warn().Err(err).Msg("Cloud inference failed; using pattern engine")
			degraded = true
		}
	}

	result := a.engine.Analyze(lines, category)
	result.GeneratedAt = a.nowFn()
	if degraded {
		result.Note = "inference backends unavailable; analysis fell back to pattern matching"
	}
	return result
}

// AnalyzeHealth combines a system snapshot with recent logs into a health
// assessment. Total for the same reasons Analyze is.
func (a *Analyzer) AnalyzeHealth(ctx context.Context, sys monitor.SystemInfo, lines []string) HealthResult {
	prompt := buildHealthPrompt(sys, joinTail(lines, 50))
	degraded := false

	if a.mode == BackendLocal && a.local != nil {
		if text, err := a.generate(ctx, a.local, prompt); err == nil {
			return HealthResult{
				Analysis:     text,
				LogsAnalyzed: len(lines),
				Backend:      BackendLocal,
				Model:        a.local.Model(),
				GeneratedAt:  a.nowFn(),
			}
		} else {
			log.Warn().Err(err).Msg("Local inference failed; trying next backend")
			degraded = true
		}
	}

	if a.cloud != nil {
		if text, err := a.generate(ctx, a.cloud, prompt); err == nil {
			return HealthResult{
				Analysis:     text,
				LogsAnalyzed: len(lines),
				Backend:      BackendCloud,
				Model:        modelOf(a.cloud),
				GeneratedAt:  a.nowFn(),
			}
		} else {
			log.Warn().Err(err).Msg("Cloud inference failed; using pattern engine")
			degraded = true
		}
	}

	result := a.engine.AnalyzeHealth(sys, lines)
	result.GeneratedAt = a.nowFn()
	if degraded {
		result.Note = "inference backends unavailable; analysis fell back to pattern matching"
	}
	return result
}

// modelOf reports the provider's configured model, falling back to the
// provider name.
func modelOf(p providers.Provider) string {
	if m, ok := p.(interface{ Model() string }); ok {
		return m.Model()
	}
	return p.Name()
}

func (a *Analyzer) generate(ctx context.Context, p providers.Provider, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	return p.Generate(callCtx, providers.GenerateRequest{
		System: analystSystemPrompt,
		Prompt: prompt,
	})
}

// joinTail joins at most the last limit lines into one text block.
func joinTail(lines []string, limit int) string {
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return strings.Join(lines, "\n")
}
