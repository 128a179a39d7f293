package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/infrascope/infrascope/internal/analyzer"
	"github.com/infrascope/infrascope/internal/config"
	"github.com/infrascope/infrascope/internal/logging"
	"github.com/infrascope/infrascope/internal/mcp"
	"github.com/infrascope/infrascope/internal/monitor"
	"github.com/infrascope/infrascope/internal/tools"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "infrascope",
	Short:   "Infrascope - system monitoring and log analysis over MCP",
	Long:    `Infrascope is an MCP server that exposes local system monitoring tools and AI-assisted log analysis to chat clients over stdio`,
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Infrascope %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Printf("Built: %s\n", BuildTime)
		}
		if GitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", GitCommit)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer() error {
	cfg := config.Load()

	logging.Init(logging.Config{
		Format:    cfg.LogFormat,
		Level:     cfg.LogLevel,
		Component: "infrascope",
		FilePath:  cfg.LogFile,
	})
	defer logging.Shutdown()

	log.Info().
		Str("version", Version).
		Msg("Starting Infrascope MCP server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon := monitor.New()
	an := analyzer.New(ctx, analyzer.Config{
		OllamaBaseURL:  cfg.OllamaBaseURL,
		OllamaModel:    cfg.OllamaModel,
		GeminiAPIKey:   cfg.GeminiAPIKey,
		GeminiModel:    cfg.GeminiModel,
		ProbeTimeout:   cfg.ProbeTimeout,
		AnalyzeTimeout: cfg.AnalyzeTimeout,
	})
	log.Info().Str("mode", string(an.Mode())).Msg("Analysis backend selected")

	executor := tools.NewExecutor(mon, an)
	server := mcp.NewServer(mcp.ServerInfo{Name: "infrascope", Version: Version}, executor)

	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return err
	}

	log.Info().Msg("Server shut down")
	return nil
}
