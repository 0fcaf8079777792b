package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/persistorai/visitgraph/client"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:3040"

var (
	apiClient   *client.Client
	flagURL     string
	flagProfile string
	flagFmt     string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("visitgraph version %s (commit: %s, built: %s)", version, commit, buildDate)
	}

	return fmt.Sprintf("visitgraph version %s-dev", version)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "visitgraph",
		Short:   "visitgraph CLI: record, lay out and render search visit graphs",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			apiClient = client.New(flagURL, client.WithUserAgent("visitgraph-cli/"+version))
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "visitgraph server URL (env: VISITGRAPH_URL)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Config profile (default: active_profile)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "table", "Output format: json|table|quiet")

	skipClient := func(cmd *cobra.Command, args []string) {}

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = skipClient
	analyzeCmd := newAnalyzeCmd()
	analyzeCmd.PersistentPreRun = skipClient

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newGraphCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig fills flagURL from, in order, the --url flag, VISITGRAPH_URL
// and the config file.
func resolveConfig() {
	if flagURL != defaultURL {
		return
	}
	if v := os.Getenv("VISITGRAPH_URL"); v != "" {
		flagURL = v

		return
	}

	_, cfg, err := loadConfig()
	if err != nil {
		return
	}
	if p, ok := cfg.profile(flagProfile); ok && p.URL != "" {
		flagURL = p.URL
	}
}
