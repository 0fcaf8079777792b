package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/visitgraph/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), cmd.OutOrStdout(), apiClient)
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(ctx context.Context, out io.Writer, c *client.Client) error {
	fmt.Fprintln(out, "\nvisitgraph doctor")
	fmt.Fprintln(out, "=================")

	var results []checkResult

	cfgPath, _, cfgErr := loadConfig()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: "none, using flags and environment",
		})
	} else {
		results = append(results, checkResult{Name: "Config file", Passed: true, Detail: cfgPath})
	}

	results = append(results, checkResult{Name: "Server URL", Passed: true, Detail: flagURL})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := c.Health(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server reachable", Passed: false, Detail: flagURL,
			Hint: fmt.Sprintf("Is the server running? Try: visitgraph init --server <url>\n   Error: %v", err),
		})
	} else {
		results = append(results, checkResult{
			Name: "Server reachable", Passed: true,
			Detail: fmt.Sprintf("v%s, %s backend, database %s", health.Version, health.Backend, health.Database),
		})

		ready, err := c.Ready(ctx)
		if err != nil {
			results = append(results, checkResult{
				Name: "Server ready", Passed: false,
				Hint: fmt.Sprintf("Check GRAPH_PATH or DATABASE_URL on the server. Error: %v", err),
			})
		} else {
			results = append(results, checkResult{Name: "Server ready", Passed: true, Detail: ready.Status})
		}

		graphs, err := c.Graphs.List(ctx)
		if err != nil {
			results = append(results, checkResult{Name: "Graphs", Passed: false, Hint: err.Error()})
		} else {
			results = append(results, checkResult{Name: "Graphs", Passed: true, Detail: fmt.Sprintf("%d stored", len(graphs))})
		}
	}

	return printResults(out, results)
}

func printResults(out io.Writer, results []checkResult) error {
	fmt.Fprintln(out)

	allPassed := true
	for _, r := range results {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
			allPassed = false
		}

		if r.Detail != "" {
			fmt.Fprintf(out, "%s %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Fprintf(out, "%s %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Fprintf(out, "   Hint: %s\n", r.Hint)
		}
	}

	fmt.Fprintln(out)
	if !allPassed {
		fmt.Fprintln(out, "❌ Some checks failed.")

		return fmt.Errorf("doctor found issues")
	}
	fmt.Fprintln(out, "✅ All checks passed!")

	return nil
}
