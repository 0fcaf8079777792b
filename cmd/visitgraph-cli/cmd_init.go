package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/visitgraph/client"
)

func newInitCmd() *cobra.Command {
	var (
		initURL   string
		skipCheck bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up visitgraph CLI configuration",
		Long:  "Create or update a profile in ~/.visitgraph/config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if initURL == "" {
				initURL = promptURL(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), initURL, flagProfile, skipCheck)
		},
	}

	cmd.Flags().StringVar(&initURL, "server", "", "Server URL (skips the prompt)")
	cmd.Flags().BoolVar(&skipCheck, "no-check", false, "Save without contacting the server")

	return cmd
}

func promptURL(in io.Reader, out io.Writer) string {
	fmt.Fprintf(out, "Server URL [%s]: ", defaultURL)

	line, _ := bufio.NewReader(in).ReadString('\n')
	if line = strings.TrimSpace(line); line != "" {
		return line
	}

	return defaultURL
}

func runInit(ctx context.Context, out io.Writer, url, profile string, skipCheck bool) error {
	if !skipCheck {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		health, err := client.New(url).Health(ctx)
		if err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		fmt.Fprintf(out, "Connected to visitgraph %s (%s backend)\n", health.Version, health.Backend)
	}

	path, err := saveProfile(profile, url)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(out, "Config saved to %s\n", path)

	return nil
}
