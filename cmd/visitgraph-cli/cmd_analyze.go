package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/persistorai/visitgraph/internal/layout"
	"github.com/persistorai/visitgraph/internal/models"
)

func newAnalyzeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "analyze <graph-file>",
		Short: "Lay out a recorded visit graph file offline",
		Long: "Compute Depth, Sibling, StartStates and Edges for a recorded visit graph.\n" +
			"The file is rewritten in place unless --out is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				outPath = args[0]
			}

			g, skipped, err := analyzeFile(args[0], outPath)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			fmt.Fprintf(stderr, "laid out %d node(s) in %d row(s) from %d start state(s)\n",
				g.Len(), rowCount(g), len(g.StartStates))
			if len(skipped) > 0 {
				fmt.Fprintf(stderr, "dropped %d malformed node(s): %v\n", len(skipped), skipped)
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the laid-out graph here instead of rewriting the input")

	return cmd
}

func analyzeFile(in, out string) (*models.Graph, []string, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return nil, nil, fmt.Errorf("reading graph: %w", err)
	}

	raw, skipped, err := models.DecodeVisitGraph(data)
	if err != nil {
		return nil, nil, fmt.Errorf("reading graph %s: %w", in, err)
	}

	g := layout.Analyze(raw)

	encoded, err := sonic.Marshal(g)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding graph: %w", err)
	}

	if err := writeFileAtomic(out, encoded); err != nil {
		return nil, nil, err
	}

	return g, skipped, nil
}

func rowCount(g *models.Graph) int {
	rows := -1
	for _, n := range g.Nodes {
		rows = max(rows, n.Depth)
	}

	return rows + 1
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".analyze-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup.

		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup.

		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup.

		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}
