package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persistorai/visitgraph/client"
	"github.com/persistorai/visitgraph/internal/models"
	"github.com/persistorai/visitgraph/internal/render"
	"github.com/persistorai/visitgraph/internal/viewer"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Fetch, list, render and upload visit graphs",
	}
	cmd.AddCommand(graphGetCmd())
	cmd.AddCommand(graphListCmd())
	cmd.AddCommand(graphRenderCmd())
	cmd.AddCommand(graphUploadCmd())

	return cmd
}

func graphGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show the laid-out nodes of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, skipped, err := apiClient.Graphs.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get graph: %w", err)
			}

			out := cmd.OutOrStdout()
			if flagFmt != "table" {
				return output(out, g, strconv.Itoa(g.Len()))
			}

			formatTable(out, []string{"ID", "DEPTH", "SIBLING", "VISITS", "STATE"}, nodeRows(g))
			if len(skipped) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d malformed node(s): %v\n", len(skipped), skipped)
			}

			return nil
		},
	}
}

// nodeRows lists nodes top to bottom then left to right.
func nodeRows(g *models.Graph) [][]string {
	ids := g.IDs()
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := g.Nodes[ids[i]], g.Nodes[ids[j]]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}

		return a.Sibling < b.Sibling
	})

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		n := g.Nodes[id]
		rows = append(rows, []string{
			id,
			strconv.Itoa(n.Depth),
			strconv.Itoa(n.Sibling),
			strconv.Itoa(n.Visits),
			truncate(n.State, 40),
		})
	}

	return rows
}

func graphListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := apiClient.Graphs.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list graphs: %w", err)
			}

			out := cmd.OutOrStdout()
			switch flagFmt {
			case "table":
				rows := make([][]string, 0, len(graphs))
				for _, g := range graphs {
					rows = append(rows, []string{g.Name, strconv.Itoa(g.NodeCount), g.UpdatedAt.Format(time.RFC3339)})
				}
				formatTable(out, []string{"NAME", "NODES", "UPDATED"}, rows)
			case "quiet":
				for _, g := range graphs {
					fmt.Fprintln(out, g.Name)
				}
			default:
				return formatJSON(out, graphs)
			}

			return nil
		},
	}
}

func graphRenderCmd() *cobra.Command {
	var (
		outPath string
		server  bool
	)

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a graph as SVG",
		Long: "Render a graph as an SVG scatter of circles sized by visit count.\n" +
			"By default the graph is fetched and drawn locally; --server asks the server to draw it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				svg     []byte
				drawn   int
				skipped int
				err     error
			)

			if server {
				var r *client.Render
				r, err = apiClient.Graphs.SVG(cmd.Context(), args[0])
				if err == nil {
					svg, drawn, skipped = r.SVG, r.Drawn, r.Skipped
				}
			} else {
				svg, drawn, skipped, err = renderLocal(cmd.Context(), apiClient.Graphs, args[0])
			}
			if err != nil {
				return fmt.Errorf("render graph: %w", err)
			}

			if err := writeOutput(cmd.OutOrStdout(), outPath, svg); err != nil {
				return err
			}

			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d circle(s) to %s\n", drawn, outPath)
			}
			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d malformed node(s)\n", skipped)
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the SVG to this file instead of stdout")
	cmd.Flags().BoolVar(&server, "server", false, "Render on the server")

	return cmd
}

func renderLocal(ctx context.Context, graphs *client.GraphService, name string) ([]byte, int, int, error) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	canvas := render.NewCanvas()

	res, err := viewer.New(graphs, canvas, log).Show(ctx, name)
	if err != nil {
		return nil, 0, 0, err
	}

	svg, err := canvas.SVG()
	if err != nil {
		return nil, 0, 0, err
	}

	return svg, res.Drawn, len(res.Skipped), nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)

		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec // output meant to be shared.
}

func graphUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <name> <file>",
		Short: "Upload a recorded visit graph file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := models.ValidateGraphName(args[0]); err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			res, err := apiClient.Graphs.PutRaw(cmd.Context(), args[0], data)
			if err != nil {
				return fmt.Errorf("upload graph: %w", err)
			}

			out := cmd.OutOrStdout()
			if flagFmt == "table" {
				fmt.Fprintf(out, "uploaded %s: %d node(s)\n", res.Name, res.Nodes)
				if len(res.Skipped) > 0 {
					fmt.Fprintf(out, "skipped %d malformed node(s): %v\n", len(res.Skipped), res.Skipped)
				}

				return nil
			}

			return output(out, res, res.Name)
		},
	}
}
