package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/persistorai/visitgraph/internal/models"
	"github.com/persistorai/visitgraph/internal/store"
)

func recordGraph(t *testing.T, dir, name string, trace ...int64) {
	t.Helper()

	v := models.NewVisitGraph()
	states := make([]models.TraceState, 0, len(trace))
	for _, k := range trace {
		states = append(states, models.TraceState{Key: k, Repr: "s"})
	}
	v.Update(states)
	if err := v.Record(dir, name); err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestCopyGraphs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srcDir := t.TempDir()
	recordGraph(t, srcDir, "alpha", 1, 2, 3)
	recordGraph(t, srcDir, "beta", 7, 8)
	if err := os.WriteFile(filepath.Join(srcDir, "visit_graph_broken.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	var r report
	graphs, err := readGraphs(ctx, store.NewFileStore(srcDir, log), &r)
	if err != nil {
		t.Fatalf("readGraphs: %v", err)
	}

	if r.GraphsRead != 3 || len(graphs) != 2 {
		t.Fatalf("read %d, kept %d; want 3 and 2", r.GraphsRead, len(graphs))
	}
	if len(r.Skipped) != 1 || r.Skipped[0].Name != "broken" {
		t.Errorf("skipped = %+v, want broken", r.Skipped)
	}
	if r.NodesRead != 5 {
		t.Errorf("NodesRead = %d, want 5", r.NodesRead)
	}

	dst := store.NewFileStore(t.TempDir(), log)
	if err := writeGraphs(ctx, dst, graphs, &r); err != nil {
		t.Fatalf("writeGraphs: %v", err)
	}

	verified, err := verifyGraphs(ctx, dst, graphs)
	if err != nil {
		t.Fatalf("verifyGraphs: %v", err)
	}
	if verified != 2 {
		t.Errorf("verified = %d, want 2", verified)
	}

	for _, c := range spotCheck(ctx, dst, graphs) {
		if !strings.HasPrefix(c, "OK") {
			t.Errorf("spot check failed: %s", c)
		}
	}
}

func TestGraphDiff(t *testing.T) {
	t.Parallel()

	want := models.NewGraph()
	want.Nodes["1"] = &models.Node{Key: 1, Visits: 3}
	want.Nodes["2"] = &models.Node{Key: 2, Visits: 1}

	got := want.Clone()
	if d := graphDiff(want, got); d != "" {
		t.Errorf("identical graphs differ: %s", d)
	}

	got.Nodes["2"].Visits = 9
	if d := graphDiff(want, got); !strings.Contains(d, "node 2") {
		t.Errorf("diff = %q, want node 2 mismatch", d)
	}

	delete(got.Nodes, "2")
	if d := graphDiff(want, got); !strings.Contains(d, "node count") {
		t.Errorf("diff = %q, want count mismatch", d)
	}
}

func TestPrintReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printReport(&buf, &report{
		Source:         "/traces",
		Target:         sanitizeURL("postgres://user:pw@db:5432/visitgraph"),
		GraphsRead:     3,
		GraphsInserted: 2,
		GraphsVerified: 2,
		Skipped:        []skippedGraph{{Name: "broken", Reason: "bad json"}},
	})

	out := buf.String()
	for _, want := range []string{"3 read → 2 inserted (1 skipped) → 2 verified ✅", "broken (reason: bad json)", "Status: SUCCESS"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "pw") {
		t.Error("report leaked database password")
	}
}
