package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bytedance/sonic"
)

// TraceState is one step of an explored execution trace.
type TraceState struct {
	Key  int64
	Repr string
}

// VisitGraph accumulates visit counts and transitions across traces.
// It is not safe for concurrent use.
type VisitGraph struct {
	Nodes map[int64]*Node `json:"Nodes"`
}

// NewVisitGraph returns an empty VisitGraph.
func NewVisitGraph() *VisitGraph {
	return &VisitGraph{Nodes: make(map[int64]*Node)}
}

// IsEmpty reports whether no trace has been recorded.
func (v *VisitGraph) IsEmpty() bool {
	return len(v.Nodes) == 0
}

// Update folds one trace into the graph. Every state on the trace gets one
// visit and consecutive states are linked.
func (v *VisitGraph) Update(trace []TraceState) {
	if len(trace) == 0 {
		return
	}

	for i := 0; i < len(trace)-1; i++ {
		cur := v.node(trace[i])
		next := v.node(trace[i+1])

		cur.Visits++
		cur.AddNext(next.Key)
		next.AddPrev(cur.Key)
	}

	v.node(trace[len(trace)-1]).Visits++
}

func (v *VisitGraph) node(s TraceState) *Node {
	n, ok := v.Nodes[s.Key]
	if !ok {
		n = &Node{Key: s.Key, State: s.Repr, NeedsDepth: true, NeedsSibling: true}
		v.Nodes[s.Key] = n
	}

	return n
}

// Graph converts the recorded nodes into a Graph keyed by decimal state key.
func (v *VisitGraph) Graph() *Graph {
	g := NewGraph()
	for k, n := range v.Nodes {
		g.Nodes[strconv.FormatInt(k, 10)] = n.Clone()
	}

	return g
}

// Record writes the graph to dir as visit_graph_<name>.json.
func (v *VisitGraph) Record(dir, name string) error {
	if err := ValidateGraphName(name); err != nil {
		return err
	}

	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding visit graph: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, GraphFileName(name)))
	if err != nil {
		return fmt.Errorf("creating visit graph file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing visit graph: %w", err)
	}

	return w.Flush()
}
