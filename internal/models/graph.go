package models

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// Graph is a named snapshot of a visit graph keyed by node identifier.
// Skipped lists nodes dropped as malformed when the graph was decoded.
type Graph struct {
	Nodes       map[string]*Node `json:"Nodes"`
	StartStates []string         `json:"StartStates,omitempty"`
	Edges       [][2]string      `json:"Edges,omitempty"`
	Skipped     []string         `json:"Skipped,omitempty"`
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}

	return len(g.Nodes)
}

// IDs returns the node identifiers in ascending order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, g.Len())
	if g == nil {
		return ids
	}
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := NewGraph()
	if g == nil {
		return out
	}
	for id, n := range g.Nodes {
		if n != nil {
			out.Nodes[id] = n.Clone()
		}
	}
	out.StartStates = append([]string(nil), g.StartStates...)
	out.Edges = append([][2]string(nil), g.Edges...)
	out.Skipped = append([]string(nil), g.Skipped...)

	return out
}

// wireNode mirrors Node with optional fields so absent values can be told
// apart from zeros.
type wireNode struct {
	Key     *int64          `json:"Key"`
	State   any             `json:"State"`
	Visits  *int            `json:"Visits"`
	Depth   *int            `json:"Depth"`
	Sibling *int            `json:"Sibling"`
	Next    map[string]bool `json:"Next"`
	Prev    map[string]bool `json:"Prev"`
}

type wireGraph struct {
	Nodes       map[string]*wireNode `json:"Nodes"`
	StartStates []string             `json:"StartStates"`
	Edges       [][2]string          `json:"Edges"`
	Skipped     []string             `json:"Skipped"`
}

// ParseGraph decodes a laid-out graph as served by GET /graph/{name}.
// Nodes lacking Visits, Depth or Sibling, or carrying negative values, are
// dropped. Their identifiers, together with any the document already listed
// as skipped, are returned in ascending order and kept in Graph.Skipped.
func ParseGraph(data []byte) (*Graph, []string, error) {
	return decode(data, true)
}

// DecodeVisitGraph decodes a recorded visit graph. Layout coordinates are
// optional; nodes without Visits are dropped and reported.
func DecodeVisitGraph(data []byte) (*Graph, []string, error) {
	return decode(data, false)
}

func decode(data []byte, requireLayout bool) (*Graph, []string, error) {
	var wg wireGraph
	if err := sonic.Unmarshal(data, &wg); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedGraph, err)
	}

	g := NewGraph()
	skipped := append([]string(nil), wg.Skipped...)

	for id, wn := range wg.Nodes {
		n, err := wn.toNode(id, requireLayout)
		if err != nil {
			skipped = append(skipped, id)

			continue
		}
		g.Nodes[id] = n
	}

	g.StartStates = wg.StartStates
	g.Edges = wg.Edges
	g.Skipped = MergeIDs(skipped)

	return g, g.Skipped, nil
}

func (wn *wireNode) toNode(id string, requireLayout bool) (*Node, error) {
	if wn == nil {
		return nil, fmt.Errorf("%w: node %q is null", ErrMalformedNode, id)
	}
	if wn.Visits == nil {
		return nil, ErrMissingField(id, "Visits")
	}
	if requireLayout {
		if wn.Depth == nil {
			return nil, ErrMissingField(id, "Depth")
		}
		if wn.Sibling == nil {
			return nil, ErrMissingField(id, "Sibling")
		}
	}

	n := &Node{
		Visits:       *wn.Visits,
		State:        stateString(wn.State),
		NeedsDepth:   wn.Depth == nil,
		NeedsSibling: wn.Sibling == nil,
	}
	if wn.Depth != nil {
		n.Depth = *wn.Depth
	}
	if wn.Sibling != nil {
		n.Sibling = *wn.Sibling
	}

	switch {
	case wn.Key != nil:
		n.Key = *wn.Key
	default:
		// Recorded graphs key nodes by the decimal state hash.
		if k, err := strconv.ParseInt(id, 10, 64); err == nil {
			n.Key = k
		}
	}

	var err error
	if n.Next, err = parseKeySet(wn.Next); err != nil {
		return nil, fmt.Errorf("node %q next: %w", id, err)
	}
	if n.Prev, err = parseKeySet(wn.Prev); err != nil {
		return nil, fmt.Errorf("node %q prev: %w", id, err)
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// stateString renders an opaque state value for display. Strings pass through;
// structured values are re-encoded as JSON.
func stateString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		b, err := sonic.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}

		return string(b)
	}
}

func parseKeySet(in map[string]bool) (map[int64]bool, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[int64]bool, len(in))
	for k, v := range in {
		key, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q is not an integer", ErrMalformedNode, k)
		}
		out[key] = v
	}

	return out, nil
}

// MergeIDs returns the distinct identifiers of all lists in ascending order,
// or nil when there are none.
func MergeIDs(lists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, l := range lists {
		for _, id := range l {
			seen[id] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}

// GraphInfo describes a stored graph without loading it.
type GraphInfo struct {
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count,omitempty"`
	SizeBytes int64     `json:"size_bytes,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
