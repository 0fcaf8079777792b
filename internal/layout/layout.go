// Package layout assigns tree coordinates to visit graph nodes.
//
// Coordinates a node already carries are kept. A missing Depth is the
// shortest distance from any start state (a node with no predecessors) or
// from any node whose depth was supplied. A missing Sibling is the lowest
// free slot in the node's depth row, with unplaced nodes taking slots in
// state key order. Nodes that nothing reaches, which happens when
// exploration only ever revisits a cycle, share one extra row below the
// deepest one.
package layout

import (
	"sort"
	"strconv"

	"github.com/persistorai/visitgraph/internal/models"
)

// Analyze returns a copy of g with every Depth and Sibling filled in, plus
// StartStates and Edges. The input graph is not modified.
func Analyze(g *models.Graph) *models.Graph {
	out := g.Clone()
	if out.Len() == 0 {
		out.StartStates = nil
		out.Edges = nil

		return out
	}

	byKey := indexByKey(out)
	starts := startStates(out)
	depth := placeDepths(out, byKey, starts)

	maxDepth := -1
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	for id := range out.Nodes {
		if _, ok := depth[id]; !ok {
			depth[id] = maxDepth + 1
		}
	}

	assignSiblings(out, depth)

	out.StartStates = starts
	out.Edges = collectEdges(out, byKey)

	return out
}

// indexByKey maps state keys back to node identifiers so Next/Prev sets can
// be resolved.
func indexByKey(g *models.Graph) map[int64]string {
	idx := make(map[int64]string, g.Len())
	for _, id := range g.IDs() {
		k := g.Nodes[id].Key
		if _, dup := idx[k]; !dup {
			idx[k] = id
		}
	}

	return idx
}

func startStates(g *models.Graph) []string {
	var starts []string
	for _, id := range g.IDs() {
		if len(g.Nodes[id].Prev) == 0 {
			starts = append(starts, id)
		}
	}

	return starts
}

// placeDepths runs a breadth-first search seeded with every node whose depth
// is known: supplied depths as given, unplaced start states at 0. Levels are
// expanded in ascending order so each unplaced node gets its shortest
// distance. Supplied depths are never changed.
func placeDepths(g *models.Graph, byKey map[int64]string, starts []string) map[string]int {
	depth := make(map[string]int, g.Len())
	levels := make(map[int][]string)

	seed := func(id string, d int) {
		depth[id] = d
		levels[d] = append(levels[d], id)
	}

	for _, id := range g.IDs() {
		if n := g.Nodes[id]; !n.NeedsDepth {
			seed(id, n.Depth)
		}
	}
	for _, id := range starts {
		if _, ok := depth[id]; !ok {
			seed(id, 0)
		}
	}

	seedLevels := make([]int, 0, len(levels))
	for d := range levels {
		seedLevels = append(seedLevels, d)
	}
	sort.Ints(seedLevels)

	for i := 0; i < len(seedLevels); {
		d := seedLevels[i]
		for {
			for _, cur := range levels[d] {
				for _, next := range sortedKeys(g.Nodes[cur].Next) {
					nid, ok := byKey[next]
					if !ok {
						continue
					}
					if _, seen := depth[nid]; seen {
						continue
					}
					depth[nid] = d + 1
					levels[d+1] = append(levels[d+1], nid)
				}
			}
			delete(levels, d)

			if len(levels[d+1]) == 0 {
				break
			}
			d++
		}

		for i < len(seedLevels) && seedLevels[i] <= d {
			i++
		}
	}

	return depth
}

func assignSiblings(g *models.Graph, depth map[string]int) {
	rows := make(map[int][]string)
	for id, d := range depth {
		rows[d] = append(rows[d], id)
	}

	for d, ids := range rows {
		sort.Slice(ids, func(i, j int) bool {
			ki, kj := g.Nodes[ids[i]].Key, g.Nodes[ids[j]].Key
			if ki != kj {
				return ki < kj
			}

			return ids[i] < ids[j]
		})

		taken := make(map[int]bool)
		for _, id := range ids {
			if n := g.Nodes[id]; !n.NeedsSibling {
				taken[n.Sibling] = true
			}
		}

		slot := 0
		for _, id := range ids {
			n := g.Nodes[id]
			n.Depth = d
			n.NeedsDepth = false
			if !n.NeedsSibling {
				continue
			}
			for taken[slot] {
				slot++
			}
			n.Sibling = slot
			n.NeedsSibling = false
			slot++
		}
	}
}

func collectEdges(g *models.Graph, byKey map[int64]string) [][2]string {
	var edges [][2]string
	for _, id := range g.IDs() {
		for _, next := range sortedKeys(g.Nodes[id].Next) {
			nid, ok := byKey[next]
			if !ok {
				nid = strconv.FormatInt(next, 10)
			}
			edges = append(edges, [2]string{id, nid})
		}
	}

	return edges
}

func sortedKeys(s map[int64]bool) []int64 {
	keys := make([]int64, 0, len(s))
	for k, ok := range s {
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
