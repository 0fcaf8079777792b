// Package models defines the visit graph types shared across the service.
package models

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Node is one explored state in a visit graph.
//
// Depth and Sibling are layout coordinates. A recorder or an uploader may
// supply them; the layout package fills in only the ones still missing,
// which NeedsDepth and NeedsSibling mark. A node that needs a coordinate
// is encoded without it.
type Node struct {
	Key     int64          `json:"Key"`
	State   string         `json:"State"`
	Visits  int            `json:"Visits"`
	Depth   int            `json:"Depth"`
	Sibling int            `json:"Sibling"`
	Next    map[int64]bool `json:"Next,omitempty"`
	Prev    map[int64]bool `json:"Prev,omitempty"`

	NeedsDepth   bool `json:"-"`
	NeedsSibling bool `json:"-"`
}

// MarshalJSON omits the coordinates the node is still waiting for, so a
// stored graph keeps telling placed nodes from unplaced ones.
func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node

	out := struct {
		plain
		Depth   *int `json:"Depth,omitempty"`
		Sibling *int `json:"Sibling,omitempty"`
	}{plain: plain(n)}

	if !n.NeedsDepth {
		out.Depth = &n.Depth
	}
	if !n.NeedsSibling {
		out.Sibling = &n.Sibling
	}

	return sonic.Marshal(out)
}

// Validate reports whether the node carries usable layout and magnitude values.
func (n *Node) Validate() error {
	switch {
	case n.Visits < 0:
		return fmt.Errorf("%w: negative visits %d", ErrMalformedNode, n.Visits)
	case n.Depth < 0:
		return fmt.Errorf("%w: negative depth %d", ErrMalformedNode, n.Depth)
	case n.Sibling < 0:
		return fmt.Errorf("%w: negative sibling %d", ErrMalformedNode, n.Sibling)
	}

	return nil
}

// AddNext records a successor. Self loops are ignored.
func (n *Node) AddNext(next int64) {
	if next == n.Key {
		return
	}
	if n.Next == nil {
		n.Next = make(map[int64]bool)
	}
	n.Next[next] = true
}

// AddPrev records a predecessor. Self loops are ignored.
func (n *Node) AddPrev(prev int64) {
	if prev == n.Key {
		return
	}
	if n.Prev == nil {
		n.Prev = make(map[int64]bool)
	}
	n.Prev[prev] = true
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	c.Next = cloneSet(n.Next)
	c.Prev = cloneSet(n.Prev)

	return &c
}

func cloneSet(s map[int64]bool) map[int64]bool {
	if s == nil {
		return nil
	}
	out := make(map[int64]bool, len(s))
	for k, v := range s {
		out[k] = v
	}

	return out
}
