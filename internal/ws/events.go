package ws

import (
	"time"

	"github.com/bytedance/sonic"
)

// EventGraphUpdated announces that a named graph was written or changed on disk.
const EventGraphUpdated = "graph_updated"

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type  string    `json:"type"`
	ID    uint64    `json:"id"`
	Graph string    `json:"-"`
	Data  GraphRef  `json:"data"`
	Time  time.Time `json:"time"`
}

// GraphRef names the graph an event is about.
type GraphRef struct {
	Name string `json:"name"`
}

// SubscribeMsg is sent by the client to pick a graph to follow and request
// replay of the events it missed. An empty Graph follows every graph.
type SubscribeMsg struct {
	Type        string `json:"type"`
	Graph       string `json:"graph,omitempty"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e *Event) encode() ([]byte, error) {
	return sonic.Marshal(e)
}
