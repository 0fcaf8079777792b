package db

import (
	"testing"
	"time"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		payload string
		want    string
		ok      bool
	}{
		{`{"name":"random","type":"graph_updated"}`, "random", true},
		{`{"type":"graph_updated"}`, "", false},
		{`not json`, "", false},
		{`{"name":""}`, "", false},
		{`{"name":"run\u002d7","op":"UPDATE"}`, "run-7", true},
	}

	for _, tt := range tests {
		got, ok := parsePayload(tt.payload)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parsePayload(%q) = %q, %v; want %q, %v", tt.payload, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNextBackoff_Capped(t *testing.T) {
	b := initialBackoff
	for range 20 {
		b = nextBackoff(b)
		if b > maxBackoff+maxBackoff/4 {
			t.Fatalf("backoff %v exceeds cap with jitter", b)
		}
	}
}

func TestNextBackoff_Grows(t *testing.T) {
	got := nextBackoff(time.Second)
	if got < 1500*time.Millisecond || got > 2500*time.Millisecond {
		t.Errorf("nextBackoff(1s) = %v, want within ±25%% of 2s", got)
	}
}
