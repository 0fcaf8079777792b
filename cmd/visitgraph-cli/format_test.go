package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatJSON(t *testing.T) {
	type sample struct {
		Name  string `json:"name"`
		Nodes int    `json:"nodes"`
	}

	var buf bytes.Buffer
	if err := formatJSON(&buf, sample{Name: "run1", Nodes: 3}); err != nil {
		t.Fatalf("formatJSON: %v", err)
	}

	var out sample
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, buf.String())
	}
	if out.Name != "run1" || out.Nodes != 3 {
		t.Errorf("got %+v", out)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("expected indented output, got %q", buf.String())
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	formatTable(&buf, []string{"NAME", "NODES"}, [][]string{{"long-graph-name", "12"}, {"b", "3"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "NAME             NODES" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "---------------  -----" {
		t.Errorf("separator = %q", lines[1])
	}
	if lines[3] != "b                3" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestOutputQuiet(t *testing.T) {
	resetFlags(t)
	flagFmt = "quiet"

	var buf bytes.Buffer
	if err := output(&buf, map[string]int{"n": 1}, "run1"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "run1\n" {
		t.Errorf("quiet output = %q", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"line one\nline two", 40, "line one line two"},
		{"abcdefghij", 5, "abcd…"},
		{"ééééé", 5, "ééééé"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
