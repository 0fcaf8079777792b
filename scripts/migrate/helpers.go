package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
)

// sanitizeURL removes credentials from a database URL for display.
func sanitizeURL(raw string) string {
	if raw == "" {
		return "(none)"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable URL]"
	}
	u.User = nil
	return u.String()
}

// envOr returns the environment variable value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// printReport outputs the final migration summary.
func printReport(w io.Writer, r *report) {
	status := statusIcon(r.GraphsRead-len(r.Skipped), r.GraphsInserted, r.GraphsVerified)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Visit Graph Migration Report ===")
	if r.DryRun {
		fmt.Fprintln(w, "MODE: DRY RUN (no changes made)")
	}
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	fmt.Fprintf(w, "Target: %s\n", r.Target)
	fmt.Fprintln(w)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "Graphs: %d read → %d inserted (%d skipped) → %d verified %s\n",
			r.GraphsRead, r.GraphsInserted, len(r.Skipped), r.GraphsVerified, status)
	} else {
		fmt.Fprintf(w, "Graphs: %d read → %d inserted → %d verified %s\n",
			r.GraphsRead, r.GraphsInserted, r.GraphsVerified, status)
	}
	fmt.Fprintf(w, "Nodes:  %d read\n", r.NodesRead)

	if len(r.Skipped) > 0 {
		fmt.Fprintln(w, "\nSkipped graphs:")
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "  - %s (reason: %s)\n", s.Name, s.Reason)
		}
	}

	if len(r.SpotChecks) > 0 {
		fmt.Fprintln(w, "\nSpot checks:")
		for _, c := range r.SpotChecks {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}

	fmt.Fprintf(w, "\nDuration: %.1fs\n", r.Duration.Seconds())
	if r.Err != nil {
		fmt.Fprintf(w, "Status: FAILED: %v\n", r.Err)
	} else {
		fmt.Fprintln(w, "Status: SUCCESS")
	}
}

// statusIcon returns a check or X based on count match.
func statusIcon(expected, inserted, verified int) string {
	if verified == 0 && inserted > 0 {
		return "⏳"
	}
	if expected == inserted && inserted == verified {
		return "✅"
	}
	return "❌"
}
