package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printStatus renders the session as a step list, or JSON with --json.
func printStatus(w io.Writer, status app.Status) error {
	if jsonOut {
		return printJSON(w, status)
	}

	_, _ = fmt.Fprintf(w, "%s  session %s  %s mode\n", status.Name, status.Session, status.Mode)
	if status.Total > 0 {
		current := status.Steps[status.Index]
		_, _ = fmt.Fprintf(w, "Step %d/%d: %s\n\n", status.Index+1, status.Total, current.Title)
	}

	width := 0
	for _, v := range status.Steps {
		width = max(width, len(v.Title))
	}

	for _, v := range status.Steps {
		cursor := " "
		if v.ID == status.Current {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %-*s  %s", cursor, marker(v.UIStatus), width, v.Title, v.Status)
		if v.Skipped {
			line += "  (skipped)"
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	return nil
}

func marker(ui step.UIStatus) string {
	switch ui {
	case step.UISuccess:
		return "✓"
	case step.UIActive:
		return "●"
	default:
		return "○"
	}
}

// parseValue reads a CLI metadata argument as JSON, falling back to the
// raw string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
