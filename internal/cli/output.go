package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
)

// Table streams tab-aligned rows. Nothing is visible until Render.
type Table struct {
	tw   *tabwriter.Writer
	cols int
}

// NewTable writes the header row and an underline of dashes.
func NewTable(w io.Writer, headers ...string) *Table {
	t := &Table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0), cols: len(headers)}
	t.AddRow(headers...)
	underline := make([]string, len(headers))
	for i, h := range headers {
		underline[i] = strings.Repeat("-", len(h))
	}
	t.AddRow(underline...)
	return t
}

// AddRow pads short rows so every line has the same column count.
func (t *Table) AddRow(cols ...string) {
	for len(cols) < t.cols {
		cols = append(cols, "")
	}
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *Table) Render() {
	_ = t.tw.Flush()
}

func validFormat(format string) bool {
	switch format {
	case "table", "json", "yaml":
		return true
	}
	return false
}

// structured reports whether the caller asked for json or yaml and, if so,
// prints data in that format.
func structured(w io.Writer, data interface{}) (bool, error) {
	switch getOutputFormat() {
	case "json":
		return true, printJSON(w, data)
	case "yaml":
		return true, printYAML(w, data)
	default:
		return false, nil
	}
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// printYAML goes through JSON first so field names match the API
func printYAML(w io.Writer, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatPriority returns a priority string with visual indicator.
func formatPriority(priority string) string {
	switch strings.ToLower(priority) {
	case "urgent":
		return "[!] URGENT"
	case "high":
		return "[H] HIGH"
	case "medium":
		return "[M] MEDIUM"
	case "low":
		return "[L] LOW"
	default:
		return priority
	}
}

// formatStatus returns a status string with visual indicator.
func formatStatus(status string) string {
	switch strings.ToLower(status) {
	case "active", "done", "completed", "client", "trial":
		return "[+] " + status
	case "cancelled", "expired", "inactive", "archived":
		return "[-] " + status
	case "todo", "in_progress", "in_review", "lead", "prospect":
		return "[*] " + status
	case "on_hold":
		return "[~] " + status
	default:
		return status
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
