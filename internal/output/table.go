package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spotlesstofu/podman-peerpods/api/v1alpha1"
	"github.com/spotlesstofu/podman-peerpods/internal/engine"
)

// TableFormatter formats resources as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

// FormatOnboarding formats a session as a single table row.
func (f *TableFormatter) FormatOnboarding(o *v1alpha1.Onboarding) (string, error) {
	if o == nil {
		return "No onboarding session recorded\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tPHASE\tINSTALLED\tCONNECTION\tCONTAINER\tAGE")
	}

	phase := string(o.Status.Phase)
	if phase == "" {
		phase = "-"
	}
	conn := dashIfEmpty(o.Spec.ConnectionName)
	container := dashIfEmpty(shortID(o.Status.ContainerID))

	age := "-"
	if !o.CreationTimestamp.IsZero() {
		age = formatAge(time.Since(o.CreationTimestamp.Time))
	}

	_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\n",
		o.Name, phase, o.Status.Installed, conn, container, age)

	_ = w.Flush()
	return buf.String(), nil
}

// FormatConnections formats engine connections as a table.
func (f *TableFormatter) FormatConnections(conns []engine.Connection) (string, error) {
	if len(conns) == 0 {
		return "No connections found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "NAME\tTYPE\tSTATUS\tDEFAULT\tENDPOINT")
	}
	for _, c := range conns {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			c.DisplayName, c.Type, dashIfEmpty(c.Status), c.Default, dashIfEmpty(c.Endpoint))
	}

	_ = w.Flush()
	return buf.String(), nil
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// formatAge formats a duration as a human-readable age string.
// Examples: "5s", "2m", "3h", "4d", "2w", "1y"
func formatAge(d time.Duration) string {
	if d < 0 {
		return "unknown"
	}

	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}

	weeks := days / 7
	if weeks < 8 {
		return fmt.Sprintf("%dw", weeks)
	}

	years := days / 365
	if years > 0 {
		return fmt.Sprintf("%dy", years)
	}

	return fmt.Sprintf("%dd", days)
}
