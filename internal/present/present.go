// Package present renders simdrive results as tables, JSON or YAML.
package present

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/k-kohey/simdrive/internal/platform"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Table, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
}

// Value writes v as JSON or YAML. For Table, table renders it instead.
func Value(w io.Writer, format Format, v any, table func(io.Writer) error) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return table(w)
	}
}

// Simulators writes a simulator list. An empty list is "[]" in JSON, not null.
func Simulators(w io.Writer, format Format, sims []platform.Simulator) error {
	if sims == nil {
		sims = []platform.Simulator{}
	}
	return Value(w, format, sims, func(w io.Writer) error {
		return simulatorTable(w, sims)
	})
}

func simulatorTable(w io.Writer, sims []platform.Simulator) error {
	if len(sims) == 0 {
		_, err := fmt.Fprintln(w, "No available iOS simulators.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "UDID\tNAME\tRUNTIME\tBUILD\tSTATE")
	for _, s := range sims {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.UDID, s.Name, s.Runtime, s.BuildVersion, s.State)
	}
	return tw.Flush()
}

// LineWriter writes one compact JSON document per line. It is safe for
// concurrent use.
type LineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineWriter creates a LineWriter that writes to w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// Send marshals v and writes it followed by a newline in a single write.
func (lw *LineWriter) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err = lw.w.Write(data)
	return err
}
