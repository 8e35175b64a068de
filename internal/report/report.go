// Package report renders harness results for humans (text) or tools (json,
// yaml).
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eigerco/numericoverflow/internal/harness"
	"github.com/eigerco/numericoverflow/pkg/bounded"
)

var ErrUnknownFormat = errors.New("unknown report format")

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

var starLine = strings.Repeat("*", 50)

// Write renders a full harness report.
func Write(w io.Writer, r harness.Report, f Format) error {
	switch f {
	case FormatText:
		var buf bytes.Buffer
		writeText(&buf, r)
		_, err := w.Write(buf.Bytes())
		return err
	case FormatJSON, FormatYAML:
		return encode(w, r, f)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteCase renders the result of a single accumulation.
func WriteCase(w io.Writer, c harness.Case, f Format) error {
	switch f {
	case FormatText:
		_, err := io.WriteString(w, caseLine(c)+"\n")
		return err
	case FormatJSON, FormatYAML:
		return encode(w, c, f)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func encode(w io.Writer, v any, f Format) error {
	if f == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}

func writeText(buf *bytes.Buffer, r harness.Report) {
	buf.WriteString("Starting Numeric Underflow / Overflow Tests!\n")

	banner(buf, "*** Running Overflow Tests ***")
	for _, s := range r.Overflow {
		writeSuite(buf, s, "Overflow", "Adding")
	}

	banner(buf, "*** Running Underflow Tests ***")
	for _, s := range r.Underflow {
		writeSuite(buf, s, "Underflow", "Subtracting")
	}

	buf.WriteString("\nAll Numeric Underflow / Overflow Tests Complete!\n")
}

func banner(buf *bytes.Buffer, title string) {
	fmt.Fprintf(buf, "\n%s\n%s\n%s\n", starLine, title, starLine)
}

// writeSuite prints the first case as the in-range call and any further
// cases as the calls expected to cross the boundary.
func writeSuite(buf *bytes.Buffer, s harness.Suite, kind, verb string) {
	fmt.Fprintf(buf, "%s Test of Type = %s\n", kind, s.Domain)
	if s.Skipped != "" {
		fmt.Fprintf(buf, "\tSkipped: %s\n", s.Skipped)
		return
	}
	for i, c := range s.Cases {
		switch {
		case !c.Ok():
			fmt.Fprintf(buf, "\t%s detected!\n", kind)
		case i == 0:
			fmt.Fprintf(buf, "\t%s Numbers Without %s: %s\n", verb, kind, c.Result)
		default:
			fmt.Fprintf(buf, "\t%s Numbers With %s: %s\n", verb, kind, c.Result)
		}
	}
}

func caseLine(c harness.Case) string {
	op := "+"
	if c.Direction == bounded.DirectionSubtract {
		op = "-"
	}
	line := fmt.Sprintf("%s: %s %s %s x %d = ", c.Domain, c.Start, op, c.Step, c.Steps)
	if c.Ok() {
		return line + c.Result
	}
	return line + fmt.Sprintf("%s detected at step %d", c.Outcome, *c.FailedAt)
}
