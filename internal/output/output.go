// Package output renders CLI results in one of three modes — plain
// (human-readable), pretty JSON, or JSONL (one compact JSON object per
// line) — colorized via fatih/color unless NO_COLOR is set.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Mode selects how Writer renders values.
type Mode string

const (
	ModePlain Mode = "plain"
	ModeJSON  Mode = "json"
	ModeJSONL Mode = "jsonl"
)

// Writer renders CLI output in one configured Mode to an underlying
// io.Writer, with color helpers gated by NO_COLOR.
type Writer struct {
	w    io.Writer
	mode Mode

	Green  func(format string, a ...interface{}) string
	Yellow func(format string, a ...interface{}) string
	Red    func(format string, a ...interface{}) string
	Cyan   func(format string, a ...interface{}) string
}

// New builds a Writer over w in the given mode. Color is disabled when
// the NO_COLOR environment variable is set or colorEnabled is false,
// matching spec.md's environment contract.
func New(w io.Writer, mode Mode, colorEnabled bool) *Writer {
	disabled := !colorEnabled || os.Getenv("NO_COLOR") != ""

	mk := func(attr color.Attribute) func(string, ...interface{}) string {
		c := color.New(attr)
		if disabled {
			c.DisableColor()
		}
		return c.SprintfFunc()
	}

	return &Writer{
		w:      w,
		mode:   mode,
		Green:  mk(color.FgGreen),
		Yellow: mk(color.FgYellow),
		Red:    mk(color.FgRed),
		Cyan:   mk(color.FgCyan),
	}
}

// Line writes a plain-mode line verbatim; in JSON/JSONL modes it is a
// no-op, since those modes only ever emit structured records via Emit.
func (o *Writer) Line(format string, a ...interface{}) {
	if o.mode != ModePlain {
		return
	}
	fmt.Fprintf(o.w, format+"\n", a...)
}

// Emit renders v per the writer's mode: pretty-printed JSON for
// ModeJSON, one compact JSON line for ModeJSONL, and — for ModePlain —
// it does nothing, since plain-mode rendering is command-specific and
// goes through Line instead.
func (o *Writer) Emit(v interface{}) error {
	switch o.mode {
	case ModeJSON:
		enc := json.NewEncoder(o.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case ModeJSONL:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(o.w, string(data))
		return err
	default:
		return nil
	}
}

// EmitError writes an error as a structured record on the writer's
// stream (JSON/JSONL modes) or as a colored line on stderr (plain mode).
func (o *Writer) EmitError(err error) error {
	if o.mode == ModePlain {
		fmt.Fprintln(os.Stderr, o.Red("error: %v", err))
		return nil
	}
	return o.Emit(map[string]string{"error": err.Error()})
}
