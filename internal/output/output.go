// Package output renders command results on stdout.
//
// Device and software listings are written as comma-separated records whose
// text fields are always double-quoted; numeric ids are written bare.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Quote wraps s in double quotes, doubling any embedded quote.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Record writes fields joined by commas and terminated by a newline.
// Fields are written as given; use Quote for text.
func Record(w io.Writer, fields ...string) error {
	_, err := io.WriteString(w, strings.Join(fields, ",")+"\n")
	return err
}

// Float formats an optional number without trailing zeros; nil is "".
func Float(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// Bool formats an optional flag as True or False, the spelling existing
// consumers of the record format parse; nil is "".
func Bool(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "True"
	default:
		return "False"
	}
}

// Formats accepted by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes v as indented JSON or as YAML.
func Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
