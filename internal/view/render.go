// Package view renders daemon replies for the terminal: aligned text,
// markdown tables, glamour-styled markdown, YAML and JSON. It also reads
// preference documents supplied by the user.
package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Format selects an output representation.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	Pretty   Format = "pretty"
	YAML     Format = "yaml"
	JSON     Format = "json"
)

// Formats lists the accepted --output values.
var Formats = []Format{Text, Markdown, Pretty, YAML, JSON}

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return Text, nil
	case "md":
		return Markdown, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Renderer writes values in one format.
type Renderer struct {
	Format Format
	// Profile decides whether text output is colored.
	Profile termenv.Profile
	// Style is the glamour style for Pretty output; "auto" detects the
	// terminal background.
	Style string
	// Location is used for timestamps in text and markdown output.
	Location *time.Location
}

// New returns a renderer for f using the terminal's color profile.
func New(f Format) *Renderer {
	return &Renderer{
		Format:   f,
		Profile:  termenv.EnvColorProfile(),
		Style:    "auto",
		Location: time.Local,
	}
}

// Render writes v to w.
func (r *Renderer) Render(w io.Writer, v any) error {
	switch r.Format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	tables, ok := r.tables(v)
	if !ok {
		// No tabular view for this type: fall back to YAML.
		return (&Renderer{Format: YAML}).Render(w, v)
	}

	switch r.Format {
	case Markdown:
		_, err := io.WriteString(w, renderMarkdown(tables))
		return err
	case Pretty:
		out, err := r.pretty(renderMarkdown(tables))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return writeText(w, r.Profile, tables)
	}
}

func (r *Renderer) pretty(md string) (string, error) {
	style := glamour.WithAutoStyle()
	if r.Style != "" && r.Style != "auto" {
		style = glamour.WithStandardStyle(r.Style)
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(0))
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return tr.Render(md)
}
