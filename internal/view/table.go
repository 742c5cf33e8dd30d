package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"
)

// tone colors the last cell of a row in terminal output.
type tone int

const (
	plain tone = iota
	good
	warn
	bad
)

func (t tone) color(p termenv.Profile) termenv.Color {
	switch t {
	case good:
		return p.Color("2")
	case warn:
		return p.Color("3")
	case bad:
		return p.Color("1")
	default:
		return nil
	}
}

// table is the intermediate form shared by the text, markdown and pretty
// renderers. A table without header is a key/value listing.
type table struct {
	title  string
	header []string
	rows   [][]string
	tones  []tone
}

func (t *table) add(tn tone, cells ...string) {
	t.rows = append(t.rows, cells)
	t.tones = append(t.tones, tn)
}

func (t *table) kv(key string, value any) {
	t.add(plain, key, fmt.Sprint(value))
}

func (t *table) kvTone(tn tone, key string, value any) {
	t.add(tn, key, fmt.Sprint(value))
}

// writeText aligns columns with a tabwriter. Only the last cell is colored,
// so escape sequences never shift the alignment of other columns.
func writeText(w io.Writer, p termenv.Profile, tables []table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if t.title != "" {
			if _, err := fmt.Fprintln(w, p.String(t.title).Bold()); err != nil {
				return err
			}
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		if len(t.header) > 0 {
			fmt.Fprintln(tw, strings.Join(t.header, "\t"))
		}
		for r, row := range t.rows {
			cells := append([]string(nil), row...)
			if c := t.tones[r].color(p); c != nil && len(cells) > 0 {
				last := len(cells) - 1
				cells[last] = p.String(cells[last]).Foreground(c).String()
			}
			if len(t.header) == 0 && len(cells) == 2 {
				cells[0] += ":"
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

var mdEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func renderMarkdown(tables []table) string {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		if t.title != "" {
			b.WriteString("## " + t.title + "\n\n")
		}
		header := t.header
		if len(header) == 0 {
			header = []string{"Field", "Value"}
		}
		b.WriteString("| " + strings.Join(header, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
		for _, row := range t.rows {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = mdEscaper.Replace(c)
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}
	return b.String()
}
