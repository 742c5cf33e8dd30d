package protocol

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five markup special characters with entity references.
func Escape(s string) string { return escaper.Replace(s) }

// Writer renders request bodies. It writes one element per line and never
// fails: every value that type-checks is serializable. Output is a pure
// function of the calls made on the writer.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the rendered markup.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// String returns the rendered markup as a string.
func (w *Writer) String() string { return w.buf.String() }

func (w *Writer) open(tag string, attrs []Attr, selfClose bool) {
	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	for _, a := range attrs {
		w.buf.WriteByte(' ')
		w.buf.WriteString(a.Name)
		w.buf.WriteString(`="`)
		w.buf.WriteString(Escape(a.Value))
		w.buf.WriteByte('"')
	}
	if selfClose {
		w.buf.WriteString("/>\n")
		return
	}
	w.buf.WriteByte('>')
}

func (w *Writer) close(tag string) {
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteString(">\n")
}

// Element writes <tag attrs...>text</tag>; escaping is applied to text.
func (w *Writer) Element(tag, text string, attrs ...Attr) *Writer {
	w.open(tag, attrs, false)
	w.buf.WriteString(Escape(text))
	w.close(tag)
	return w
}

// Text writes a string scalar.
func (w *Writer) Text(tag, v string) *Writer { return w.Element(tag, v) }

// Int writes a decimal integer scalar.
func (w *Writer) Int(tag string, v int) *Writer {
	return w.Element(tag, strconv.Itoa(v))
}

// Float writes a decimal floating point scalar in its shortest exact form.
func (w *Writer) Float(tag string, v float64) *Writer {
	return w.Element(tag, FormatFloat(v))
}

// Bool writes a 0/1 scalar, the form used by preference documents.
func (w *Writer) Bool(tag string, v bool) *Writer {
	if v {
		return w.Element(tag, "1")
	}
	return w.Element(tag, "0")
}

// Time writes a timestamp as decimal seconds since the Unix epoch. The zero
// time is written as 0.
func (w *Writer) Time(tag string, t time.Time) *Writer {
	return w.Element(tag, FormatTime(t))
}

// Flag writes an empty, valueless tag: <tag/>.
func (w *Writer) Flag(tag string, attrs ...Attr) *Writer {
	w.open(tag, attrs, true)
	return w
}

// FlagIf writes <tag/> only when cond holds.
func (w *Writer) FlagIf(tag string, cond bool) *Writer {
	if cond {
		w.Flag(tag)
	}
	return w
}

// OptText writes tag only when v is non-nil.
func (w *Writer) OptText(tag string, v *string) *Writer {
	if v != nil {
		w.Text(tag, *v)
	}
	return w
}

// OptInt writes tag only when v is non-nil.
func (w *Writer) OptInt(tag string, v *int) *Writer {
	if v != nil {
		w.Int(tag, *v)
	}
	return w
}

// OptFloat writes tag only when v is non-nil.
func (w *Writer) OptFloat(tag string, v *float64) *Writer {
	if v != nil {
		w.Float(tag, *v)
	}
	return w
}

// OptBool writes tag only when v is non-nil.
func (w *Writer) OptBool(tag string, v *bool) *Writer {
	if v != nil {
		w.Bool(tag, *v)
	}
	return w
}

// Strings writes one sibling tag per value, in slice order.
func (w *Writer) Strings(tag string, vs []string) *Writer {
	for _, v := range vs {
		w.Text(tag, v)
	}
	return w
}

// Block writes a nested element whose content is produced by fn. A block
// with no content collapses to <tag/>.
func (w *Writer) Block(tag string, fn func(*Writer), attrs ...Attr) *Writer {
	inner := NewWriter()
	if fn != nil {
		fn(inner)
	}
	if inner.buf.Len() == 0 {
		return w.Flag(tag, attrs...)
	}
	w.open(tag, attrs, false)
	w.buf.WriteByte('\n')
	w.buf.Write(inner.buf.Bytes())
	w.close(tag)
	return w
}

// Envelope wraps a request body in the request envelope.
func Envelope(body func(*Writer)) []byte {
	w := NewWriter()
	w.Block(RequestTag, body)
	return w.Bytes()
}

// FormatFloat renders a float in the canonical decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTime renders a timestamp in the canonical epoch-seconds form.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	secs := float64(t.UnixNano()) / float64(time.Second)
	return FormatFloat(secs)
}
