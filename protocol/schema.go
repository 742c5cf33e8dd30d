package protocol

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FieldSpec describes one registered field of a Schema.
type FieldSpec struct {
	Name     string
	Kind     string
	Required bool
	Attr     bool
	Repeated bool
}

// FieldOption tunes a field registration.
type FieldOption func(*FieldSpec)

// Required makes decoding fail with MissingField when the field is absent.
// For repeated fields it demands at least one element.
func Required() FieldOption {
	return func(f *FieldSpec) { f.Required = true }
}

type field[T any] struct {
	FieldSpec
	fromNodes func(dst *T, nodes []*Node, path string) error
	fromAttr  func(dst *T, value string, path string) error
}

// Schema maps element and attribute names of one markup element onto the
// fields of T. Each field is registered explicitly with a setter; decoding
// matches children by name, ignores anything unregistered and leaves absent
// optional fields at their zero value.
type Schema[T any] struct {
	tag         string
	fields      []field[T]
	transparent []string
}

// NewSchema starts an empty schema for elements named tag.
func NewSchema[T any](tag string) *Schema[T] {
	return &Schema[T]{tag: tag}
}

// Tag returns the element name the schema decodes.
func (s *Schema[T]) Tag() string { return s.tag }

// Fields lists the registered fields in declaration order.
func (s *Schema[T]) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.FieldSpec
	}
	return out
}

// Transparent declares wrapper tags whose children are matched as if they
// were direct children of the schema's element.
func (s *Schema[T]) Transparent(tags ...string) *Schema[T] {
	s.transparent = append(s.transparent, tags...)
	return s
}

func (s *Schema[T]) add(f field[T], opts []FieldOption) *Schema[T] {
	for _, o := range opts {
		o(&f.FieldSpec)
	}
	s.fields = append(s.fields, f)
	return s
}

func scalar[T, V any](s *Schema[T], name, kind string, parse func(string) (V, error), set func(*T, V), opts []FieldOption) *Schema[T] {
	return s.add(field[T]{
		FieldSpec: FieldSpec{Name: name, Kind: kind},
		fromNodes: func(dst *T, nodes []*Node, path string) error {
			n := nodes[0]
			if len(n.Children) > 0 {
				return Malformed(path, "expected a scalar value", nil)
			}
			v, err := parse(n.Text)
			if err != nil {
				return Malformed(path, "invalid "+kind+" value", err)
			}
			set(dst, v)
			return nil
		},
	}, opts)
}

// Text registers a string element. The text is kept verbatim.
func (s *Schema[T]) Text(name string, get func(*T) *string, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "text", parseText, func(t *T, v string) { *get(t) = v }, opts)
}

// Int registers a decimal integer element.
func (s *Schema[T]) Int(name string, get func(*T) *int, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "int", ParseInt, func(t *T, v int) { *get(t) = v }, opts)
}

// Float registers a decimal floating point element.
func (s *Schema[T]) Float(name string, get func(*T) *float64, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "float", ParseFloat, func(t *T, v float64) { *get(t) = v }, opts)
}

// Bool registers a flag element: an empty tag or any content other than 0
// means true.
func (s *Schema[T]) Bool(name string, get func(*T) *bool, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "bool", ParseBool, func(t *T, v bool) { *get(t) = v }, opts)
}

// Time registers an epoch-seconds timestamp element.
func (s *Schema[T]) Time(name string, get func(*T) *time.Time, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "time", ParseTime, func(t *T, v time.Time) { *get(t) = v }, opts)
}

// IntPtr registers an optional integer; absence leaves the pointer nil.
func (s *Schema[T]) IntPtr(name string, get func(*T) **int, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "int", ParseInt, func(t *T, v int) { *get(t) = &v }, opts)
}

// FloatPtr registers an optional float; absence leaves the pointer nil.
func (s *Schema[T]) FloatPtr(name string, get func(*T) **float64, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "float", ParseFloat, func(t *T, v float64) { *get(t) = &v }, opts)
}

// BoolPtr registers an optional flag; absence leaves the pointer nil.
func (s *Schema[T]) BoolPtr(name string, get func(*T) **bool, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "bool", ParseBool, func(t *T, v bool) { *get(t) = &v }, opts)
}

// Strings registers a repeated string element; values keep document order.
func (s *Schema[T]) Strings(name string, get func(*T) *[]string, opts ...FieldOption) *Schema[T] {
	return s.add(field[T]{
		FieldSpec: FieldSpec{Name: name, Kind: "text", Repeated: true},
		fromNodes: func(dst *T, nodes []*Node, path string) error {
			out := make([]string, 0, len(nodes))
			for _, n := range nodes {
				if len(n.Children) > 0 {
					return Malformed(path, "expected a scalar value", nil)
				}
				out = append(out, n.Text)
			}
			*get(dst) = out
			return nil
		},
	}, opts)
}

// Attr registers an attribute of the schema's element.
func (s *Schema[T]) Attr(name string, get func(*T) *string, opts ...FieldOption) *Schema[T] {
	return s.add(field[T]{
		FieldSpec: FieldSpec{Name: name, Kind: "text", Attr: true},
		fromAttr: func(dst *T, value string, _ string) error {
			*get(dst) = value
			return nil
		},
	}, opts)
}

// Enum registers a typed integer element.
func Enum[T any, E ~int](s *Schema[T], name string, get func(*T) *E, opts ...FieldOption) *Schema[T] {
	return scalar(s, name, "enum", ParseInt, func(t *T, v int) { *get(t) = E(v) }, opts)
}

// Nest registers a nested element named name, decoded with sub.
func Nest[T, U any](s *Schema[T], name string, sub *Schema[U], get func(*T) *U, opts ...FieldOption) *Schema[T] {
	return s.add(field[T]{
		FieldSpec: FieldSpec{Name: name, Kind: "element:" + sub.tag},
		fromNodes: func(dst *T, nodes []*Node, path string) error {
			return sub.decode(nodes[0], get(dst), path)
		},
	}, opts)
}

// NestPtr registers an optional nested element; absence leaves the pointer nil.
func NestPtr[T, U any](s *Schema[T], name string, sub *Schema[U], get func(*T) **U, opts ...FieldOption) *Schema[T] {
	return s.add(field[T]{
		FieldSpec: FieldSpec{Name: name, Kind: "element:" + sub.tag},
		fromNodes: func(dst *T, nodes []*Node, path string) error {
			v := new(U)
			if err := sub.decode(nodes[0], v, path); err != nil {
				return err
			}
			*get(dst) = v
			return nil
		},
	}, opts)
}

// Repeat registers a repeated nested element; elements keep document order.
func Repeat[T, U any](s *Schema[T], name string, sub *Schema[U], get func(*T) *[]U, opts ...FieldOption) *Schema[T] {
	return s.add(field[T]{
		FieldSpec: FieldSpec{Name: name, Kind: "element:" + sub.tag, Repeated: true},
		fromNodes: func(dst *T, nodes []*Node, path string) error {
			out := make([]U, len(nodes))
			for i, n := range nodes {
				if err := sub.decode(n, &out[i], path+"["+strconv.Itoa(i)+"]"); err != nil {
					return err
				}
			}
			*get(dst) = out
			return nil
		},
	}, opts)
}

// Decode projects n onto a fresh T. n must be named after the schema tag.
func (s *Schema[T]) Decode(n *Node) (T, error) {
	var v T
	err := s.DecodeInto(n, &v)
	return v, err
}

// DecodeInto projects n onto dst.
func (s *Schema[T]) DecodeInto(n *Node, dst *T) error {
	if n == nil {
		return Malformed(s.tag, "missing element", nil)
	}
	if s.tag != "" && n.Name != s.tag {
		return Malformed(n.Name, "expected <"+s.tag+">", nil)
	}
	return s.decode(n, dst, n.Name)
}

// DecodeChild finds the schema's element among the children of parent and
// decodes it. A missing element is a Malformed reply shape.
func (s *Schema[T]) DecodeChild(parent *Node) (T, error) {
	var v T
	n := parent.Child(s.tag)
	if n == nil {
		return v, Malformed(s.tag, "expected <"+s.tag+"> in reply", nil)
	}
	err := s.decode(n, &v, s.tag)
	return v, err
}

func (s *Schema[T]) decode(n *Node, dst *T, path string) error {
	index := make(map[string][]*Node)
	for _, c := range s.scope(n) {
		index[c.Name] = append(index[c.Name], c)
	}
	for _, f := range s.fields {
		p := path + "." + f.Name
		if f.Attr {
			v, ok := n.Attr(f.Name)
			if !ok {
				if f.Required {
					return MissingField(path + "@" + f.Name)
				}
				continue
			}
			if err := f.fromAttr(dst, v, p); err != nil {
				return err
			}
			continue
		}
		nodes := index[f.Name]
		if len(nodes) == 0 {
			if f.Required {
				return MissingField(p)
			}
			continue
		}
		if err := f.fromNodes(dst, nodes, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema[T]) scope(n *Node) []*Node {
	if len(s.transparent) == 0 {
		return n.Children
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if slices.Contains(s.transparent, c.Name) {
			out = append(out, s.scope(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func parseText(s string) (string, error) { return s, nil }

// ParseInt parses the canonical decimal integer form.
func ParseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// ParseFloat parses the canonical decimal float form.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ParseBool parses a flag: empty content is true, integers are true when
// non-zero.
func ParseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return true, nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i != 0, nil
	}
	return strconv.ParseBool(s)
}

// ParseTime parses decimal epoch seconds. Zero maps to the zero time.
func ParseTime(s string) (time.Time, error) {
	f, err := ParseFloat(s)
	if err != nil {
		return time.Time{}, err
	}
	if f == 0 {
		return time.Time{}, nil
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), nil
}
