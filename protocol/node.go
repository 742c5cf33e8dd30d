package protocol

import "strings"

// Attr is a single name/value attribute of a markup element.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a parsed reply document. A node carries either text
// or element children, never both.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given name in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether a direct child with the given name exists.
func (n *Node) Has(name string) bool { return n.Child(name) != nil }

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Value returns the trimmed text content.
func (n *Node) Value() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// Empty reports whether the node has neither text nor children, i.e. it is a
// flag tag like <success/>.
func (n *Node) Empty() bool {
	return n != nil && len(n.Children) == 0 && strings.TrimSpace(n.Text) == ""
}
