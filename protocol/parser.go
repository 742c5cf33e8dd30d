package protocol

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Parse builds a node tree from one reply document. It fails with a
// Malformed error on unbalanced or unknown-entity input, on anything that is
// not a single markup element, on duplicate attributes and on elements that
// mix text with child elements.
func Parse(data []byte) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, Malformed("", "empty document", nil)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	var (
		root  *Node
		stack []*Node
		mixed []bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Malformed("", "invalid markup", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, Malformed(t.Name.Local, "content after root element", nil)
			}
			n := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				if _, dup := n.Attr(a.Name.Local); dup {
					return nil, Malformed(n.Name+"@"+a.Name.Local, "duplicate attribute", nil)
				}
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			stack = append(stack, n)
			mixed = append(mixed, false)

		case xml.EndElement:
			top := len(stack) - 1
			n := stack[top]
			hasText := mixed[top]
			stack, mixed = stack[:top], mixed[:top]
			if len(n.Children) > 0 {
				if hasText {
					return nil, Malformed(n.Name, "mixed text and element content", nil)
				}
				n.Text = ""
			}
			if top == 0 {
				root = n
			} else {
				parent := stack[top-1]
				parent.Children = append(parent.Children, n)
			}

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, Malformed("", "text outside root element", nil)
				}
				continue
			}
			top := len(stack) - 1
			stack[top].Text += string(t)
			if strings.TrimSpace(string(t)) != "" {
				mixed[top] = true
			}

		default:
			// comments, processing instructions and directives carry no data
		}
	}

	if len(stack) != 0 {
		return nil, Malformed(stack[len(stack)-1].Name, "unclosed element", nil)
	}
	if root == nil {
		return nil, Malformed("", "no root element", nil)
	}
	return root, nil
}
