package protocol

import "strings"

// EncodeRequest renders a complete request document for one command: the
// command element named tag with the body produced by fn, wrapped in the
// request envelope.
func EncodeRequest(tag string, fn func(*Writer)) []byte {
	return Envelope(func(w *Writer) {
		w.Block(tag, fn)
	})
}

// OpenReply parses a raw reply document, checks the reply envelope and probes
// the failure shapes before any success decoding happens. The returned node is
// the reply envelope.
func OpenReply(raw []byte) (*Node, error) {
	root, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if root.Name != ReplyTag {
		return nil, Malformed(root.Name, "expected <"+ReplyTag+">", nil)
	}
	if e := root.Child(TagError); e != nil {
		code, msg := failure(e)
		return nil, CommandFailed("", code, msg)
	}
	if root.Has(TagUnauthorized) {
		return nil, NotAuthenticated("")
	}
	return root, nil
}

// failure reads either the structured form
// <error><error_num>N</error_num><error_msg>M</error_msg></error> or the
// plain text form <error>M</error>, which carries no code.
func failure(e *Node) (int, string) {
	if len(e.Children) == 0 {
		return 0, e.Value()
	}
	code := 0
	if n := e.Child(TagErrorNum); n != nil {
		if v, err := ParseInt(n.Text); err == nil {
			code = v
		}
	}
	msg := e.Child(TagErrorMsg).Value()
	if msg == "" {
		var parts []string
		for _, c := range e.Children {
			if c.Name != TagErrorNum && c.Value() != "" {
				parts = append(parts, c.Value())
			}
		}
		msg = strings.Join(parts, " ")
	}
	return code, msg
}

// ExpectSuccess checks for the generic <success/> acknowledgement.
func ExpectSuccess(reply *Node) error {
	if !reply.Has(TagSuccess) {
		return Malformed(ReplyTag, "expected <"+TagSuccess+"/>", nil)
	}
	return nil
}
