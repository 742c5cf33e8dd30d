// Package testutil provides an in-memory daemon for exercising clients over a
// real framed stream.
package testutil

import (
	"bufio"
	"net"
	"sync"
	"testing"

	"github.com/mfulz/boincgeist/protocol"
)

// Handler answers one request. It receives the command element and returns
// the reply body placed inside the reply envelope.
type Handler func(cmd *protocol.Node) string

// Daemon serves framed requests on one end of a pipe and records every
// request body it receives.
type Daemon struct {
	conn    net.Conn
	term    byte
	handler Handler

	mu       sync.Mutex
	requests []string
	done     chan struct{}
}

// NewDaemon starts a daemon and returns it together with the client end of
// the pipe. Both ends are closed when the test finishes.
func NewDaemon(t testing.TB, term byte, handler Handler) (*Daemon, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	d := &Daemon{conn: server, term: term, handler: handler, done: make(chan struct{})}
	go d.serve()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
		<-d.done
	})
	return d, client
}

// Replies builds a handler that answers requests by command tag. Unknown
// commands get <unauthorized/>.
func Replies(bodies map[string]string) Handler {
	return func(cmd *protocol.Node) string {
		if body, ok := bodies[cmd.Name]; ok {
			return body
		}
		return "<" + protocol.TagUnauthorized + "/>"
	}
}

func (d *Daemon) serve() {
	defer close(d.done)
	r := bufio.NewReader(d.conn)
	for {
		frame, err := r.ReadBytes(d.term)
		if err != nil {
			return
		}
		frame = frame[:len(frame)-1]

		d.mu.Lock()
		d.requests = append(d.requests, string(frame))
		d.mu.Unlock()

		body := "<" + protocol.TagError + ">bad request</" + protocol.TagError + ">"
		if root, err := protocol.Parse(frame); err == nil && len(root.Children) == 1 {
			body = d.handler(root.Children[0])
		}

		reply := "<" + protocol.ReplyTag + ">\n" + body + "\n</" + protocol.ReplyTag + ">\n"
		if _, err := d.conn.Write(append([]byte(reply), d.term)); err != nil {
			return
		}
	}
}

// Requests returns the raw request documents received so far.
func (d *Daemon) Requests() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.requests...)
}

// Tags returns the command tags received so far, in order.
func (d *Daemon) Tags() []string {
	var tags []string
	for _, req := range d.Requests() {
		root, err := protocol.Parse([]byte(req))
		if err != nil || len(root.Children) != 1 {
			tags = append(tags, "")
			continue
		}
		tags = append(tags, root.Children[0].Name)
	}
	return tags
}
