package webserver

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"
)

// pipeConn returns a Conn whose output is collected until it is closed.
func pipeConn(t *testing.T, tr Transport) (*Conn, <-chan []byte) {
	t.Helper()

	server, client := net.Pipe()
	out := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(client)
		out <- b
	}()
	t.Cleanup(func() { client.Close() })
	return newConn(server, tr), out
}

func written(t *testing.T, r *Response) string {
	t.Helper()

	c, out := pipeConn(t, TransportSecure)
	n, err := r.WriteTo(c)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	c.Close()
	b := <-out
	if n != len(b) {
		t.Errorf("WriteTo() = %d, wrote %d bytes", n, len(b))
	}
	return string(b)
}

func TestResponse_WriteTo_Text(t *testing.T) {
	r := plain(418, "text/html", BodyTeapot)

	got := written(t, r)
	want := "HTTP/1.1 418 I'm a teapot\r\n" +
		"Connection: close\r\n" +
		"Content-Type: text/html\r\n" +
		"Content-Length: 19\r\n" +
		"\r\n" +
		"You're a Teapot! :)"
	if got != want {
		t.Errorf("wire =\n%q\nwant\n%q", got, want)
	}
}

func TestResponse_WriteTo_Binary(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, '\r', '\n'}
	rt := NewRouter(nil, "staticweb/test")
	r := rt.decorated(200, "image/png", BodyBinary, "", data)

	got := written(t, r)
	head, body, found := strings.Cut(got, "\r\n\r\n")
	if !found {
		t.Fatalf("no header terminator in %q", got)
	}
	if !bytes.Equal([]byte(body), data) {
		t.Errorf("body = %x, want %x", body, data)
	}
	if !strings.HasSuffix(head, "Content-Length: 8") {
		t.Errorf("head does not end with Content-Length: 8:\n%s", head)
	}
}

func TestResponse_WriteTo_NoBody(t *testing.T) {
	r := redirectToHTTPS(&Request{Host: "example.com", Target: "/foo"})

	got := written(t, r)
	want := "HTTP/1.1 301 Moved Permanently\r\n" +
		"Location: https://example.com/foo\r\n" +
		"Connection: close\r\n" +
		"Content-Length: 0\r\n" +
		"\r\n"
	if got != want {
		t.Errorf("wire = %q, want %q", got, want)
	}
}

func TestResponse_ContentLengthUTF8(t *testing.T) {
	text := "héllo wörld ✓"
	r := plain(200, "text/plain", text)

	if r.ContentLength() != len([]byte(text)) {
		t.Errorf("ContentLength() = %d, want %d", r.ContentLength(), len([]byte(text)))
	}
	if v, _ := r.Header("content-length"); v != "17" {
		t.Errorf("Content-Length header = %q, want 17", v)
	}
}

func TestWriteNotice(t *testing.T) {
	c, out := pipeConn(t, TransportPlain)
	if err := writeNotice(c, NoticeNotHTTP); err != nil {
		t.Fatalf("writeNotice() error = %v", err)
	}
	c.Close()
	if got := string(<-out); got != "This is a Web Server - Act like it!\r\n" {
		t.Errorf("notice = %q", got)
	}
}

func TestResponse_WriteTo_ClosedPeer(t *testing.T) {
	server, client := net.Pipe()
	client.Close()
	c := newConn(server, TransportSecure)
	defer c.Close()

	if _, err := plain(418, "text/html", BodyTeapot).WriteTo(c); err == nil {
		t.Error("WriteTo() expected error on closed peer")
	}
}

func TestTransport_String(t *testing.T) {
	if TransportPlain.String() != "plain" || TransportSecure.String() != "tls" {
		t.Errorf("String() = %q, %q", TransportPlain.String(), TransportSecure.String())
	}
	if Transport(9).String() != "unknown" {
		t.Errorf("String() for unknown = %q", Transport(9).String())
	}
}
