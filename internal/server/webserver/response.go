package webserver

import (
	"strconv"
	"strings"

	"github.com/yndnr/staticweb-go/internal/core/domain"
)

// Bare diagnostic notices written without any HTTP framing.
const (
	NoticeNotHTTP          = "This is a Web Server - Act like it!\r\n"
	NoticeBadContentLength = "Invalid Content-Length - Discarding...\r\n"
	NoticeTooLarge         = "Request Too Large - Discarding...\r\n"
)

// Header is one response header line. Order is preserved and names may
// repeat.
type Header struct {
	Name  string
	Value string
}

// BodyKind selects how a response body is written.
type BodyKind int

const (
	// BodyNone writes no body.
	BodyNone BodyKind = iota
	// BodyText goes through the buffered text writer.
	BodyText
	// BodyBinary goes straight to the stream.
	BodyBinary
)

// Response is built once and written once.
type Response struct {
	Status  int
	Reason  string
	Headers []Header

	kind BodyKind
	text string
	data []byte
}

// BodyKind returns the kind of body the response carries.
func (r *Response) BodyKind() BodyKind {
	return r.kind
}

// ContentLength returns the body size in bytes; text is counted in its
// UTF-8 encoding.
func (r *Response) ContentLength() int {
	switch r.kind {
	case BodyText:
		return len(r.text)
	case BodyBinary:
		return len(r.data)
	default:
		return 0
	}
}

// Header returns the first value of the named header.
func (r *Response) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Body returns the body bytes.
func (r *Response) Body() []byte {
	switch r.kind {
	case BodyText:
		return []byte(r.text)
	case BodyBinary:
		return r.data
	default:
		return nil
	}
}

func (r *Response) head() string {
	var b strings.Builder
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(r.Status))
	if r.Reason != "" {
		b.WriteByte(' ')
		b.WriteString(r.Reason)
	}
	b.WriteString("\r\n")
	for _, h := range r.Headers {
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return b.String()
}

// WriteTo writes the response to c in two phases: the status line and
// headers are flushed first, then the body. Text bodies go through the
// buffered writer; binary bodies are written to the stream directly. It
// returns the number of bytes written.
func (r *Response) WriteTo(c *Conn) (int, error) {
	n, err := c.bw.WriteString(r.head())
	if err != nil {
		return n, domain.ErrWriteFailed.WithCause(err)
	}
	if err := c.bw.Flush(); err != nil {
		return n, domain.ErrWriteFailed.WithCause(err)
	}

	switch r.kind {
	case BodyText:
		m, err := c.bw.WriteString(r.text)
		n += m
		if err != nil {
			return n, domain.ErrWriteFailed.WithCause(err)
		}
		if err := c.bw.Flush(); err != nil {
			return n, domain.ErrWriteFailed.WithCause(err)
		}
	case BodyBinary:
		m, err := c.stream.Write(r.data)
		n += m
		if err != nil {
			return n, domain.ErrWriteFailed.WithCause(err)
		}
	case BodyNone:
	}
	return n, nil
}

// writeNotice writes a bare diagnostic line.
func writeNotice(c *Conn, notice string) error {
	if _, err := c.bw.WriteString(notice); err != nil {
		return domain.ErrWriteFailed.WithCause(err)
	}
	if err := c.bw.Flush(); err != nil {
		return domain.ErrWriteFailed.WithCause(err)
	}
	return nil
}
