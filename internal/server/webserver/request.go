package webserver

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/staticweb-go/internal/core/domain"
)

// DefaultUserAgent is reported when the client sends no User-Agent.
const DefaultUserAgent = "Not Provided"

// Protocol limit defaults.
const (
	DefaultMaxLineBytes    = 8 * 1024
	DefaultMaxHeaderLines  = 100
	DefaultMaxBodyLogBytes = 64 * 1024
)

// Limits bounds how much of a request the parser reads.
type Limits struct {
	// MaxLineBytes caps the request line and each header line.
	MaxLineBytes int
	// MaxHeaderLines caps the number of header lines.
	MaxHeaderLines int
	// MaxBodyLogBytes caps how much of a POST body is read for the log.
	MaxBodyLogBytes int
}

// DefaultLimits returns the default protocol limits.
func DefaultLimits() Limits {
	return Limits{
		MaxLineBytes:    DefaultMaxLineBytes,
		MaxHeaderLines:  DefaultMaxHeaderLines,
		MaxBodyLogBytes: DefaultMaxBodyLogBytes,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxLineBytes <= 0 {
		l.MaxLineBytes = DefaultMaxLineBytes
	}
	if l.MaxHeaderLines <= 0 {
		l.MaxHeaderLines = DefaultMaxHeaderLines
	}
	if l.MaxBodyLogBytes <= 0 {
		l.MaxBodyLogBytes = DefaultMaxBodyLogBytes
	}
	return l
}

// Request is a parsed request line plus the recognized headers.
type Request struct {
	Method        string
	Target        string
	Version       string
	Host          string
	UserAgent     string
	ContentLength int64
}

// headerAction applies one recognized header to the request.
type headerAction func(r *Request, value string) error

// headerActions maps lower-cased header names to their action. Headers not
// listed are ignored.
var headerActions = map[string]headerAction{
	"host": func(r *Request, v string) error {
		r.Host = v
		return nil
	},
	"user-agent": func(r *Request, v string) error {
		if v != "" {
			r.UserAgent = v
		}
		return nil
	},
	"content-length": func(r *Request, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return domain.ErrInvalidContentLength.WithDetails(strconv.Quote(v))
		}
		r.ContentLength = n
		return nil
	},
}

// ReadRequest reads the request line and header block from r.
//
// It returns domain.ErrEmptyRequest when the client sent nothing,
// domain.ErrMalformedRequestLine, domain.ErrInvalidContentLength,
// domain.ErrLineTooLong or domain.ErrTooManyHeaders for rejected input, and
// domain.ErrReadFailed for transport errors. A target of "/" is rewritten
// to "/index.html".
func ReadRequest(r *bufio.Reader, lim Limits) (*Request, error) {
	lim = lim.withDefaults()

	line, err := readLine(r, lim.MaxLineBytes)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyRequest.WithCause(err)
		}
		return nil, err
	}
	if line == "" {
		return nil, domain.ErrEmptyRequest
	}

	req, ok := parseRequestLine(line)
	if !ok {
		return nil, domain.ErrMalformedRequestLine.WithDetails(strconv.Quote(line))
	}

	for n := 0; ; n++ {
		line, err := readLine(r, lim.MaxLineBytes)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if line == "" {
			break
		}
		if n >= lim.MaxHeaderLines {
			return nil, domain.ErrTooManyHeaders
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		action, ok := headerActions[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if err := action(req, strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}

	if req.Target == "/" {
		req.Target = "/index.html"
	}
	return req, nil
}

// parseRequestLine splits "METHOD TARGET HTTP/x" on single spaces.
func parseRequestLine(line string) (*Request, bool) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return nil, false
	}
	method, target, version := parts[0], parts[1], parts[2]
	if method == "" || target == "" || !strings.HasPrefix(version, "HTTP/") {
		return nil, false
	}
	return &Request{
		Method:    method,
		Target:    target,
		Version:   version,
		UserAgent: DefaultUserAgent,
	}, true
}

// readLine reads one line terminated by LF or CRLF, without the
// terminator. A final line without terminator is returned as is; io.EOF
// is returned only when nothing was read.
func readLine(r *bufio.Reader, maxLen int) (string, error) {
	var buf []byte
	for {
		frag, err := r.ReadSlice('\n')
		buf = append(buf, frag...)
		if len(buf) > maxLen+2 {
			return "", domain.ErrLineTooLong.WithDetails("limit " + strconv.Itoa(maxLen))
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(buf) > 0 {
			break
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", domain.ErrReadFailed.WithCause(err)
	}

	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if len(buf) > maxLen {
		return "", domain.ErrLineTooLong.WithDetails("limit " + strconv.Itoa(maxLen))
	}
	return string(buf), nil
}

// Body is the part of a POST body read for diagnostics.
type Body struct {
	Data     []byte
	Declared int64
	// Truncated is set when Declared exceeded the read cap.
	Truncated bool

	wanted int64
}

// Short reports whether the client sent fewer bytes than were to be read.
func (b Body) Short() bool {
	return int64(len(b.Data)) < b.wanted
}

// ReadBody reads up to declared bytes, capped at maxBytes. A short read is
// recorded in the result, not reported as an error; only transport
// failures other than EOF are returned, together with what was read.
func ReadBody(r *bufio.Reader, declared int64, maxBytes int) (Body, error) {
	body := Body{Declared: declared}
	if declared <= 0 {
		return body, nil
	}

	want := declared
	if maxBytes > 0 && want > int64(maxBytes) {
		want = int64(maxBytes)
		body.Truncated = true
	}

	body.wanted = want
	buf := make([]byte, want)
	n, err := io.ReadFull(r, buf)
	body.Data = buf[:n]
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return body, domain.ErrReadFailed.WithCause(err)
	}
	return body, nil
}
