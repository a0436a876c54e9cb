package connection

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultMaxBody caps how much of a response body the probe keeps.
const DefaultMaxBody = 1 << 20

// Options configures a probe.
type Options struct {
	// Address is host:port to dial.
	Address string
	// TLS performs a handshake before sending the request.
	TLS bool
	// ServerName is the SNI and verification name; defaults to the host
	// part of Address.
	ServerName string
	// Insecure skips certificate verification.
	Insecure bool
	// RootCAs verifies the server certificate; nil uses the system pool.
	RootCAs *x509.CertPool
	// MaxTLSVersion restricts the handshake, for testing a server's policy.
	MaxTLSVersion uint16
	// Method defaults to GET.
	Method string
	// Target defaults to "/".
	Target string
	// Host header; empty omits the header.
	Host string
	// Body is sent after the headers with a Content-Length.
	Body string
	// UserAgent header; empty omits the header.
	UserAgent string
	// Timeout bounds the whole exchange.
	Timeout time.Duration
	// MaxBody caps the body kept in the result.
	MaxBody int
}

// Header is a response header in wire order.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// String implements fmt.Stringer.
func (h Header) String() string {
	return h.Name + ": " + h.Value
}

// Result describes what the server sent back.
type Result struct {
	Address       string   `json:"address" yaml:"address"`
	Transport     string   `json:"transport" yaml:"transport"`
	TLSVersion    string   `json:"tls_version,omitempty" yaml:"tls_version,omitempty"`
	CipherSuite   string   `json:"cipher_suite,omitempty" yaml:"cipher_suite,omitempty"`
	Status        int      `json:"status,omitempty" yaml:"status,omitempty"`
	Reason        string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Headers       []Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	ContentLength int      `json:"content_length" yaml:"content_length"`
	BodyBytes     int      `json:"body_bytes" yaml:"body_bytes"`
	Body          string   `json:"body,omitempty" yaml:"body,omitempty"`
	Notice        string   `json:"notice,omitempty" yaml:"notice,omitempty"`
	Duration      string   `json:"duration" yaml:"duration"`

	raw []byte
}

// Raw returns the body bytes as received.
func (r *Result) Raw() []byte {
	return r.raw
}

// HeaderValue returns the first value of the named header.
func (r *Result) HeaderValue(name string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// Probe sends one request and reads the reply until the server closes.
func Probe(ctx context.Context, opts Options) (*Result, error) {
	if opts.Address == "" {
		return nil, errors.New("probe: address is required")
	}
	if opts.Method == "" {
		opts.Method = "GET"
	}
	if opts.Target == "" {
		opts.Target = "/"
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	res := &Result{Address: opts.Address, Transport: "plain"}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", opts.Address)
	if err != nil {
		return nil, fmt.Errorf("probe: dial %s: %w", opts.Address, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if opts.TLS {
		tc := tls.Client(conn, clientConfig(opts))
		if err := tc.HandshakeContext(ctx); err != nil {
			return nil, fmt.Errorf("probe: tls handshake: %w", err)
		}
		state := tc.ConnectionState()
		res.Transport = "tls"
		res.TLSVersion = tls.VersionName(state.Version)
		res.CipherSuite = tls.CipherSuiteName(state.CipherSuite)
		conn = tc
	}

	if _, err := io.WriteString(conn, buildRequest(opts)); err != nil {
		return nil, fmt.Errorf("probe: write request: %w", err)
	}

	if err := readResponse(bufio.NewReader(conn), res, opts.MaxBody); err != nil {
		return nil, err
	}
	res.Duration = time.Since(start).Round(time.Microsecond).String()
	return res, nil
}

func clientConfig(opts Options) *tls.Config {
	name := opts.ServerName
	if name == "" {
		if host, _, err := net.SplitHostPort(opts.Address); err == nil {
			name = host
		}
	}
	cfg := &tls.Config{
		ServerName:         name,
		InsecureSkipVerify: opts.Insecure,
		RootCAs:            opts.RootCAs,
		MinVersion:         tls.VersionTLS12,
	}
	if opts.MaxTLSVersion != 0 {
		cfg.MaxVersion = opts.MaxTLSVersion
		if cfg.MaxVersion < cfg.MinVersion {
			cfg.MinVersion = cfg.MaxVersion
		}
	}
	return cfg
}

func buildRequest(opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", opts.Method, opts.Target)
	if opts.Host != "" {
		fmt.Fprintf(&b, "Host: %s\r\n", opts.Host)
	}
	if opts.UserAgent != "" {
		fmt.Fprintf(&b, "User-Agent: %s\r\n", opts.UserAgent)
	}
	if opts.Body != "" {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(opts.Body))
	}
	b.WriteString("Connection: close\r\n\r\n")
	b.WriteString(opts.Body)
	return b.String()
}

func readResponse(r *bufio.Reader, res *Result, maxBody int) error {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("probe: read status line: %w", err)
	}
	if line == "" {
		return errors.New("probe: server closed the connection without a reply")
	}
	line = strings.TrimRight(line, "\r\n")

	if !strings.HasPrefix(line, "HTTP/") {
		res.Notice = line
		return nil
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return fmt.Errorf("probe: malformed status line %q", line)
	}
	res.Status, err = strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("probe: malformed status code %q", parts[1])
	}
	if len(parts) == 3 {
		res.Reason = parts[2]
	}

	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, _ := strings.Cut(line, ":")
		res.Headers = append(res.Headers, Header{Name: name, Value: strings.TrimSpace(value)})
		if err != nil {
			break
		}
	}

	if cl := res.HeaderValue("Content-Length"); cl != "" {
		res.ContentLength, _ = strconv.Atoi(cl)
	}

	body, err := io.ReadAll(io.LimitReader(r, int64(maxBody)))
	if err != nil && len(body) == 0 {
		return fmt.Errorf("probe: read body: %w", err)
	}
	res.raw = body
	res.BodyBytes = len(body)
	if isText(res.HeaderValue("Content-Type")) && utf8.Valid(body) {
		res.Body = string(body)
	}
	return nil
}

func isText(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") || contentType == "application/javascript"
}
