package webserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yndnr/staticweb-go/internal/core/domain"
	"github.com/yndnr/staticweb-go/internal/server/static"
	"github.com/yndnr/staticweb-go/internal/telemetry/logger"
)

// Fixed response bodies.
const (
	BodyNotFound     = "404 - Not Found"
	BodyTeapot       = "You're a Teapot! :)"
	BodyHostRequired = "Host header is required for redirect."
)

// HSTS is sent with every static response.
const HSTS = "max-age=31536000; includeSubDomains"

// decorativeHeaders follow the server identification header on static
// responses.
var decorativeHeaders = []Header{
	{"X-Teapot-Says", "You're a Teapot! :p"},
	{"Server", "Apache"},
	{"Server", "nginx"},
	{"Server", "Microsoft-IIS"},
	{"Server", "Kestrel"},
	{"Server", "ALL THE SERVERS!"},
}

// Method is the dispatch class of a request method. Only GET is served;
// the comparison is case-sensitive.
type Method int

const (
	MethodGet Method = iota
	MethodOther
)

// ParseMethod classifies a request method.
func ParseMethod(s string) Method {
	if s == http.MethodGet {
		return MethodGet
	}
	return MethodOther
}

// Resolver looks up static resources.
type Resolver interface {
	Resolve(target string) (*static.Resource, error)
}

// Router turns a parsed request into a response.
type Router struct {
	resolver   Resolver
	serverName string
}

// NewRouter creates a router. serverName is sent in the Server header of
// static responses, e.g. "staticweb/1.0.0".
func NewRouter(resolver Resolver, serverName string) *Router {
	return &Router{resolver: resolver, serverName: serverName}
}

// Route dispatches on method and transport.
func (rt *Router) Route(ctx context.Context, req *Request, t Transport) *Response {
	switch ParseMethod(req.Method) {
	case MethodGet:
		switch t {
		case TransportPlain:
			return redirectToHTTPS(req)
		case TransportSecure:
			return rt.serveStatic(ctx, req)
		}
	case MethodOther:
	}
	logger.L(ctx).Info("unsupported method", "method", req.Method)
	return teapot()
}

func (rt *Router) serveStatic(ctx context.Context, req *Request) *Response {
	res, err := rt.resolver.Resolve(req.Target)
	if err != nil {
		level := slog.LevelInfo
		if !errors.Is(err, domain.ErrResourceNotFound) {
			level = slog.LevelWarn
		}
		logger.L(ctx).Log(ctx, level, "resource not found", "target", req.Target, "error", err)
		return rt.decorated(http.StatusNotFound, "text/html", BodyText, BodyNotFound, nil)
	}
	if res.IsText() {
		return rt.decorated(http.StatusOK, res.ContentType, BodyText, res.Text, nil)
	}
	return rt.decorated(http.StatusOK, res.ContentType, BodyBinary, "", res.Data)
}

// decorated builds a 200/404 response with the full header set.
func (rt *Router) decorated(status int, contentType string, kind BodyKind, text string, data []byte) *Response {
	r := &Response{
		Status: status,
		Reason: http.StatusText(status),
		kind:   kind,
		text:   text,
		data:   data,
	}
	r.Headers = make([]Header, 0, 5+len(decorativeHeaders))
	r.Headers = append(r.Headers,
		Header{"Connection", "close"},
		Header{"Content-Type", contentType},
		Header{"Server", rt.serverName},
	)
	r.Headers = append(r.Headers, decorativeHeaders...)
	r.Headers = append(r.Headers,
		Header{"Strict-Transport-Security", HSTS},
		Header{"Content-Length", strconv.Itoa(r.ContentLength())},
	)
	return r
}

// redirectToHTTPS answers plaintext GETs. The redirect deliberately
// carries no security or decorative headers.
func redirectToHTTPS(req *Request) *Response {
	if req.Host == "" {
		return plain(http.StatusBadRequest, "text/plain", BodyHostRequired)
	}
	return &Response{
		Status: http.StatusMovedPermanently,
		Reason: http.StatusText(http.StatusMovedPermanently),
		Headers: []Header{
			{"Location", "https://" + req.Host + req.Target},
			{"Connection", "close"},
			{"Content-Length", "0"},
		},
		kind: BodyNone,
	}
}

func teapot() *Response {
	return plain(http.StatusTeapot, "text/html", BodyTeapot)
}

// plain builds a minimal text response.
func plain(status int, contentType, text string) *Response {
	return &Response{
		Status: status,
		Reason: http.StatusText(status),
		Headers: []Header{
			{"Connection", "close"},
			{"Content-Type", contentType},
			{"Content-Length", strconv.Itoa(len(text))},
		},
		kind: BodyText,
		text: text,
	}
}
