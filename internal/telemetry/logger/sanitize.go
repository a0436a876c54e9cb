package logger

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// MaxValueLen caps the length of a client-supplied value in a log record.
const MaxValueLen = 1024

// clientKeys are attribute keys whose values come from the network.
var clientKeys = map[string]struct{}{
	"request_line": {},
	"method":       {},
	"target":       {},
	"host":         {},
	"user_agent":   {},
	"body":         {},
}

func sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = sanitizeAttr(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if _, ok := clientKeys[a.Key]; !ok {
		return a
	}
	return slog.String(a.Key, SanitizeValue(a.Value.String()))
}

// SanitizeValue escapes non-printable runes and truncates s to MaxValueLen
// bytes. Printable input is returned unchanged.
func SanitizeValue(s string) string {
	truncated := false
	if len(s) > MaxValueLen {
		s = strings.ToValidUTF8(s[:MaxValueLen], "")
		truncated = true
	}

	clean := true
	for _, r := range s {
		if r == unicode.ReplacementChar || !unicode.IsPrint(r) {
			clean = false
			break
		}
	}
	if !clean {
		q := strconv.QuoteToGraphic(s)
		s = q[1 : len(q)-1]
	}

	if truncated {
		s += "...(truncated)"
	}
	return s
}
