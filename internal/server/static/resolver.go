package static

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yndnr/staticweb-go/internal/core/domain"
)

// Resource is a file read from inside the web root.
type Resource struct {
	ContentType string
	// Text holds the content of textual resources, Data that of binary ones.
	Text string
	Data []byte
}

// IsText reports whether the resource carries text.
func (r *Resource) IsText() bool {
	return IsText(r.ContentType)
}

// Len returns the body length in bytes.
func (r *Resource) Len() int {
	if r.IsText() {
		return len(r.Text)
	}
	return len(r.Data)
}

// Resolver maps request targets to files under a canonical root.
type Resolver struct {
	root   string
	prefix string
}

// New creates a Resolver for root. The root must exist; it is
// canonicalized once so later prefix checks compare like with like.
func New(root string) (*Resolver, error) {
	if root == "" {
		return nil, fmt.Errorf("static: empty root")
	}
	canonical, err := canonicalize(root)
	if err != nil {
		return nil, fmt.Errorf("static: root %s: %w", root, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("static: root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static: root %s is not a directory", root)
	}
	prefix := canonical
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return &Resolver{root: canonical, prefix: prefix}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve reads the file named by target. Query strings and fragments are
// ignored and no percent-decoding is applied. Every failure is reported as
// domain.ErrResourceNotFound with the underlying cause attached for logs.
func (r *Resolver) Resolve(target string) (*Resource, error) {
	path, ok := r.locate(target)
	if !ok {
		return nil, domain.ErrResourceNotFound.WithDetails(target)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrResourceNotFound.WithDetails(target).WithCause(err)
	}

	res := &Resource{ContentType: ContentType(path)}
	if res.IsText() {
		res.Text = string(data)
		if !utf8.ValidString(res.Text) {
			res.Text = strings.ToValidUTF8(res.Text, "�")
		}
	} else {
		res.Data = data
	}
	return res, nil
}

// locate returns the canonical path for target when it names a regular
// file strictly inside the root.
func (r *Resolver) locate(target string) (string, bool) {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	rel := strings.TrimLeft(target, "/")
	if rel == "" {
		return "", false
	}

	path, err := canonicalize(filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(path, r.prefix) {
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

func canonicalize(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}
