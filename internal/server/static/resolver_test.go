package static

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/staticweb-go/internal/core/domain"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0xff, 0x10, 0x80}

// newTestRoot lays out a web root next to a secret file outside it.
func newTestRoot(t *testing.T) (root, outside string) {
	t.Helper()

	base := t.TempDir()
	root = filepath.Join(base, "www")
	if err := os.MkdirAll(filepath.Join(root, "css"), 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string][]byte{
		"index.html":    []byte("<h1>héllo</h1>"),
		"css/site.css":  []byte("body{}"),
		"logo.png":      pngBytes,
		"notes.TXT":     []byte("upper"),
		"archive.tar":   []byte("tar"),
		"broken.html":   {'o', 'k', 0xff},
		"../secret.txt": []byte("secret"),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(root, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root, filepath.Join(base, "secret.txt")
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()

	root, _ := newTestRoot(t)
	r, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNew(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("New(\"\") expected error")
	}
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("New() expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, nil, 0o644)
	if _, err := New(file); err == nil {
		t.Error("New() expected error for a file root")
	}
}

func TestResolve_Text(t *testing.T) {
	r := newTestResolver(t)

	res, err := r.Resolve("/index.html")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.ContentType != "text/html" {
		t.Errorf("ContentType = %q, want text/html", res.ContentType)
	}
	if res.Text != "<h1>héllo</h1>" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Len() != len("<h1>héllo</h1>") {
		t.Errorf("Len() = %d, want UTF-8 byte length %d", res.Len(), len("<h1>héllo</h1>"))
	}
}

func TestResolve_Binary(t *testing.T) {
	r := newTestResolver(t)

	res, err := r.Resolve("/logo.png")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.ContentType != "image/png" || res.IsText() {
		t.Errorf("ContentType = %q, IsText = %v", res.ContentType, res.IsText())
	}
	if !bytes.Equal(res.Data, pngBytes) {
		t.Errorf("Data = %x, want %x", res.Data, pngBytes)
	}
	if res.Len() != len(pngBytes) {
		t.Errorf("Len() = %d, want %d", res.Len(), len(pngBytes))
	}
}

func TestResolve_InvalidUTF8Text(t *testing.T) {
	r := newTestResolver(t)

	res, err := r.Resolve("/broken.html")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Text != "ok�" {
		t.Errorf("Text = %q, want replacement character", res.Text)
	}
}

func TestResolve_QueryAndFragment(t *testing.T) {
	r := newTestResolver(t)

	for _, target := range []string{"/css/site.css?v=3", "/css/site.css#top", "//css/site.css"} {
		res, err := r.Resolve(target)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", target, err)
			continue
		}
		if res.ContentType != "text/css" {
			t.Errorf("Resolve(%q) ContentType = %q", target, res.ContentType)
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name   string
		target string
	}{
		{"missing", "/nope.html"},
		{"root itself", "/"},
		{"empty", ""},
		{"directory", "/css"},
		{"traversal", "/../secret.txt"},
		{"deep traversal", "/css/../../secret.txt"},
		{"absolute escape", "/../../../../../../etc/passwd"},
		{"encoded traversal is literal", "/%2e%2e/secret.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(tt.target)
			if err == nil {
				t.Fatalf("Resolve(%q) = %+v, want not found", tt.target, res)
			}
			if !errors.Is(err, domain.ErrResourceNotFound) {
				t.Errorf("error = %v, want ErrResourceNotFound", err)
			}
		})
	}
}

func TestResolve_TraversalMatchesMissing(t *testing.T) {
	r := newTestResolver(t)

	_, errTraversal := r.Resolve("/../secret.txt")
	_, errMissing := r.Resolve("/secret.txt")
	if domain.KindOf(errTraversal) != domain.KindOf(errMissing) {
		t.Errorf("traversal kind %v differs from missing kind %v",
			domain.KindOf(errTraversal), domain.KindOf(errMissing))
	}
	if !errors.Is(errTraversal, domain.ErrResourceNotFound) || !errors.Is(errMissing, domain.ErrResourceNotFound) {
		t.Error("both outcomes must be ErrResourceNotFound")
	}
}

func TestResolve_SymlinkEscape(t *testing.T) {
	root, outside := newTestRoot(t)
	if err := os.Symlink(outside, filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "index.html"), filepath.Join(root, "home.html")); err != nil {
		t.Fatal(err)
	}

	r, err := New(root)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Resolve("/link.txt"); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("Resolve(link out of root) error = %v, want not found", err)
	}
	if _, err := r.Resolve("/home.html"); err != nil {
		t.Errorf("Resolve(link inside root) error = %v", err)
	}
}

func TestResolve_SymlinkedRoot(t *testing.T) {
	root, _ := newTestRoot(t)
	link := filepath.Join(t.TempDir(), "site")
	if err := os.Symlink(root, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	r, err := New(link)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve("/index.html"); err != nil {
		t.Errorf("Resolve() through symlinked root error = %v", err)
	}
}
