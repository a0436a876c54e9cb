package static

import "testing"

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
		text bool
	}{
		{"index.html", "text/html", true},
		{"a.txt", "text/plain", true},
		{"a.css", "text/css", true},
		{"app.js", "application/javascript", true},
		{"favicon.ico", "image/x-icon", false},
		{"a.jpg", "image/jpeg", false},
		{"a.jpeg", "image/jpeg", false},
		{"a.png", "image/png", false},
		{"a.gif", "image/gif", false},
		{"A.PNG", "image/png", false},
		{"a.svg", DefaultContentType, false},
		{"Makefile", DefaultContentType, false},
		{"dir.html/file", DefaultContentType, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContentType(tt.name)
			if got != tt.want {
				t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
			}
			if IsText(got) != tt.text {
				t.Errorf("IsText(%q) = %v, want %v", got, IsText(got), tt.text)
			}
		})
	}
}
