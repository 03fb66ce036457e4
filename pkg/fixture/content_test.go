package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeContentFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write content file: %v", err)
	}
	return path
}

func TestDefaultIsACopy(t *testing.T) {
	c := Default()
	c.Lines[0] = "changed"
	if Lines[0] == "changed" {
		t.Error("Default should not share its lines with the package")
	}
	if len(Default().Lines) != 22 {
		t.Errorf("Expected 22 default lines, got %d", len(Default().Lines))
	}
}

func TestLoadContent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Content
	}{
		{
			name: "title and lines",
			data: "title: Notes\nlines:\n  - one\n  - \"\"\n  - two\n",
			want: Content{Title: "Notes", Lines: []string{"one", "", "two"}},
		},
		{
			name: "title only",
			data: "title: Notes\n",
			want: Content{Title: "Notes", Lines: Lines},
		},
		{
			name: "lines only",
			data: "lines: [a, b]\n",
			want: Content{Title: Title, Lines: []string{"a", "b"}},
		},
		{
			name: "empty title",
			data: "title: \"\"\n",
			want: Content{Title: "", Lines: Lines},
		},
		{
			name: "empty file",
			data: "",
			want: Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadContent(writeContentFile(t, tt.data))
			if err != nil {
				t.Fatalf("LoadContent failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("content mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadContentErrors(t *testing.T) {
	if _, err := LoadContent(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}
	if _, err := LoadContent(writeContentFile(t, "title: [unclosed\n")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
	if _, err := LoadContent(writeContentFile(t, "lines: {a: b}\n")); err == nil {
		t.Error("Expected error for lines that are not a list")
	}
}
