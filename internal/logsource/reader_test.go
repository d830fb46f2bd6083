package logsource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadAll(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "unix line endings",
			content: "first\nsecond\nthird\n",
			want:    []string{"first", "second", "third"},
		},
		{
			name:    "windows line endings",
			content: "first\r\nsecond\r\n",
			want:    []string{"first", "second"},
		},
		{
			name:    "no trailing newline",
			content: "only line",
			want:    []string{"only line"},
		},
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
	}

	reader := NewReader()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "test.log")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			lines, err := reader.ReadAll(path)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}

			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(lines), len(tt.want))
			}
			for i := range lines {
				if lines[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, lines[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadAll_MissingFile(t *testing.T) {
	reader := NewReader()

	_, err := reader.ReadAll(filepath.Join(t.TempDir(), "nope.log"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !IsMissing(err) {
		t.Errorf("IsMissing(err) = false, err = %v", err)
	}
	if IsUnavailable(err) {
		t.Error("missing file must not classify as contention")
	}
}

func TestReadAll_DirectoryIsUnavailable(t *testing.T) {
	// Reading a directory fails mid-scan; must classify as transient,
	// not as missing.
	reader := NewReader()

	_, err := reader.ReadAll(t.TempDir())
	if err == nil {
		t.Fatal("expected error when path is a directory")
	}
	if !IsUnavailable(err) {
		t.Errorf("IsUnavailable(err) = false, err = %v", err)
	}
	if IsMissing(err) {
		t.Error("directory read failure must not classify as missing")
	}
}
