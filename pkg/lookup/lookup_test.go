package lookup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mpyw/modresolve/pkg/lookup"
)

func TestTable_Get(t *testing.T) {
	t.Parallel()

	table := lookup.New(map[string]string{
		"pkg/widget":    "/cdn/widget.js",
		"pkg/legacy.js": "/cdn/legacy.js",
		"both":          "/cdn/bare.js",
		"both.js":       "/cdn/suffixed.js",
	})

	tests := map[string]struct {
		key    string
		want   string
		wantOK bool
	}{
		"bare key":                   {key: "pkg/widget", want: "/cdn/widget.js", wantOK: true},
		"key with extension":         {key: "pkg/widget.js", want: "/cdn/widget.js", wantOK: true},
		"entry stored with ext":      {key: "pkg/legacy", want: "/cdn/legacy.js", wantOK: true},
		"entry stored with ext, ext": {key: "pkg/legacy.js", want: "/cdn/legacy.js", wantOK: true},
		"bare entry wins":            {key: "both.js", want: "/cdn/bare.js", wantOK: true},
		"miss":                       {key: "pkg/missing", wantOK: false},
		"other extension untouched":  {key: "pkg/widget.css", wantOK: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := table.Get(tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Get(%q) = %q, %v, want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTable_SetReplaces(t *testing.T) {
	t.Parallel()

	table := lookup.New(map[string]string{"a": "/a.js", "b": "/b.js"})
	table.Set(map[string]string{"c": "/c.js"})

	if _, ok := table.Get("a"); ok {
		t.Error("Set() merged instead of replacing")
	}
	if diff := cmp.Diff(map[string]string{"c": "/c.js"}, table.All()); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_CopiesInput(t *testing.T) {
	t.Parallel()

	entries := map[string]string{"a": "/a.js"}
	table := lookup.New(entries)
	entries["a"] = "/changed.js"

	all := table.All()
	all["b"] = "/b.js"

	if got, _ := table.Get("a"); got != "/a.js" {
		t.Errorf("Get(a) = %q, want /a.js", got)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestDefault(t *testing.T) {
	defer lookup.Set(nil)

	lookup.Set(map[string]string{"pkg/widget": "/cdn/widget.js"})
	if got, ok := lookup.Get("pkg/widget.js"); !ok || got != "/cdn/widget.js" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
	if lookup.Default().Len() != 1 || len(lookup.All()) != 1 {
		t.Errorf("default table has %d entries, want 1", lookup.Default().Len())
	}
}

func TestLoadWrite(t *testing.T) {
	t.Parallel()

	entries := map[string]string{
		"pkg/widget": "https://cdn.example.com/widget/1.2.0/index.js",
		"app/main":   "/js/app/main.js",
	}

	for _, file := range []string{"lookup.json", "lookup.yaml"} {
		t.Run(file, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), file)
			if err := lookup.Write(path, entries); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, err := lookup.Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(entries, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("- not\n- a map\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := lookup.Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load(missing) error = nil")
	}
	if _, err := lookup.Load(bad); err == nil {
		t.Error("Load(bad) error = nil")
	}
}
