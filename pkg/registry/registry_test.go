package registry_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mpyw/modresolve/pkg/registry"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r := registry.New()
	a := r.Register("pkg/widget", "/js/pkg/widget.js")
	b := r.Register("pkg/widget", "/other.js")
	if a != b {
		t.Error("Register() created a second record for the same name")
	}
	if b.URL != "/js/pkg/widget.js" {
		t.Errorf("URL = %q, want the first registration to stick", b.URL)
	}

	got, ok := r.Lookup("pkg/widget")
	if !ok || got != a {
		t.Errorf("Lookup() = %v, %v, want registered record", got, ok)
	}
	if _, ok := r.Lookup("pkg/missing"); ok {
		t.Error("Lookup(pkg/missing) found a record")
	}
}

func TestPatcher_Patch(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		patcher    registry.Patcher
		module     string
		resolved   string
		wantRecord registry.Record
	}{
		"package on cdn": {
			module:     "packages/widget",
			resolved:   "https://cdn.example.com/js/packages/widget/lib/index.js",
			wantRecord: registry.Record{Name: "https://cdn.example.com/js/packages/widget/lib/index.js", URL: "https://cdn.example.com/js/packages/widget/lib/index.js"},
		},
		"package host relative": {
			module:     "packages/widget",
			resolved:   "/js/packages/widget/lib/index.js",
			wantRecord: registry.Record{Name: "/js/packages/widget/lib/index.js", URL: "/js/packages/widget/lib/index.js"},
		},
		"package document relative": {
			module:     "packages/widget",
			resolved:   "js/packages/widget/lib/index.js",
			wantRecord: registry.Record{Name: "js/packages/widget/lib/index.js", URL: "js/packages/widget/lib/index.js"},
		},
		"package domain without path": {
			module:     "packages/widget",
			resolved:   "https://cdn.example.com",
			wantRecord: registry.Record{Name: "https://cdn.example.com/", URL: "https://cdn.example.com"},
		},
		"outside namespace keeps name": {
			module:     "app/main",
			resolved:   "/js/app/main/index.js",
			wantRecord: registry.Record{Name: "app/main", URL: "/js/app/main/index.js"},
		},
		"custom namespace": {
			patcher:    registry.Patcher{Namespace: "vendor/"},
			module:     "vendor/widget",
			resolved:   "/vendor/widget/index.js",
			wantRecord: registry.Record{Name: "/vendor/widget/index.js", URL: "/vendor/widget/index.js"},
		},
		"custom namespace ignores default": {
			patcher:    registry.Patcher{Namespace: "vendor/"},
			module:     "packages/widget",
			resolved:   "/packages/widget/index.js",
			wantRecord: registry.Record{Name: "packages/widget", URL: "/packages/widget/index.js"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := registry.Record{Name: tt.module, URL: "/js/" + tt.module + ".js"}
			got := tt.patcher.Patch(rec, tt.module, tt.resolved)
			if diff := cmp.Diff(tt.wantRecord, got); diff != "" {
				t.Errorf("Patch() mismatch (-want +got):\n%s", diff)
			}
			if rec.Name != tt.module {
				t.Error("Patch() modified its input")
			}
		})
	}
}

func TestRegistry_Apply(t *testing.T) {
	t.Parallel()

	r := registry.New()
	rec := r.Register("packages/widget", "/js/packages/widget.js")

	p, err := r.Apply("packages/widget", "/js/packages/widget/lib/index.js", registry.Patcher{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !p.Applied || !p.Renamed() {
		t.Errorf("Apply() = %+v, want applied rename", p)
	}
	if p.PreviousName != "packages/widget" || p.PreviousURL != "/js/packages/widget.js" {
		t.Errorf("previous = %q %q", p.PreviousName, p.PreviousURL)
	}
	if p.Record != rec {
		t.Error("Apply() replaced the record instead of updating it")
	}

	// The record is reachable under its new name and the requested one.
	for _, name := range []string{rec.Name, "packages/widget"} {
		got, ok := r.Lookup(name)
		if !ok || got != rec {
			t.Errorf("Lookup(%q) = %v, %v, want patched record", name, got, ok)
		}
	}
	if rec.URL != "/js/packages/widget/lib/index.js" {
		t.Errorf("URL = %q", rec.URL)
	}
}

func TestRegistry_Apply_Unchanged(t *testing.T) {
	t.Parallel()

	r := registry.New()
	r.Register("packages/widget", "/js/packages/widget.js")

	p, err := r.Apply("packages/widget", "/js/packages/widget.js", registry.Patcher{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if p.Applied || p.Renamed() {
		t.Errorf("Apply() = %+v, want no-op", p)
	}
	if diff := cmp.Diff([]string{"packages/widget"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Apply_NotRegistered(t *testing.T) {
	t.Parallel()

	_, err := registry.New().Apply("packages/widget", "/x.js", registry.Patcher{})
	if !errors.Is(err, registry.ErrNotRegistered) {
		t.Errorf("Apply() error = %v, want ErrNotRegistered", err)
	}
}

func TestRegistry_Apply_Concurrent(t *testing.T) {
	t.Parallel()

	r := registry.New()
	const n = 32
	for i := range n {
		r.Register(fmt.Sprintf("packages/m%d", i), fmt.Sprintf("/js/packages/m%d.js", i))
	}

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("packages/m%d", i)
			if _, err := r.Apply(name, fmt.Sprintf("/js/packages/m%d/index.js", i), registry.Patcher{}); err != nil {
				t.Errorf("Apply(%q) error = %v", name, err)
			}
		}()
	}
	wg.Wait()

	if r.Len() != 2*n {
		t.Errorf("Len() = %d, want %d", r.Len(), 2*n)
	}
	for _, name := range r.Names() {
		rec, _ := r.Snapshot(name)
		got, ok := r.Lookup(rec.Name)
		if !ok {
			t.Errorf("record %q is not indexed under its own name", rec.Name)
			continue
		}
		if got.Name != rec.Name {
			t.Errorf("Lookup(%q).Name = %q", rec.Name, got.Name)
		}
	}
}
