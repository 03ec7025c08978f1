package urlutil_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mpyw/modresolve/pkg/urlutil"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		url  string
		want urlutil.Parts
	}{
		"absolute https": {
			url:  "https://cdn.example.com/packages/widget/lib/index.js",
			want: urlutil.Parts{Domain: "https://cdn.example.com", Path: "/packages/widget/lib/index.js"},
		},
		"protocol relative": {
			url:  "//cdn.example.com/a.js",
			want: urlutil.Parts{Domain: "//cdn.example.com", Path: "/a.js"},
		},
		"host with port": {
			url:  "http://127.0.0.1:8080/js/app.js",
			want: urlutil.Parts{Domain: "http://127.0.0.1:8080", Path: "/js/app.js"},
		},
		"host only": {
			url:  "https://example.com",
			want: urlutil.Parts{Domain: "https://example.com", Path: ""},
		},
		"host relative": {
			url:  "/packages/widget.js",
			want: urlutil.Parts{Domain: "", Path: "/packages/widget.js"},
		},
		"document relative": {
			url:  "packages/widget.js",
			want: urlutil.Parts{Domain: "", Path: "packages/widget.js"},
		},
		"scheme without slashes": {
			url:  "data:text/javascript,1",
			want: urlutil.Parts{Domain: "", Path: "data:text/javascript,1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := urlutil.Split(tt.url)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.url, diff)
			}
			if got.String() != tt.url {
				t.Errorf("Split(%q).String() = %q", tt.url, got.String())
			}
			if urlutil.HasDomain(tt.url) != (tt.want.Domain != "") {
				t.Errorf("HasDomain(%q) = %v", tt.url, urlutil.HasDomain(tt.url))
			}
		})
	}
}

func TestTrimExt(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		file string
		want string
	}{
		"js":            {file: "/js/packages/widget.js", want: "/js/packages/widget"},
		"json":          {file: "widget/bower.json", want: "widget/bower"},
		"no extension":  {file: "/js/packages/widget", want: "/js/packages/widget"},
		"only last ext": {file: "a.min.js", want: "a.min"},
		"dot directory": {file: "/v1.2/widget", want: "/v1.2/widget"},
		"trailing dot":  {file: "widget.", want: "widget."},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := urlutil.TrimExt(tt.file); got != tt.want {
				t.Errorf("TrimExt(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestEnsureExt(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		url  string
		want string
	}{
		"appends":         {url: "/cdn/widget", want: "/cdn/widget.js"},
		"keeps js":        {url: "/cdn/widget.js", want: "/cdn/widget.js"},
		"keeps other ext": {url: "/cdn/style.css", want: "/cdn/style.css"},
		"versioned dir":   {url: "/cdn/1.0/widget", want: "/cdn/1.0/widget.js"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := urlutil.EnsureExt(tt.url, ".js"); got != tt.want {
				t.Errorf("EnsureExt(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
