// Package manifest reads package entry files from bower.json and package.json.
package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/mpyw/modresolve/internal"
)

// Manifest file names probed by default, in order.
const (
	BowerJSON   = "bower.json"
	PackageJSON = "package.json"
)

// Fields declaring the entry file. The debug field takes priority.
const (
	FieldMain      = "main"
	FieldMainDebug = "main-debug"
)

// ErrInvalidManifest is returned by Parse for malformed JSON or a manifest
// whose entry fields have an unsupported shape.
var ErrInvalidManifest = errors.New("invalid manifest")

//go:embed schema.json
var schemaJSON []byte

// Compiled at init time - failure here means a corrupted embedded file.
var manifestSchema *jsonschema.Schema

func init() {
	doc := internal.Must(jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON)))
	compiler := jsonschema.NewCompiler()
	internal.Must(struct{}{}, compiler.AddResource("schema.json", doc))
	manifestSchema = internal.Must(compiler.Compile("schema.json"))
}

// DefaultFiles returns the manifest file names probed when none are configured.
func DefaultFiles() []string {
	return []string{BowerJSON, PackageJSON}
}

// Data is a decoded manifest object.
type Data map[string]any

// Parse decodes and validates a manifest body.
func Parse(body []byte) (Data, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := manifestSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	// The schema guarantees an object at the top level.
	return Data(doc.(map[string]any)), nil
}

// EntryFile extracts the entry file declared by data.
//
// "main-debug" is preferred over "main". A list picks its first entry ending
// with ext. The result always starts with a slash so it can be appended to
// the package base URL. It reports false when no usable entry exists.
func EntryFile(data Data, ext string) (string, bool) {
	var value any
	for _, field := range []string{FieldMainDebug, FieldMain} {
		if v := data[field]; truthy(v) {
			value = v
			break
		}
	}

	var file string
	switch v := value.(type) {
	case string:
		file = v
	case []string:
		file = firstWithExt(v, ext)
	case []any:
		entries := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				entries = append(entries, s)
			}
		}
		file = firstWithExt(entries, ext)
	}

	if file == "" {
		return "", false
	}
	if !strings.HasPrefix(file, "/") {
		file = "/" + file
	}
	return file, true
}

func firstWithExt(entries []string, ext string) string {
	for _, e := range entries {
		if strings.HasSuffix(e, ext) {
			return e
		}
	}
	return ""
}

// truthy follows loose truthiness: empty strings, false, zero and null are
// unset, while any list counts as set even when empty.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
