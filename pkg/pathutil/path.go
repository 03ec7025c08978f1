// Package pathutil implements POSIX path algebra over "/"-separated strings.
//
// Unlike the standard library path package, Normalize keeps a trailing slash,
// Resolve without an absolute segment stays relative to an empty root, and
// Relative walks up with ".." segments. Module names and URL paths are handled
// with the same rules as a browser-side loader applies to them.
package pathutil

import (
	"regexp"
	"strings"
)

// splitPathRe splits a filename into root, dir, basename and extension.
// The root is either a single slash or nothing.
var splitPathRe = regexp.MustCompile(`^(/?|)([\s\S]*?)((?:\.{1,2}|[^/]+?|)(\.[^./]*|))(?:/*)$`)

// IsAbsolute reports whether p starts with a slash.
func IsAbsolute(p string) bool {
	return strings.HasPrefix(p, "/")
}

// Resolve resolves a sequence of paths into a single path.
//
// Arguments are processed from right to left, each one prepended to the
// result, until an absolute path is built. Empty arguments are skipped.
// When no argument is absolute the result stays relative and is "." if empty.
func Resolve(paths ...string) string {
	var resolved string
	absolute := false
	for i := len(paths) - 1; i >= 0 && !absolute; i-- {
		p := paths[i]
		if p == "" {
			continue
		}
		resolved = p + "/" + resolved
		absolute = IsAbsolute(p)
	}

	resolved = strings.Join(normalizeSegments(segments(resolved), !absolute), "/")
	if absolute {
		resolved = "/" + resolved
	}
	if resolved == "" {
		return "."
	}
	return resolved
}

// Normalize collapses repeated slashes and resolves "." and ".." segments.
// A trailing slash is preserved.
func Normalize(p string) string {
	absolute := IsAbsolute(p)
	trailingSlash := strings.HasSuffix(p, "/")

	p = strings.Join(normalizeSegments(segments(p), !absolute), "/")
	if p == "" && !absolute {
		p = "."
	}
	if p != "" && trailingSlash {
		p += "/"
	}
	if absolute {
		return "/" + p
	}
	return p
}

// Join joins the non-empty arguments with slashes and normalizes the result.
func Join(paths ...string) string {
	nonEmpty := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return Normalize(strings.Join(nonEmpty, "/"))
}

// Relative returns the path from "from" to "to" using ".." segments to walk up.
// Both arguments are resolved first. Equal paths yield an empty string.
func Relative(from, to string) string {
	fromParts := resolvedSegments(from)
	toParts := resolvedSegments(to)

	same := min(len(fromParts), len(toParts))
	for i := 0; i < same; i++ {
		if fromParts[i] != toParts[i] {
			same = i
			break
		}
	}

	out := make([]string, 0, len(fromParts)-same+len(toParts)-same)
	for i := same; i < len(fromParts); i++ {
		out = append(out, "..")
	}
	out = append(out, toParts[same:]...)
	return strings.Join(out, "/")
}

// Dirname returns the directory portion of p.
// A path without any directory yields ".".
func Dirname(p string) string {
	m := splitPathRe.FindStringSubmatch(p)
	root, dir := m[1], m[2]
	if root == "" && dir == "" {
		return "."
	}
	if dir != "" {
		dir = dir[:len(dir)-1]
	}
	return root + dir
}

// Basename returns the last portion of p, ignoring trailing slashes.
func Basename(p string) string {
	return splitPathRe.FindStringSubmatch(p)[3]
}

// Extname returns the extension of the last portion of p, including the dot.
func Extname(p string) string {
	return splitPathRe.FindStringSubmatch(p)[4]
}

func segments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// normalizeSegments drops "." segments and lets ".." consume the preceding
// real segment. Leftover ".." segments are kept only when allowAboveRoot is set.
func normalizeSegments(parts []string, allowAboveRoot bool) []string {
	up := 0
	kept := make([]string, 0, len(parts))
	for i := len(parts) - 1; i >= 0; i-- {
		switch last := parts[i]; {
		case last == ".":
		case last == "..":
			up++
		case up > 0:
			up--
		default:
			kept = append(kept, last)
		}
	}

	out := make([]string, 0, len(kept)+up)
	if allowAboveRoot {
		for ; up > 0; up-- {
			out = append(out, "..")
		}
	}
	for i := len(kept) - 1; i >= 0; i-- {
		out = append(out, kept[i])
	}
	return out
}

func resolvedSegments(p string) []string {
	resolved := Resolve(p)
	if resolved == "." {
		return nil
	}
	return segments(resolved)
}
