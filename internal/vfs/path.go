package vfs

import (
	"strings"
	"unicode/utf8"

	"github.com/codasai/codasai/internal/codasaierr"
)

// Path is a validated, non-empty sequence of path components. It never
// contains "." or ".." segments or empty segments; a leading absolute
// marker ("/") is accepted at construction time and discarded, since the
// VFS treats every path as relative to its Root.
type Path struct {
	components []string
}

// NewPath validates s and builds a Path from it.
func NewPath(s string) (Path, error) {
	if !utf8.ValidString(s) {
		return Path{}, codasaierr.New(codasaierr.InvalidPath, "path is not valid UTF-8")
	}

	trimmed := strings.TrimPrefix(s, "/")
	if trimmed == "" {
		return Path{}, codasaierr.New(codasaierr.InvalidPath, "path has no components")
	}

	raw := strings.Split(trimmed, "/")
	components := make([]string, 0, len(raw))
	for _, c := range raw {
		switch c {
		case "":
			return Path{}, codasaierr.New(codasaierr.InvalidPath, "path has an empty component: "+s)
		case ".":
			return Path{}, codasaierr.New(codasaierr.InvalidPath, "path has a current-directory component: "+s)
		case "..":
			return Path{}, codasaierr.New(codasaierr.InvalidPath, "path has a parent-reference component: "+s)
		}
		components = append(components, c)
	}

	return Path{components: components}, nil
}

// MustPath panics if s does not validate. Intended for literals in tests
// and for paths already known to be valid (e.g. built from Components()).
func MustPath(s string) Path {
	p, err := NewPath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Components returns the ordered path components. The returned slice must
// not be mutated.
func (p Path) Components() []string {
	return p.components
}

// FileName returns the final path component.
func (p Path) FileName() string {
	return p.components[len(p.components)-1]
}

// Parent returns the path with its final component removed. It fails when
// p has a single component (the Root has no addressable parent).
func (p Path) Parent() (Path, error) {
	if len(p.components) < 2 {
		return Path{}, codasaierr.New(codasaierr.InvalidPath, "path has no parent: "+p.String())
	}
	parent := make([]string, len(p.components)-1)
	copy(parent, p.components[:len(p.components)-1])
	return Path{components: parent}, nil
}

// String renders the path in slash-separated form.
func (p Path) String() string {
	return strings.Join(p.components, "/")
}

// Equal reports component-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i := range p.components {
		if p.components[i] != other.components[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether p is the zero value (never produced by NewPath,
// but used by callers that track "this side of a rename/diff is absent"
// using the zero Path as a sentinel).
func (p Path) IsZero() bool {
	return len(p.components) == 0
}

// HasPrefix reports whether p starts with every component of prefix, in
// order. Used to test membership in reserved prefixes such as ".codasai/".
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.components) > len(p.components) {
		return false
	}
	for i, c := range prefix.components {
		if p.components[i] != c {
			return false
		}
	}
	return true
}
