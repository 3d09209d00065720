// Package guide owns the Guide type and its JSON wire form: the single
// artifact a build produces and a viewer consumes.
package guide

import "github.com/codasai/codasai/internal/vfs"

// Guide is a named, fully-built VFS history: the top-level artifact the
// CLI's "build" command serialises and the viewer loads.
type Guide struct {
	Name string
	VFS  *vfs.VFS
}

// New builds an empty Guide with a fresh VFS.
func New(name string) *Guide {
	return &Guide{Name: name, VFS: vfs.New()}
}
