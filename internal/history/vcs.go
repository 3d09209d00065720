// Package history folds a linear sequence of VCS revisions into a VFS,
// one Snapshot per revision, by replaying each revision's diff against
// the working tree as Directory/File operations.
package history

import (
	"context"

	"github.com/codasai/codasai/internal/vfs"
)

// Rev identifies one revision in the underlying VCS (a commit hash, in
// the git-backed adapter). The reducer treats it as an opaque token.
type Rev string

// DeltaStatus classifies one tree entry's change between two revisions.
type DeltaStatus int

const (
	Added DeltaStatus = iota
	Deleted
	Modified
	Renamed
	Other
)

// Delta is one entry in the minimal diff between two revision trees.
// OldPath/OldIsDir are the zero value for Added; NewPath/NewIsDir are the
// zero value for Deleted. NewContent carries the new blob bytes for
// Added and Modified files.
type Delta struct {
	Status     DeltaStatus
	OldPath    vfs.Path
	OldIsDir   bool
	NewPath    vfs.Path
	NewIsDir   bool
	NewContent []byte
}

// TreeEntry is one path present in a revision's tree.
type TreeEntry struct {
	Path  vfs.Path
	IsDir bool
}

// VCS is the revision/diff oracle the reducer folds over. It is the
// single required collaborator interface history needs — unlike a
// registry of interchangeable optional-capability backends, there is
// exactly one implementation per build (internal/vcsgit), so the
// interface exposes every capability the reducer uses rather than
// splitting them into separately-satisfiable pieces.
type VCS interface {
	// Revisions returns every revision reachable from the history head,
	// oldest first.
	Revisions(ctx context.Context) ([]Rev, error)

	// Tree returns every path present at rev, in no particular order.
	Tree(ctx context.Context, rev Rev) ([]TreeEntry, error)

	// ReadFile returns the raw bytes of path as it exists at rev.
	ReadFile(ctx context.Context, rev Rev, path vfs.Path) ([]byte, error)

	// Diff returns the minimal set of changes between old and new's
	// trees.
	Diff(ctx context.Context, old, new Rev) ([]Delta, error)
}
