package vfs

// EntryKind distinguishes the two kinds of node the Tree Walker yields.
type EntryKind int

const (
	KindDirectory EntryKind = iota
	KindFile
)

// Entry is one (path, depth, kind) tuple yielded by a Walker.
type Entry struct {
	Path  Path
	Depth int
	Kind  EntryKind
}

// frame holds the walk position within one directory level: the
// lexicographically sorted child names plus cursors into each, and the
// path components leading to this directory.
type frame struct {
	dir        *Directory
	components []string
	dirNames   []string
	fileNames  []string
	dirIdx     int
	fileIdx    int
}

// Walker produces a deterministic pre-order traversal of a Snapshot's
// tree: at each level, every child directory (lexicographic) is visited
// — and immediately descended into — before any child file
// (lexicographic) is visited. A Walker is single-use; construct a fresh
// one for each pass.
type Walker struct {
	stack []*frame
}

// NewWalker builds a Walker positioned at the root of snap's tree.
func NewWalker(snap *Snapshot) *Walker {
	return &Walker{stack: []*frame{newFrame(snap.Root.Directory, nil)}}
}

func newFrame(dir *Directory, components []string) *frame {
	return &frame{
		dir:        dir,
		components: components,
		dirNames:   dir.SortedDirNames(),
		fileNames:  dir.SortedFileNames(),
	}
}

// Next returns the next entry in the traversal, or ok=false when the walk
// is exhausted.
func (w *Walker) Next() (entry Entry, ok bool) {
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]

		if top.dirIdx < len(top.dirNames) {
			name := top.dirNames[top.dirIdx]
			top.dirIdx++

			components := appendComponent(top.components, name)
			sub, _ := top.dir.Dir(name)
			w.stack = append(w.stack, newFrame(sub, components))

			return Entry{
				Path:  Path{components: components},
				Depth: len(components),
				Kind:  KindDirectory,
			}, true
		}

		if top.fileIdx < len(top.fileNames) {
			name := top.fileNames[top.fileIdx]
			top.fileIdx++

			components := appendComponent(top.components, name)
			return Entry{
				Path:  Path{components: components},
				Depth: len(components),
				Kind:  KindFile,
			}, true
		}

		w.stack = w.stack[:len(w.stack)-1]
	}
	return Entry{}, false
}

func appendComponent(components []string, name string) []string {
	out := make([]string, len(components)+1)
	copy(out, components)
	out[len(components)] = name
	return out
}
