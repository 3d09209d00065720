package vfs

import (
	"log"
	"sort"

	"github.com/codasai/codasai/internal/codasaierr"
)

// Directory is a node holding an ordered mapping from child-directory name
// to Directory and an ordered mapping from child-file name to FileStore
// index. Ordering is lexicographic over names within each of the two
// namespaces; callers obtain that order through SortedDirNames and
// SortedFileNames rather than through iteration order on the underlying
// maps, which — unlike the source's insertion-ordered maps — are plain Go
// maps sorted on read. The result is observably identical: serialisation
// and the Tree Walker never need a separate sort pass over anything but
// these two small per-directory name lists.
type Directory struct {
	dirs  map[string]*Directory
	files map[string]FileIndex
}

// NewDirectory builds an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		dirs:  make(map[string]*Directory),
		files: make(map[string]FileIndex),
	}
}

// Root is the entry point of a tree. It is a Directory wrapper exposing
// path-addressed mutation so callers never have to hand-walk components.
type Root struct {
	*Directory
}

// NewRoot builds an empty Root.
func NewRoot() *Root {
	return &Root{Directory: NewDirectory()}
}

// SortedDirNames returns the child-directory names in lexicographic order.
func (d *Directory) SortedDirNames() []string {
	names := make([]string, 0, len(d.dirs))
	for name := range d.dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedFileNames returns the child-file names in lexicographic order.
func (d *Directory) SortedFileNames() []string {
	names := make([]string, 0, len(d.files))
	for name := range d.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dir returns the named child directory, if any.
func (d *Directory) Dir(name string) (*Directory, bool) {
	sub, ok := d.dirs[name]
	return sub, ok
}

// File returns the named child file's FileStore index, if any.
func (d *Directory) File(name string) (FileIndex, bool) {
	idx, ok := d.files[name]
	return idx, ok
}

// InsertDir attaches child as the named subdirectory, overwriting any
// existing entry. It is a raw structural setter with none of Root's
// path-resolution or collision checks, meant for building a Directory
// tree back up from a deserialised wire form.
func (d *Directory) InsertDir(name string, child *Directory) {
	d.dirs[name] = child
}

// InsertFile attaches idx as the named file entry, overwriting any
// existing entry. See InsertDir.
func (d *Directory) InsertFile(name string, idx FileIndex) {
	d.files[name] = idx
}

// Clone performs a deep structural copy of the subtree rooted at d. File
// contents are not duplicated — only the FileIndex values referencing
// them — so the copy shares file data with the original tree while being
// free to mutate independently.
func (d *Directory) Clone() *Directory {
	clone := NewDirectory()
	for name, sub := range d.dirs {
		clone.dirs[name] = sub.Clone()
	}
	for name, idx := range d.files {
		clone.files[name] = idx
	}
	return clone
}

// Equal reports whether two subtrees are content-equal: the same
// directory and file names at every level, with each file's content —
// resolved through its own store, not compared as a raw FileIndex —
// matching. Two snapshots built from unrelated FileStores can be Equal
// even when the same logical file landed at a different index in each.
func (d *Directory) Equal(other *Directory, store, otherStore *FileStore) bool {
	if len(d.dirs) != len(other.dirs) || len(d.files) != len(other.files) {
		return false
	}
	for name, idx := range d.files {
		oidx, ok := other.files[name]
		if !ok {
			return false
		}
		content, _ := store.Read(idx)
		ocontent, _ := otherStore.Read(oidx)
		if content != ocontent {
			return false
		}
	}
	for name, sub := range d.dirs {
		osub, ok := other.dirs[name]
		if !ok || !sub.Equal(osub, store, otherStore) {
			return false
		}
	}
	return true
}

// resolveForWrite descends from the Root, creating missing intermediate
// directories, and returns the parent directory of path's final component
// plus that final component's name. It fails only when an intermediate
// component already exists as a file (a directory/file namespace
// collision — spec §9's open question, resolved here as rejection).
func (r *Root) resolveForWrite(p Path) (*Directory, string, error) {
	components := p.Components()
	dir := r.Directory
	for _, name := range components[:len(components)-1] {
		if _, isFile := dir.files[name]; isFile {
			return nil, "", codasaierr.New(codasaierr.InvariantViolation,
				"cannot descend through \""+name+"\": a file already exists with that name")
		}
		sub, ok := dir.dirs[name]
		if !ok {
			sub = NewDirectory()
			dir.dirs[name] = sub
		}
		dir = sub
	}
	return dir, components[len(components)-1], nil
}

// resolveForRead descends from the Root without mutating the tree,
// returning the parent directory of path's final component and that
// component's name. It returns ok=false if any intermediate component is
// absent.
func (r *Root) resolveForRead(p Path) (dir *Directory, name string, ok bool) {
	components := p.Components()
	dir = r.Directory
	for _, c := range components[:len(components)-1] {
		sub, exists := dir.dirs[c]
		if !exists {
			return nil, "", false
		}
		dir = sub
	}
	return dir, components[len(components)-1], true
}

// CreateDirectory creates the directory at path, implicitly creating every
// missing ancestor. It is idempotent: creating an already-existing
// directory is a no-op.
func (r *Root) CreateDirectory(p Path) error {
	parent, name, err := r.resolveForWrite(p)
	if err != nil {
		return err
	}
	if _, isFile := parent.files[name]; isFile {
		return codasaierr.New(codasaierr.InvariantViolation,
			"cannot create directory \""+p.String()+"\": a file already exists with that name")
	}
	if _, exists := parent.dirs[name]; !exists {
		parent.dirs[name] = NewDirectory()
	}
	return nil
}

// DeleteDirectory removes the subtree at path. Deleting an absent
// directory is a soft warning, never an error, so a noisy diff never
// aborts a build.
func (r *Root) DeleteDirectory(p Path) {
	parent, name, ok := r.resolveForRead(p)
	if !ok {
		log.Printf("warning: delete_directory: ancestor of %q does not exist", p.String())
		return
	}
	if _, exists := parent.dirs[name]; !exists {
		log.Printf("warning: delete_directory: %q does not exist", p.String())
		return
	}
	delete(parent.dirs, name)
}

// RenameDirectory moves the subtree at old to new. It logs a warning and
// no-ops when old does not exist. When new's parent is absent it is created; when a
// node already exists at new, it is overwritten.
func (r *Root) RenameDirectory(oldPath, newPath Path) error {
	oldParent, oldName, ok := r.resolveForRead(oldPath)
	if !ok {
		log.Printf("warning: rename_directory: ancestor of %q does not exist", oldPath.String())
		return nil
	}
	sub, exists := oldParent.dirs[oldName]
	if !exists {
		log.Printf("warning: rename_directory: %q does not exist", oldPath.String())
		return nil
	}

	newParent, newName, err := r.resolveForWrite(newPath)
	if err != nil {
		return err
	}
	delete(newParent.files, newName)
	newParent.dirs[newName] = sub
	delete(oldParent.dirs, oldName)
	return nil
}

// CreateFile creates a file entry at path pointing at fileIndex, creating
// missing ancestors and overwriting any existing file entry at the same
// name.
func (r *Root) CreateFile(p Path, fileIndex FileIndex) error {
	parent, name, err := r.resolveForWrite(p)
	if err != nil {
		return err
	}
	if _, isDir := parent.dirs[name]; isDir {
		return codasaierr.New(codasaierr.InvariantViolation,
			"cannot create file \""+p.String()+"\": a directory already exists with that name")
	}
	parent.files[name] = fileIndex
	return nil
}

// DeleteFile removes the file entry at path. Deleting an absent file is a
// soft warning, never an error.
func (r *Root) DeleteFile(p Path) {
	parent, name, ok := r.resolveForRead(p)
	if !ok {
		log.Printf("warning: delete_file: ancestor of %q does not exist", p.String())
		return
	}
	if _, exists := parent.files[name]; !exists {
		log.Printf("warning: delete_file: %q does not exist", p.String())
		return
	}
	delete(parent.files, name)
}

// RenameFile moves the file entry at old to new. It logs a warning and
// no-ops when old does not exist. When new's parent is absent it is created; when a
// node already exists at new, it is overwritten.
func (r *Root) RenameFile(oldPath, newPath Path) error {
	oldParent, oldName, ok := r.resolveForRead(oldPath)
	if !ok {
		log.Printf("warning: rename_file: ancestor of %q does not exist", oldPath.String())
		return nil
	}
	idx, exists := oldParent.files[oldName]
	if !exists {
		log.Printf("warning: rename_file: %q does not exist", oldPath.String())
		return nil
	}

	newParent, newName, err := r.resolveForWrite(newPath)
	if err != nil {
		return err
	}
	delete(newParent.dirs, newName)
	newParent.files[newName] = idx
	delete(oldParent.files, oldName)
	return nil
}

// FindFile returns the FileStore index at path, or ok=false if absent. It
// never mutates the tree.
func (r *Root) FindFile(p Path) (idx FileIndex, ok bool) {
	parent, name, found := r.resolveForRead(p)
	if !found {
		return 0, false
	}
	idx, ok = parent.files[name]
	return idx, ok
}

// WriteFile overwrites the content addressed at path with a freshly
// allocated FileStore index (spec §9: "modified" deltas allocate rather
// than mutate in place, so the file table grows monotonically even under
// pure edits). It behaves exactly like CreateFile with a new index.
func (r *Root) WriteFile(p Path, store *FileStore, content string) error {
	idx := store.Add(content)
	return r.CreateFile(p, idx)
}

// Clone performs a deep structural copy of the whole tree.
func (r *Root) Clone() *Root {
	return &Root{Directory: r.Directory.Clone()}
}

// Equal reports whether two Roots are content-equal, resolving each
// side's files through its own store. See Directory.Equal.
func (r *Root) Equal(other *Root, store, otherStore *FileStore) bool {
	return r.Directory.Equal(other.Directory, store, otherStore)
}
