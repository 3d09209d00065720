package guide

import (
	"encoding/json"

	"github.com/codasai/codasai/internal/codasaierr"
	"github.com/codasai/codasai/internal/vfs"
)

// wireGuide, wireVFS, wireSnapshot and wireDirectory mirror the exact
// wire form spec'd for a built guide: a name, a flat file table indexed
// by position, and a sequence of snapshots each holding a nested
// directory tree plus rendered page HTML. Directory maps marshal with
// Go's built-in sorted-by-key map encoding, which already produces the
// required lexicographic key order.
type wireGuide struct {
	Name string  `json:"name"`
	VFS  wireVFS `json:"vfs"`
}

type wireVFS struct {
	Files     []wireFile     `json:"files"`
	Snapshots []wireSnapshot `json:"snapshots"`
}

type wireFile struct {
	Content string `json:"content"`
}

type wireSnapshot struct {
	Root *wireDirectory `json:"root"`
	Page string         `json:"page"`
}

type wireDirectory struct {
	Directories map[string]*wireDirectory `json:"directories"`
	Files       map[string]int            `json:"files"`
}

func toWireDirectory(d *vfs.Directory) *wireDirectory {
	w := &wireDirectory{
		Directories: make(map[string]*wireDirectory),
		Files:       make(map[string]int),
	}
	for _, name := range d.SortedDirNames() {
		sub, _ := d.Dir(name)
		w.Directories[name] = toWireDirectory(sub)
	}
	for _, name := range d.SortedFileNames() {
		idx, _ := d.File(name)
		w.Files[name] = int(idx)
	}
	return w
}

func fromWireDirectory(w *wireDirectory) *vfs.Directory {
	d := vfs.NewDirectory()
	for name, sub := range w.Directories {
		d.InsertDir(name, fromWireDirectory(sub))
	}
	for name, idx := range w.Files {
		d.InsertFile(name, vfs.FileIndex(idx))
	}
	return d
}

func toWire(g *Guide) wireGuide {
	w := wireGuide{Name: g.Name}

	contents := g.VFS.Store.Contents()
	w.VFS.Files = make([]wireFile, len(contents))
	for i, c := range contents {
		w.VFS.Files[i] = wireFile{Content: c}
	}

	w.VFS.Snapshots = make([]wireSnapshot, len(g.VFS.Snapshots))
	for i, s := range g.VFS.Snapshots {
		w.VFS.Snapshots[i] = wireSnapshot{
			Root: toWireDirectory(s.Root.Directory),
			Page: s.Page,
		}
	}
	return w
}

func fromWire(w wireGuide) *Guide {
	contents := make([]string, len(w.VFS.Files))
	for i, f := range w.VFS.Files {
		contents[i] = f.Content
	}
	store := vfs.NewFileStoreFromContents(contents)

	snapshots := make([]*vfs.Snapshot, len(w.VFS.Snapshots))
	for i, ws := range w.VFS.Snapshots {
		root := &vfs.Root{Directory: fromWireDirectory(ws.Root)}
		snapshots[i] = &vfs.Snapshot{Root: root, Page: ws.Page}
	}

	return &Guide{Name: w.Name, VFS: vfs.NewLoaded(store, snapshots)}
}

// Load decodes a Guide from its JSON wire form, re-wiring the shared
// FileStore handle into every decoded Snapshot.
func Load(data []byte) (*Guide, error) {
	var w wireGuide
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, codasaierr.Wrap(codasaierr.EncodingError, "decode guide", err)
	}
	return fromWire(w), nil
}
