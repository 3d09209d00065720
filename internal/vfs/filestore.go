package vfs

import (
	"log"
	"sync"
)

// FileIndex addresses one record in a FileStore. Indices are stable for
// the Store's lifetime; there is no deletion.
type FileIndex int

// fileRecord holds the text content of one tracked file.
type fileRecord struct {
	content string
}

// FileStore is a growable, indexable table of file contents shared across
// every Snapshot in a VFS. It is interior-mutable: writes through one
// handle are visible to every Snapshot holding the same handle. A single
// read-write lock stands in for the source's reference-counted
// interior-mutable handle, even though the build pipeline itself never
// crosses goroutines (see spec §5) — the viewer reads a loaded Guide
// concurrently with its own read-write lock at a higher level.
type FileStore struct {
	mu      sync.RWMutex
	records []fileRecord
}

// NewFileStore builds an empty, shared FileStore.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// NewFileStoreFromContents rebuilds a FileStore whose records are exactly
// contents, in order, with matching indices. Used when loading a
// serialised Guide, where the wire form already carries the file table
// in index order.
func NewFileStoreFromContents(contents []string) *FileStore {
	fs := &FileStore{records: make([]fileRecord, len(contents))}
	for i, c := range contents {
		fs.records[i] = fileRecord{content: c}
	}
	return fs
}

// Add appends content as a new record and returns its stable index.
func (fs *FileStore) Add(content string) FileIndex {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.records = append(fs.records, fileRecord{content: content})
	return FileIndex(len(fs.records) - 1)
}

// Write overwrites the record at index. Writing to a missing index is a
// soft warning, never a fatal error, so a noisy diff never aborts a build.
func (fs *FileStore) Write(index FileIndex, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if index < 0 || int(index) >= len(fs.records) {
		log.Printf("warning: write to missing file index %d", index)
		return
	}
	fs.records[index].content = content
}

// Read returns the content at index, or ok=false if the index is unset.
func (fs *FileStore) Read(index FileIndex) (content string, ok bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if index < 0 || int(index) >= len(fs.records) {
		return "", false
	}
	return fs.records[index].content, true
}

// Len returns the number of records currently held.
func (fs *FileStore) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.records)
}

// Contents returns a snapshot copy of every record's content, in index
// order, for serialisation.
func (fs *FileStore) Contents() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, len(fs.records))
	for i, r := range fs.records {
		out[i] = r.content
	}
	return out
}
