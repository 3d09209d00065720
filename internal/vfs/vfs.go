package vfs

// VFS is the snapshot-chained virtual filesystem: one shared FileStore
// plus an ordered sequence of Snapshots, each built from its predecessor
// by structural sharing of file contents and a deep copy of tree shape.
type VFS struct {
	Store     *FileStore
	Snapshots []*Snapshot
}

// New builds an empty VFS with a fresh, empty FileStore.
func New() *VFS {
	return &VFS{Store: NewFileStore()}
}

// NewLoaded builds a VFS directly from an already-built store and
// snapshot sequence, re-wiring every Snapshot onto store so the
// shared-handle invariant holds. Used when loading a serialised Guide,
// where each Snapshot is decoded independently and initially carries no
// FileStore handle at all.
func NewLoaded(store *FileStore, snapshots []*Snapshot) *VFS {
	for _, s := range snapshots {
		s.store = store
	}
	return &VFS{Store: store, Snapshots: snapshots}
}

// AddSnapshot appends a deep clone of the last Snapshot's tree (or an
// empty tree if there is none yet), reusing the same FileStore handle,
// and returns it so the caller can apply further mutations in place.
func (v *VFS) AddSnapshot() *Snapshot {
	var next *Snapshot
	if len(v.Snapshots) == 0 {
		next = NewSnapshot(v.Store)
	} else {
		next = v.Snapshots[len(v.Snapshots)-1].Clone()
	}
	v.Snapshots = append(v.Snapshots, next)
	return next
}

// PopSnapshot removes the last Snapshot, used by the history reducer's
// coalescing step when a revision produced no observable change.
func (v *VFS) PopSnapshot() {
	if len(v.Snapshots) == 0 {
		return
	}
	v.Snapshots = v.Snapshots[:len(v.Snapshots)-1]
}

// Last returns the most recently added Snapshot, or nil if there are none.
func (v *VFS) Last() *Snapshot {
	if len(v.Snapshots) == 0 {
		return nil
	}
	return v.Snapshots[len(v.Snapshots)-1]
}
