package history

import (
	"context"
	"testing"

	"github.com/codasai/codasai/internal/vfs"
)

// fakeVCS is a hand-built, in-memory VCS implementation for reducer
// tests: revisions are just indices into a list of pre-computed trees
// and file contents, and diffs are provided directly rather than
// computed, so tests can exercise the reducer's dispatch logic in
// isolation from any real diff engine.
type fakeVCS struct {
	revs    []Rev
	trees   map[Rev][]TreeEntry
	files   map[Rev]map[string][]byte
	diffs   map[[2]Rev][]Delta
}

func (f *fakeVCS) Revisions(ctx context.Context) ([]Rev, error) { return f.revs, nil }

func (f *fakeVCS) Tree(ctx context.Context, rev Rev) ([]TreeEntry, error) {
	return f.trees[rev], nil
}

func (f *fakeVCS) ReadFile(ctx context.Context, rev Rev, path vfs.Path) ([]byte, error) {
	return f.files[rev][path.String()], nil
}

func (f *fakeVCS) Diff(ctx context.Context, old, new Rev) ([]Delta, error) {
	return f.diffs[[2]Rev{old, new}], nil
}

func revConfigBytes(pagePath string) []byte {
	return []byte(`page_path = "` + pagePath + `"`)
}

func TestBuildMaterialisesFirstRevisionExcludingReservedPrefixes(t *testing.T) {
	rev := Rev("r1")
	vcs := &fakeVCS{
		revs: []Rev{rev},
		trees: map[Rev][]TreeEntry{
			rev: {
				{Path: vfs.MustPath("src"), IsDir: true},
				{Path: vfs.MustPath("src/main.go"), IsDir: false},
				{Path: vfs.MustPath(".codasai"), IsDir: true},
				{Path: vfs.MustPath(".codasai/rev.toml"), IsDir: false},
				{Path: vfs.MustPath("_pages/intro.md"), IsDir: false},
			},
		},
		files: map[Rev]map[string][]byte{
			rev: {
				"src/main.go":      []byte("package main"),
				".codasai/rev.toml": revConfigBytes("_pages/intro.md"),
				"_pages/intro.md":   []byte("# Intro"),
			},
		},
	}

	g, err := NewReducer(vcs).Build(context.Background(), "Test Guide", "_pages/")
	if err != nil {
		t.Fatal(err)
	}
	if len(g.VFS.Snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(g.VFS.Snapshots))
	}

	snap := g.VFS.Snapshots[0]
	if _, ok := snap.Root.FindFile(vfs.MustPath("src/main.go")); !ok {
		t.Error("expected src/main.go to be mirrored")
	}
	if _, ok := snap.Root.Dir(".codasai"); ok {
		t.Error(".codasai/ must be excluded from the snapshot")
	}
	if _, ok := snap.Root.Dir("_pages"); ok {
		t.Error("pages_path must be excluded from the snapshot")
	}
	if snap.Page == "" {
		t.Error("expected the first revision's page to be rendered")
	}
}

func TestBuildFailsWithNoSavedPageWhenHistoryIsEmpty(t *testing.T) {
	vcs := &fakeVCS{revs: []Rev{}}
	if _, err := NewReducer(vcs).Build(context.Background(), "Empty", "_pages/"); err == nil {
		t.Error("expected an error for an empty revision history")
	}
}

func TestBuildAppliesAddedDeletedAndModifiedDeltas(t *testing.T) {
	r1, r2 := Rev("r1"), Rev("r2")
	vcs := &fakeVCS{
		revs: []Rev{r1, r2},
		trees: map[Rev][]TreeEntry{
			r1: {
				{Path: vfs.MustPath("keep.txt"), IsDir: false},
				{Path: vfs.MustPath("gone.txt"), IsDir: false},
			},
		},
		files: map[Rev]map[string][]byte{
			r1: {
				"keep.txt":          []byte("v1"),
				"gone.txt":          []byte("bye"),
				".codasai/rev.toml": revConfigBytes("_pages/intro.md"),
				"_pages/intro.md":   []byte("# One"),
			},
			r2: {
				".codasai/rev.toml": revConfigBytes("_pages/intro.md"),
				"_pages/intro.md":   []byte("# Two"),
			},
		},
		diffs: map[[2]Rev][]Delta{
			{r1, r2}: {
				{Status: Deleted, OldPath: vfs.MustPath("gone.txt"), OldIsDir: false},
				{Status: Modified, OldPath: vfs.MustPath("keep.txt"), NewPath: vfs.MustPath("keep.txt"), NewContent: []byte("v2")},
				{Status: Added, NewPath: vfs.MustPath("new.txt"), NewContent: []byte("fresh")},
			},
		},
	}

	g, err := NewReducer(vcs).Build(context.Background(), "Test Guide", "_pages/")
	if err != nil {
		t.Fatal(err)
	}
	if len(g.VFS.Snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(g.VFS.Snapshots))
	}

	snap := g.VFS.Snapshots[1]
	if _, ok := snap.Root.FindFile(vfs.MustPath("gone.txt")); ok {
		t.Error("gone.txt should have been deleted")
	}
	idx, ok := snap.Root.FindFile(vfs.MustPath("keep.txt"))
	if !ok {
		t.Fatal("keep.txt should still exist")
	}
	content, _ := snap.Store().Read(idx)
	if content != "v2" {
		t.Errorf("expected keep.txt to be modified to v2, got %q", content)
	}
	if _, ok := snap.Root.FindFile(vfs.MustPath("new.txt")); !ok {
		t.Error("new.txt should have been added")
	}
}

func TestBuildCoalescesIdenticalConsecutiveSnapshots(t *testing.T) {
	r1, r2 := Rev("r1"), Rev("r2")
	vcs := &fakeVCS{
		revs: []Rev{r1, r2},
		trees: map[Rev][]TreeEntry{
			r1: {{Path: vfs.MustPath("a.txt"), IsDir: false}},
		},
		files: map[Rev]map[string][]byte{
			r1: {
				"a.txt":              []byte("same"),
				".codasai/rev.toml":  revConfigBytes("_pages/intro.md"),
				"_pages/intro.md":    []byte("# Intro"),
			},
			r2: {
				".codasai/rev.toml": revConfigBytes("_pages/intro.md"),
				"_pages/intro.md":   []byte("# Intro"),
			},
		},
		diffs: map[[2]Rev][]Delta{
			{r1, r2}: nil,
		},
	}

	g, err := NewReducer(vcs).Build(context.Background(), "Test Guide", "_pages/")
	if err != nil {
		t.Fatal(err)
	}
	if len(g.VFS.Snapshots) != 1 {
		t.Errorf("expected the no-op revision to coalesce away, got %d snapshots", len(g.VFS.Snapshots))
	}
}

func TestBuildRejectsCrossKindRename(t *testing.T) {
	r1, r2 := Rev("r1"), Rev("r2")
	vcs := &fakeVCS{
		revs: []Rev{r1, r2},
		trees: map[Rev][]TreeEntry{
			r1: {{Path: vfs.MustPath("thing"), IsDir: false}},
		},
		files: map[Rev]map[string][]byte{
			r1: {
				"thing":             []byte("x"),
				".codasai/rev.toml": revConfigBytes("_pages/intro.md"),
				"_pages/intro.md":   []byte("# Intro"),
			},
			r2: {
				".codasai/rev.toml": revConfigBytes("_pages/intro.md"),
				"_pages/intro.md":   []byte("# Intro"),
			},
		},
		diffs: map[[2]Rev][]Delta{
			{r1, r2}: {
				{Status: Renamed, OldPath: vfs.MustPath("thing"), OldIsDir: false, NewPath: vfs.MustPath("thing_dir"), NewIsDir: true},
			},
		},
	}

	if _, err := NewReducer(vcs).Build(context.Background(), "Test Guide", "_pages/"); err == nil {
		t.Error("expected a cross-kind rename to raise an error")
	}
}

func TestBuildReplacesBinaryContentWithSentinel(t *testing.T) {
	rev := Rev("r1")
	vcs := &fakeVCS{
		revs: []Rev{rev},
		trees: map[Rev][]TreeEntry{
			rev: {{Path: vfs.MustPath("blob.bin"), IsDir: false}},
		},
		files: map[Rev]map[string][]byte{
			rev: {
				"blob.bin":           {0xff, 0xfe, 0x00, 0xff},
				".codasai/rev.toml":  revConfigBytes("_pages/intro.md"),
				"_pages/intro.md":    []byte("# Intro"),
			},
		},
	}

	g, err := NewReducer(vcs).Build(context.Background(), "Test Guide", "_pages/")
	if err != nil {
		t.Fatal(err)
	}
	snap := g.VFS.Snapshots[0]
	idx, ok := snap.Root.FindFile(vfs.MustPath("blob.bin"))
	if !ok {
		t.Fatal("expected blob.bin to be mirrored")
	}
	content, _ := snap.Store().Read(idx)
	if content != "binary data" {
		t.Errorf("expected binary sentinel, got %q", content)
	}
}
