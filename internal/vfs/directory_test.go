package vfs

import "testing"

func TestCreateDirectoryCreatesAncestors(t *testing.T) {
	root := NewRoot()
	if err := root.CreateDirectory(MustPath("a/b/c")); err != nil {
		t.Fatalf("CreateDirectory failed: %v", err)
	}

	a, ok := root.Dir("a")
	if !ok {
		t.Fatal("missing ancestor \"a\"")
	}
	b, ok := a.Dir("b")
	if !ok {
		t.Fatal("missing ancestor \"b\"")
	}
	if _, ok := b.Dir("c"); !ok {
		t.Fatal("missing leaf \"c\"")
	}
}

func TestCreateDirectoryIsIdempotent(t *testing.T) {
	root := NewRoot()
	if err := root.CreateDirectory(MustPath("a")); err != nil {
		t.Fatal(err)
	}
	if err := root.CreateDirectory(MustPath("a")); err != nil {
		t.Fatalf("second CreateDirectory should be a no-op, got error: %v", err)
	}
}

func TestDeleteAbsentIsSoftWarning(t *testing.T) {
	root := NewRoot()
	root.DeleteDirectory(MustPath("missing"))
	root.DeleteFile(MustPath("missing.txt"))
	// No panic, no error return value to check: absence is a warning only.
}

func TestRenameDirectoryMoveAndOverwrite(t *testing.T) {
	root := NewRoot()
	store := NewFileStore()
	idx := store.Add("hello")

	if err := root.CreateFile(MustPath("a/file.txt"), idx); err != nil {
		t.Fatal(err)
	}
	if err := root.CreateDirectory(MustPath("src")); err != nil {
		t.Fatal(err)
	}

	if err := root.RenameDirectory(MustPath("a"), MustPath("b")); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if _, ok := root.Dir("a"); ok {
		t.Error("old directory should no longer exist")
	}
	b, ok := root.Dir("b")
	if !ok {
		t.Fatal("renamed directory missing")
	}
	if _, ok := b.File("file.txt"); !ok {
		t.Error("renamed directory lost its file")
	}

	// Renaming onto an existing node overwrites it.
	if err := root.CreateDirectory(MustPath("b2")); err != nil {
		t.Fatal(err)
	}
	if err := root.RenameDirectory(MustPath("src"), MustPath("b2")); err != nil {
		t.Fatalf("overwrite rename failed: %v", err)
	}
	if _, ok := root.Dir("src"); ok {
		t.Error("source of overwrite rename should be gone")
	}
}

func TestRenameReversibilityIsIdentityOnShape(t *testing.T) {
	root := NewRoot()
	store := NewFileStore()
	idx := store.Add("content")
	if err := root.CreateFile(MustPath("dir/file.txt"), idx); err != nil {
		t.Fatal(err)
	}

	before := root.Clone()

	if err := root.RenameFile(MustPath("dir/file.txt"), MustPath("dir/renamed.txt")); err != nil {
		t.Fatal(err)
	}
	if err := root.RenameFile(MustPath("dir/renamed.txt"), MustPath("dir/file.txt")); err != nil {
		t.Fatal(err)
	}

	if !root.Equal(before, store, store) {
		t.Error("rename(a,b); rename(b,a) should be the identity on tree shape")
	}
}

func TestCreateFileOverwritesExistingEntry(t *testing.T) {
	root := NewRoot()
	store := NewFileStore()
	first := store.Add("v1")
	second := store.Add("v2")

	if err := root.CreateFile(MustPath("f.txt"), first); err != nil {
		t.Fatal(err)
	}
	if err := root.CreateFile(MustPath("f.txt"), second); err != nil {
		t.Fatal(err)
	}

	got, ok := root.FindFile(MustPath("f.txt"))
	if !ok || got != second {
		t.Errorf("expected overwritten index %v, got %v (ok=%v)", second, got, ok)
	}
}

func TestFindFileNeverMutates(t *testing.T) {
	root := NewRoot()
	before := root.Clone()

	if _, ok := root.FindFile(MustPath("a/b/c.txt")); ok {
		t.Error("expected absent file to report not-found")
	}
	if !root.Equal(before, nil, nil) {
		t.Error("FindFile must not mutate the tree")
	}
}

func TestDirectoryFileNameCollisionIsRejected(t *testing.T) {
	root := NewRoot()
	store := NewFileStore()
	idx := store.Add("x")

	if err := root.CreateFile(MustPath("node"), idx); err != nil {
		t.Fatal(err)
	}
	if err := root.CreateDirectory(MustPath("node")); err == nil {
		t.Error("creating a directory over an existing file name should fail")
	}

	if err := root.CreateDirectory(MustPath("other")); err != nil {
		t.Fatal(err)
	}
	if err := root.CreateFile(MustPath("other"), idx); err == nil {
		t.Error("creating a file over an existing directory name should fail")
	}
}

func TestCloneIsIsolatedFromOriginal(t *testing.T) {
	root := NewRoot()
	if err := root.CreateDirectory(MustPath("a")); err != nil {
		t.Fatal(err)
	}

	clone := root.Clone()
	if err := clone.CreateDirectory(MustPath("a/b")); err != nil {
		t.Fatal(err)
	}

	a, _ := root.Dir("a")
	if _, ok := a.Dir("b"); ok {
		t.Error("mutating the clone must not affect the original")
	}
}

func TestWriteFileAllocatesNewIndex(t *testing.T) {
	root := NewRoot()
	store := NewFileStore()

	if err := root.WriteFile(MustPath("f.txt"), store, "v1"); err != nil {
		t.Fatal(err)
	}
	first, _ := root.FindFile(MustPath("f.txt"))

	if err := root.WriteFile(MustPath("f.txt"), store, "v2"); err != nil {
		t.Fatal(err)
	}
	second, _ := root.FindFile(MustPath("f.txt"))

	if first == second {
		t.Error("WriteFile should allocate a fresh index rather than mutate in place")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 records in the file store, got %d", store.Len())
	}
}
