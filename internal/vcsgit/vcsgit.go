// Package vcsgit implements the history.VCS oracle against a real,
// linear-history git repository using github.com/go-git/go-git/v5.
package vcsgit

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/codasai/codasai/internal/codasaierr"
	"github.com/codasai/codasai/internal/history"
	"github.com/codasai/codasai/internal/vfs"
)

// Adapter satisfies history.VCS by reading commits, trees and blobs out
// of a git.Repository opened from the working directory.
type Adapter struct {
	repo *git.Repository
}

// Open opens the git repository rooted at dir.
func Open(dir string) (*Adapter, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, dir, err)
	}
	return &Adapter{repo: repo}, nil
}

// Init opens the git repository rooted at dir, initialising a fresh one
// there first if none exists yet. "init" calls this so that running it
// inside an already-versioned project just adopts the existing history.
func Init(dir string) (*Adapter, error) {
	if a, err := Open(dir); err == nil {
		return a, nil
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, dir, err)
	}
	return &Adapter{repo: repo}, nil
}

// Revisions returns every commit reachable from HEAD, oldest first.
func (a *Adapter) Revisions(ctx context.Context) ([]history.Rev, error) {
	head, err := a.repo.Head()
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, "resolve HEAD", err)
	}

	iter, err := a.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, "walk commit log", err)
	}
	defer iter.Close()

	var revs []history.Rev
	err = iter.ForEach(func(c *object.Commit) error {
		revs = append(revs, history.Rev(c.Hash.String()))
		return nil
	})
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, "walk commit log", err)
	}

	// Log yields newest first; the reducer wants oldest first.
	for i, j := 0, len(revs)-1; i < j; i, j = i+1, j-1 {
		revs[i], revs[j] = revs[j], revs[i]
	}
	return revs, nil
}

// Tree returns every path in rev's commit tree, directories included,
// gathered by a recursive walk of go-git's tree objects.
func (a *Adapter) Tree(ctx context.Context, rev history.Rev) ([]history.TreeEntry, error) {
	tree, err := a.treeAt(rev)
	if err != nil {
		return nil, err
	}

	var entries []history.TreeEntry
	if err := walkTree("", tree, &entries); err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, string(rev), err)
	}
	return entries, nil
}

// ReadFile returns path's blob content at rev.
func (a *Adapter) ReadFile(ctx context.Context, rev history.Rev, p vfs.Path) ([]byte, error) {
	tree, err := a.treeAt(rev)
	if err != nil {
		return nil, err
	}
	f, err := tree.File(p.String())
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, p.String(), err)
	}
	content, err := f.Contents()
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, p.String(), err)
	}
	return []byte(content), nil
}

// Diff returns the minimal set of changes between old and new's trees.
// go-git's tree diff (backed by merkletrie) never tracks directories —
// git trees never record empty directories, so directory creation is
// left implicit in the Added/Modified file deltas, the same way it is
// implicit when the first revision's tree is walked. It also never
// labels renames; this adapter recovers exact (content-identical)
// renames by pairing each deleted path with an added path sharing the
// same blob hash, which catches a straight "git mv" but not a rename
// that also edited the file's content — those surface as a Deleted plus
// an unrelated Added instead, which the reducer still applies correctly,
// just without the rename's special-cased path continuity.
func (a *Adapter) Diff(ctx context.Context, old, new history.Rev) ([]history.Delta, error) {
	oldTree, err := a.treeAt(old)
	if err != nil {
		return nil, err
	}
	newTree, err := a.treeAt(new)
	if err != nil {
		return nil, err
	}

	changes, err := oldTree.Diff(newTree)
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, "diff trees", err)
	}

	var deletes, inserts, modifies []*object.Change
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			return nil, codasaierr.Wrap(codasaierr.VcsError, "diff trees", err)
		}
		switch action {
		case merkletrie.Insert:
			inserts = append(inserts, c)
		case merkletrie.Delete:
			deletes = append(deletes, c)
		case merkletrie.Modify:
			modifies = append(modifies, c)
		}
	}

	claimed := make(map[int]bool)
	var deltas []history.Delta

	for _, d := range deletes {
		matchIdx := -1
		for i, ins := range inserts {
			if claimed[i] {
				continue
			}
			if d.From.TreeEntry.Hash == ins.To.TreeEntry.Hash {
				matchIdx = i
				break
			}
		}
		if matchIdx == -1 {
			oldPath, err := vfs.NewPath(d.From.Name)
			if err != nil {
				return nil, err
			}
			deltas = append(deltas, history.Delta{Status: history.Deleted, OldPath: oldPath})
			continue
		}
		claimed[matchIdx] = true
		ins := inserts[matchIdx]

		oldPath, err := vfs.NewPath(d.From.Name)
		if err != nil {
			return nil, err
		}
		newPath, err := vfs.NewPath(ins.To.Name)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, history.Delta{Status: history.Renamed, OldPath: oldPath, NewPath: newPath})
	}

	for i, ins := range inserts {
		if claimed[i] {
			continue
		}
		newPath, err := vfs.NewPath(ins.To.Name)
		if err != nil {
			return nil, err
		}
		_, toFile, err := ins.Files()
		if err != nil {
			return nil, codasaierr.Wrap(codasaierr.VcsError, newPath.String(), err)
		}
		content, err := toFile.Contents()
		if err != nil {
			return nil, codasaierr.Wrap(codasaierr.VcsError, newPath.String(), err)
		}
		deltas = append(deltas, history.Delta{Status: history.Added, NewPath: newPath, NewContent: []byte(content)})
	}

	for _, m := range modifies {
		newPath, err := vfs.NewPath(m.To.Name)
		if err != nil {
			return nil, err
		}
		_, toFile, err := m.Files()
		if err != nil {
			return nil, codasaierr.Wrap(codasaierr.VcsError, newPath.String(), err)
		}
		content, err := toFile.Contents()
		if err != nil {
			return nil, codasaierr.Wrap(codasaierr.VcsError, newPath.String(), err)
		}
		deltas = append(deltas, history.Delta{Status: history.Modified, OldPath: newPath, NewPath: newPath, NewContent: []byte(content)})
	}

	return deltas, nil
}

// DirtyPathsUnder returns every worktree-status path beneath prefix that
// carries an uncommitted change, sorted. "page new" consults this to
// refuse starting a new page while the previous one's file under
// pages_path is still unsaved.
func (a *Adapter) DirtyPathsUnder(prefix string) ([]string, error) {
	wt, err := a.repo.Worktree()
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, "open worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, "read worktree status", err)
	}

	var dirty []string
	for p, s := range status {
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		if strings.HasPrefix(p, prefix) {
			dirty = append(dirty, p)
		}
	}
	sort.Strings(dirty)
	return dirty, nil
}

// Commit stages every change in the working tree and commits it with
// message, used by "page save". The author/committer identity is read
// from the repository's own git config, falling back to a fixed
// identity for repositories that have never set user.name/user.email
// (freshly "init"-ed ones, typically).
func (a *Adapter) Commit(message string) error {
	wt, err := a.repo.Worktree()
	if err != nil {
		return codasaierr.Wrap(codasaierr.VcsError, "open worktree", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return codasaierr.Wrap(codasaierr.VcsError, "stage changes", err)
	}

	sig := a.commitSignature()
	_, err = wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return codasaierr.Wrap(codasaierr.VcsError, "commit", err)
	}
	return nil
}

func (a *Adapter) commitSignature() *object.Signature {
	now := time.Now()
	cfg, err := a.repo.Config()
	if err == nil && cfg.User.Name != "" {
		return &object.Signature{Name: cfg.User.Name, Email: cfg.User.Email, When: now}
	}
	return &object.Signature{Name: "codasai", Email: "codasai@localhost", When: now}
}

func (a *Adapter) treeAt(rev history.Rev) (*object.Tree, error) {
	hash := plumbing.NewHash(string(rev))
	commit, err := a.repo.CommitObject(hash)
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, string(rev), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, string(rev), err)
	}
	return tree, nil
}

func walkTree(prefix string, tree *object.Tree, out *[]history.TreeEntry) error {
	for _, entry := range tree.Entries {
		name := entry.Name
		if prefix != "" {
			name = path.Join(prefix, entry.Name)
		}

		if entry.Mode == filemode.Dir {
			p, err := vfs.NewPath(name)
			if err != nil {
				return err
			}
			*out = append(*out, history.TreeEntry{Path: p, IsDir: true})

			sub, err := tree.Tree(entry.Name)
			if err != nil {
				return err
			}
			if err := walkTree(name, sub, out); err != nil {
				return err
			}
			continue
		}

		p, err := vfs.NewPath(name)
		if err != nil {
			return err
		}
		*out = append(*out, history.TreeEntry{Path: p, IsDir: false})
	}
	return nil
}
