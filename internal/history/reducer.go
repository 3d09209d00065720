package history

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/codasai/codasai/internal/codasaierr"
	"github.com/codasai/codasai/internal/config"
	"github.com/codasai/codasai/internal/guide"
	"github.com/codasai/codasai/internal/markdown"
	"github.com/codasai/codasai/internal/vfs"
)

// binaryContentSentinel replaces the text of any blob that is not valid
// UTF-8, matching the original tool's "don't try to diff binary files"
// behaviour for a guide's VFS representation.
const binaryContentSentinel = "binary data"

var codasaiPrefix = vfs.MustPath(config.Dir)

// Reducer folds a VCS revision history into a Guide by replaying each
// revision's changes as Directory/File operations against a shared VFS.
type Reducer struct {
	VCS VCS
}

// NewReducer builds a Reducer over vcs.
func NewReducer(vcs VCS) *Reducer {
	return &Reducer{VCS: vcs}
}

// Build runs the full history-to-VFS algorithm: materialise the first
// revision wholesale, then fold every subsequent revision's diff onto a
// cloned Snapshot, coalescing away revisions that produced no observable
// change.
func (r *Reducer) Build(ctx context.Context, name string, pagesPath string) (*guide.Guide, error) {
	pagesPrefix, err := pagesPathPrefix(pagesPath)
	if err != nil {
		return nil, err
	}

	revs, err := r.VCS.Revisions(ctx)
	if err != nil {
		return nil, codasaierr.Wrap(codasaierr.VcsError, "enumerate revisions", err)
	}
	if len(revs) == 0 {
		return nil, codasaierr.New(codasaierr.NoSavedPage, "history has no revisions")
	}

	v := vfs.New()

	if err := r.materialiseFirstRevision(ctx, v, revs[0], pagesPrefix); err != nil {
		return nil, err
	}

	for i := 1; i < len(revs); i++ {
		if err := r.foldRevision(ctx, v, revs[i-1], revs[i], pagesPrefix); err != nil {
			return nil, err
		}
		last := v.Snapshots[len(v.Snapshots)-1]
		if len(v.Snapshots) > 1 {
			prev := v.Snapshots[len(v.Snapshots)-2]
			if last.Equal(prev) {
				v.PopSnapshot()
			}
		}
	}

	return &guide.Guide{Name: name, VFS: v}, nil
}

func (r *Reducer) materialiseFirstRevision(ctx context.Context, v *vfs.VFS, rev Rev, pagesPrefix vfs.Path) error {
	snap := v.AddSnapshot()

	entries, err := r.VCS.Tree(ctx, rev)
	if err != nil {
		return codasaierr.Wrap(codasaierr.VcsError, "read first revision tree", err)
	}

	for _, entry := range entries {
		if isReserved(entry.Path, pagesPrefix) {
			continue
		}
		if entry.IsDir {
			if err := snap.Root.CreateDirectory(entry.Path); err != nil {
				return err
			}
			continue
		}

		content, err := r.readTextOrSentinel(ctx, rev, entry.Path)
		if err != nil {
			return err
		}
		if err := snap.Root.WriteFile(entry.Path, v.Store, content); err != nil {
			return err
		}
	}

	return r.renderPage(ctx, rev, snap)
}

func (r *Reducer) foldRevision(ctx context.Context, v *vfs.VFS, prev, curr Rev, pagesPrefix vfs.Path) error {
	snap := v.AddSnapshot()

	deltas, err := r.VCS.Diff(ctx, prev, curr)
	if err != nil {
		return codasaierr.Wrap(codasaierr.VcsError, "diff revisions", err)
	}

	for _, d := range deltas {
		if err := r.applyDelta(v, snap, d, pagesPrefix); err != nil {
			return err
		}
	}

	return r.renderPage(ctx, curr, snap)
}

func (r *Reducer) applyDelta(v *vfs.VFS, snap *vfs.Snapshot, d Delta, pagesPrefix vfs.Path) error {
	oldExcluded := d.OldPath.IsZero() || isReserved(d.OldPath, pagesPrefix)
	newExcluded := d.NewPath.IsZero() || isReserved(d.NewPath, pagesPrefix)
	if oldExcluded && newExcluded {
		return nil
	}

	switch d.Status {
	case Added:
		if d.NewIsDir {
			return snap.Root.CreateDirectory(d.NewPath)
		}
		return snap.Root.WriteFile(d.NewPath, v.Store, sentineledContent(d.NewContent))

	case Deleted:
		if d.OldIsDir {
			snap.Root.DeleteDirectory(d.OldPath)
		} else {
			snap.Root.DeleteFile(d.OldPath)
		}
		return nil

	case Renamed:
		if d.OldIsDir != d.NewIsDir {
			return codasaierr.New(codasaierr.InvariantViolation,
				"rename changed kind between file and directory: "+d.OldPath.String()+" -> "+d.NewPath.String())
		}
		if d.OldIsDir {
			return snap.Root.RenameDirectory(d.OldPath, d.NewPath)
		}
		return snap.Root.RenameFile(d.OldPath, d.NewPath)

	case Modified:
		if d.OldIsDir || d.NewIsDir {
			return codasaierr.New(codasaierr.InvariantViolation,
				"modified delta must be a file on both sides: "+d.NewPath.String())
		}
		return snap.Root.WriteFile(d.NewPath, v.Store, sentineledContent(d.NewContent))

	default:
		return nil
	}
}

// renderPage reads the revision's page config and referenced Markdown
// page, renders it via the markdown package, and stores the HTML on snap.
func (r *Reducer) renderPage(ctx context.Context, rev Rev, snap *vfs.Snapshot) error {
	revConfigPath := vfs.MustPath(config.Dir + "/rev.toml")
	data, err := r.VCS.ReadFile(ctx, rev, revConfigPath)
	if err != nil {
		return codasaierr.Wrap(codasaierr.ConfigRead, revConfigPath.String(), err)
	}
	revCfg, err := config.ParseRevConfig(data)
	if err != nil {
		return err
	}

	pagePath, err := vfs.NewPath(revCfg.PagePath)
	if err != nil {
		return err
	}
	pageSource, err := r.VCS.ReadFile(ctx, rev, pagePath)
	if err != nil {
		return codasaierr.Wrap(codasaierr.ConfigRead, pagePath.String(), err)
	}

	html, err := markdown.Render(pageSource)
	if err != nil {
		return codasaierr.Wrap(codasaierr.EncodingError, pagePath.String(), err)
	}
	snap.Page = html
	return nil
}

func (r *Reducer) readTextOrSentinel(ctx context.Context, rev Rev, path vfs.Path) (string, error) {
	data, err := r.VCS.ReadFile(ctx, rev, path)
	if err != nil {
		return "", codasaierr.Wrap(codasaierr.VcsError, path.String(), err)
	}
	return sentineledContent(data), nil
}

func sentineledContent(data []byte) string {
	if !utf8.Valid(data) {
		return binaryContentSentinel
	}
	return string(data)
}

func isReserved(p, pagesPrefix vfs.Path) bool {
	return p.HasPrefix(codasaiPrefix) || p.HasPrefix(pagesPrefix)
}

func pagesPathPrefix(pagesPath string) (vfs.Path, error) {
	trimmed := strings.TrimSuffix(pagesPath, "/")
	return vfs.NewPath(trimmed)
}
