package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codasai/codasai/internal/codasaierr"
	"github.com/codasai/codasai/internal/config"
	"github.com/codasai/codasai/internal/guide"
	"github.com/codasai/codasai/internal/history"
	"github.com/codasai/codasai/internal/vcsgit"
)

const outDir = "out"
const outFile = "guide.json"

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Replay the project's history into a guide artifact",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	root, err := findGuideRoot(dir)
	if err != nil {
		return err
	}

	cfg, err := config.LoadGuideConfig(root)
	if err != nil {
		return err
	}

	adapter, err := vcsgit.Open(root)
	if err != nil {
		return err
	}

	g, err := history.NewReducer(adapter).Build(cmd.Context(), cfg.Title, cfg.PagesPath)
	if err != nil {
		return err
	}

	data, err := guide.Serialise(g)
	if err != nil {
		return err
	}

	if err := writeArtifact(root, data); err != nil {
		return err
	}

	fmt.Printf("Built guide %q (%d pages) -> %s\n", g.Name, len(g.VFS.Snapshots), filepath.Join(config.Dir, outDir, outFile))
	return nil
}

// writeArtifact writes data to .codasai/out/guide.json, opening the
// .codasai directory with os.OpenRoot so the write can never escape it
// even if the artifact path is ever derived from untrusted input.
func writeArtifact(repoRoot string, data []byte) error {
	codasaiRoot, err := os.OpenRoot(filepath.Join(repoRoot, config.Dir))
	if err != nil {
		return codasaiOutputErr(err)
	}
	defer codasaiRoot.Close()

	if err := codasaiRoot.Mkdir(outDir, 0o755); err != nil && !os.IsExist(err) {
		return codasaiOutputErr(err)
	}

	f, err := codasaiRoot.OpenFile(filepath.Join(outDir, outFile), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return codasaiOutputErr(err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return codasaiOutputErr(err)
	}
	return nil
}

func codasaiOutputErr(err error) error {
	return codasaierr.Wrap(codasaierr.OutputError, filepath.Join(config.Dir, outDir, outFile), err)
}
