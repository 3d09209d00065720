package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codasai/codasai/internal/config"
	"github.com/codasai/codasai/internal/guide"
	"github.com/codasai/codasai/internal/viewer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a built guide over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	root, err := findGuideRoot(".")
	if err != nil {
		return err
	}

	artifactPath := filepath.Join(root, config.Dir, outDir, outFile)
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return codasaiOutputErr(err)
	}

	g, err := guide.Load(data)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	return viewer.NewServer(g).Serve(addr)
}
