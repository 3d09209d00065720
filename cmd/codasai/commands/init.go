package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codasai/codasai/internal/config"
	"github.com/codasai/codasai/internal/vcsgit"
)

var initCmd = &cobra.Command{
	Use:   "init <title>",
	Short: "Initialise a new guide in the current directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	title := args[0]

	root, err := os.Getwd()
	if err != nil {
		return err
	}

	if info, err := os.Stat(filepath.Join(root, config.Dir)); err == nil && info.IsDir() {
		return fmt.Errorf("%s directory already exists", config.Dir)
	}

	cfg := config.DefaultGuideConfig(title)
	if err := config.WriteGuideConfig(root, cfg); err != nil {
		return err
	}
	if err := config.WriteRevConfig(root, config.RevConfig{}); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(root, cfg.PagesPath), 0o755); err != nil {
		return err
	}

	if _, err := vcsgit.Init(root); err != nil {
		return err
	}

	fmt.Printf("Initialised guide %q in %s\n", title, root)
	return nil
}
