package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codasai/codasai/internal/config"
	"github.com/codasai/codasai/internal/vcsgit"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage the guide's narrative pages",
}

var pageNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Start a new narrative page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageNew,
}

var pageSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Commit the working tree as the current page's revision",
	RunE:  runPageSave,
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.AddCommand(pageNewCmd)
	pageCmd.AddCommand(pageSaveCmd)
	pageSaveCmd.Flags().StringP("message", "m", "", "commit message")
}

func runPageNew(cmd *cobra.Command, args []string) error {
	title := args[0]

	root, err := findGuideRoot(".")
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

	dirty, err := adapter.DirtyPathsUnder(cfg.PagesPath)
	if err != nil {
		return err
	}
	if len(dirty) > 0 {
		return fmt.Errorf("unsaved page at %s: run \"page save\" or discard it first", dirty[0])
	}

	relPagePath := filepath.Join(cfg.PagesPath, slugify(title)+".md")
	pagePath := filepath.Join(root, relPagePath)

	if err := os.MkdirAll(filepath.Dir(pagePath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(pagePath, []byte(fmt.Sprintf("# %s\n", title)), 0o644); err != nil {
		return err
	}

	if err := config.WriteRevConfig(root, config.RevConfig{PagePath: filepath.ToSlash(relPagePath)}); err != nil {
		return err
	}

	fmt.Printf("Created page %s\n", relPagePath)
	return nil
}

func runPageSave(cmd *cobra.Command, args []string) error {
	root, err := findGuideRoot(".")
	if err != nil {
		return err
	}

	adapter, err := vcsgit.Open(root)
	if err != nil {
		return err
	}

	message, _ := cmd.Flags().GetString("message")
	if message == "" {
		rev, err := config.LoadRevConfig(root)
		if err == nil && rev.PagePath != "" {
			message = "Save " + rev.PagePath
		} else {
			message = "Save page"
		}
	}

	if err := adapter.Commit(message); err != nil {
		return err
	}

	fmt.Println("Saved.")
	return nil
}

var slugCollapse = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lower-cases title, collapses every run of characters other than
// ASCII letters and digits (non-ASCII letters included) into a single "-",
// and trims leading/trailing "-".
func slugify(title string) string {
	lowered := strings.ToLower(title)
	collapsed := slugCollapse.ReplaceAllString(lowered, "-")
	return strings.Trim(collapsed, "-")
}
