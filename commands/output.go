package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/italia/vocabtools/datapackage"
)

// ErrNotImplemented is returned by commands and options that are declared
// but not available yet
var ErrNotImplemented = datapackage.ErrNotImplemented

// OutputExistsError reports an output file that would be overwritten
type OutputExistsError struct {
	Path string
}

func (e *OutputExistsError) Error() string {
	return fmt.Sprintf("%s already exists (use --force to overwrite)", e.Path)
}

const (
	colorSuccess = lipgloss.Color("2")
	colorFailure = lipgloss.Color("1")
	colorWarning = lipgloss.Color("3")
)

func successLine(w io.Writer, msg string) string {
	return lipgloss.NewRenderer(w).NewStyle().Foreground(colorSuccess).Render("✓ " + msg)
}

func failureLine(w io.Writer, what string, err error) string {
	return lipgloss.NewRenderer(w).NewStyle().Foreground(colorFailure).Render(fmt.Sprintf("✗ %s failed: %v", what, err))
}

func warn(cmd *cobra.Command, msg string) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, lipgloss.NewRenderer(w).NewStyle().Foreground(colorWarning).Render("⚠ "+msg))
}

// requireFiles checks that the files named by the flags exist
func requireFiles(cmd *cobra.Command, flags ...string) error {
	for _, flag := range flags {
		path, err := cmd.Flags().GetString(flag)
		if err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("--%s: %w", flag, err)
		}
		if info.IsDir() {
			return fmt.Errorf("--%s: %s is a directory", flag, path)
		}
	}
	return nil
}
