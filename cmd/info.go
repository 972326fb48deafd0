package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/internal/buildinfo"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about the Sigil installation",
	RunE: func(_ *cobra.Command, _ []string) error {
		info := buildinfo.GetBuildInfo()
		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		fmt.Println(bold("\n── Sigil Build Information ──"))
		fmt.Printf("  %s:    %s\n", faint("Version"), info.Version)
		fmt.Printf("  %s:     %s\n", faint("Commit"), info.CommitHash)
		fmt.Printf("  %s:      %s\n", faint("About"), info.About)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
