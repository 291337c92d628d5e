package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pageforge",
	Short: "A CLI tool to provision GitHub repositories with published Pages sites",
	Long: `Pageforge is a command-line tool that provisions GitHub repositories from a
YAML manifest: it creates each repository, pushes a minimal static landing
page, and enables GitHub Pages on the default branch.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(provisionCmd)
}
