package main

import (
	"repolens/internal/version"

	"github.com/spf13/cobra"
)

var (
	// repoFlag is the CLI --repo flag value; empty means the working directory
	repoFlag string
)

var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "repolens - repository question answering",
	Long: `repolens answers natural-language questions about a repository. It
classifies the question, selects the relevant files, assembles a
line-numbered context document under a token budget, and asks a
completion model, checking that the answer cites real context lines.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("repolens version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"Repository root (default: current directory)")
}
