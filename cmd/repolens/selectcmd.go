package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var selectFormat string

var selectCmd = &cobra.Command{
	Use:   "select <question>",
	Short: "Show which files would be selected for a question",
	Long: `Run classification and file selection for a question without
calling the model. Useful for inspecting why a file was or was not
picked.

Examples:
  repolens select "how does login work"
  repolens select --format=json "explain src/auth.ts"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSelect,
}

func init() {
	selectCmd.Flags().StringVar(&selectFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) {
	logger := newLogger(selectFormat)
	question := strings.Join(args, " ")

	eng := mustGetEngine(mustGetRepoRoot(), logger)

	result, cls, err := eng.Select(context.Background(), question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error selecting files: %v\n", err)
		os.Exit(1)
	}

	resp := &SelectResponseCLI{Query: question, Intent: cls.Intent, Result: result}
	output, err := FormatResponse(resp, OutputFormat(selectFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
