package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var contextFormat string

var contextCmd = &cobra.Command{
	Use:   "context <question>",
	Short: "Assemble the context document for a question",
	Long: `Select files for a question and print the assembled, normalized
context document: one header per file followed by its numbered lines,
truncated to the configured token budget.

Examples:
  repolens context "how does login work"
  repolens context --format=json "explain the build" > context.json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runContext,
}

func init() {
	contextCmd.Flags().StringVar(&contextFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) {
	logger := newLogger(contextFormat)
	question := strings.Join(args, " ")

	eng := mustGetEngine(mustGetRepoRoot(), logger)

	ctx := context.Background()
	sel, _, err := eng.Select(ctx, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error selecting files: %v\n", err)
		os.Exit(1)
	}
	built := eng.BuildContext(ctx, sel.Files)

	resp := &ContextResponseCLI{
		Query:     question,
		Files:     built.Included,
		Omitted:   built.Omitted,
		Tokens:    built.Tokens,
		Truncated: built.Truncated,
		Document:  built.Document,
	}
	output, err := FormatResponse(resp, OutputFormat(contextFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
