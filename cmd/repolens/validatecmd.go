package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"repolens/internal/citations"
)

var (
	validateFormat string
	validateAnswer string
)

var validateCmd = &cobra.Command{
	Use:   "validate <question>",
	Short: "Check an answer's citations against the question's context",
	Long: `Rebuild the context document a question would produce and check a
model answer's [file:path:line] citations against it. The answer text is
read from --answer or from stdin.

The check is advisory: invalid citations are reported, nothing is
rewritten.

Examples:
  repolens validate "how does login work" --answer answer.txt
  some-model-output | repolens validate "how does login work"`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateAnswer, "answer", "", "File holding the answer text (default: stdin)")
	validateCmd.Flags().StringVar(&validateFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	logger := newLogger(validateFormat)
	question := args[0]

	var text []byte
	var err error
	if validateAnswer != "" {
		text, err = os.ReadFile(validateAnswer)
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading answer text: %v\n", err)
		os.Exit(1)
	}

	eng := mustGetEngine(mustGetRepoRoot(), logger)

	ctx := context.Background()
	sel, _, err := eng.Select(ctx, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error selecting files: %v\n", err)
		os.Exit(1)
	}
	built := eng.BuildContext(ctx, sel.Files)

	resp := &ValidateResponseCLI{Result: citations.Validate(string(text), built.Index)}
	output, err := FormatResponse(resp, OutputFormat(validateFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
