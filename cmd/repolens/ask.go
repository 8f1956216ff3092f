package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"repolens/internal/logging"
)

var (
	askSession string
	askFormat  string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the repository",
	Long: `Ask a natural-language question about the repository.

The question is classified, relevant files are selected and assembled
into a token-budgeted context document, and the completion model answers
with [file:path:line] citations that are checked against the context.

Requires OPENAI_API_KEY (environment or .env).

Examples:
  repolens ask "how does login work"
  repolens ask --session 4f7c... "and where is the session stored?"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "Continue an existing session")
	askCmd.Flags().StringVar(&askFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(askFormat)
	question := strings.Join(args, " ")

	eng := mustGetEngine(mustGetRepoRoot(), logger)

	answer, err := eng.Ask(context.Background(), askSession, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error answering question: %v\n", err)
		os.Exit(1)
	}

	output, err := FormatResponse(&answer, OutputFormat(askFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	logger.Debug("Ask completed", logging.Fields{
		"question": question,
		"duration": time.Since(start).Milliseconds(),
	})
}
