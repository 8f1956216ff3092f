package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"repolens/internal/classify"
)

var classifyFormat string

var classifyCmd = &cobra.Command{
	Use:   "classify <question>",
	Short: "Classify a question's intent and keywords",
	Long: `Show how a question would be classified: the matched intent and
the extracted keywords that drive file scoring.

Examples:
  repolens classify "how does login work"
  repolens classify "where is the config parser"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	question := strings.Join(args, " ")

	resp := &ClassifyResponseCLI{
		Query:          question,
		Classification: classify.Classify(question),
	}
	output, err := FormatResponse(resp, OutputFormat(classifyFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
