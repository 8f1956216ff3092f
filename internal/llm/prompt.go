package llm

import (
	"fmt"
	"strings"
)

const systemTemplate = `You are a code assistant answering questions about the repository %s.
Answer only from the provided context. When you reference code, cite it
as [file:path:line] or [file:path:start-end] using the line numbers
shown in the context. If the context does not contain the answer, say so
instead of guessing.`

// SystemPrompt returns the system message for a repository. repoName may
// be empty when no manifest identified the project.
func SystemPrompt(repoName string) string {
	if repoName == "" {
		repoName = "under analysis"
	}
	return fmt.Sprintf(systemTemplate, repoName)
}

// UserPrompt combines the context document and the question into the
// final user message.
func UserPrompt(contextDoc, question string) string {
	var b strings.Builder
	b.WriteString("Context:\n\n")
	b.WriteString(contextDoc)
	if !strings.HasSuffix(contextDoc, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
