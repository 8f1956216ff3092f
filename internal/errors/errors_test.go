package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestLensErrorFormat(t *testing.T) {
	tests := []struct {
		name  string
		err   *LensError
		wants []string
	}{
		{
			name:  "without cause",
			err:   New(TreeEmpty, "snapshot produced no files", nil),
			wants: []string{"[TREE_EMPTY]", "snapshot produced no files"},
		},
		{
			name:  "with cause",
			err:   New(FileUnreadable, "reading src/auth.ts", errors.New("permission denied")),
			wants: []string{"[FILE_UNREADABLE]", "reading src/auth.ts", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, want := range tt.wants {
				if !strings.Contains(got, want) {
					t.Errorf("Error() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := New(SessionStore, "appending message", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"lens error", New(LLMUnavailable, "no api key", nil), LLMUnavailable},
		{"wrapped lens error", fmt.Errorf("ask: %w", New(QueryEmpty, "empty query", nil)), QueryEmpty},
		{"plain error", errors.New("boom"), InternalError},
		{"nil cause chain", New(InternalError, "x", errors.New("y")), InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CitationInvalid, "2 findings", nil).WithDetails([]string{"src/a.ts:999"})
	if err.Details == nil {
		t.Error("WithDetails should set Details")
	}
}
