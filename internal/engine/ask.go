package engine

import (
	"context"
	"strings"

	"repolens/internal/citations"
	"repolens/internal/classify"
	"repolens/internal/contextdoc"
	"repolens/internal/errors"
	"repolens/internal/llm"
	"repolens/internal/logging"
	"repolens/internal/selection"
)

// Answer is the result of one full question round trip.
type Answer struct {
	SessionID string           `json:"sessionId,omitempty"`
	Intent    classify.Intent  `json:"intent"`
	Selection selection.Result `json:"selection"`
	Tokens    int              `json:"contextTokens"`
	Truncated bool             `json:"truncated"`
	Model     string           `json:"model"`
	Content   string           `json:"answer"`
	Citations citations.Result `json:"citations"`
}

// Ask answers a question over the repository. When a session store is
// configured, the exchange is recorded under sessionID (a new session is
// created when sessionID is empty).
func (e *Engine) Ask(ctx context.Context, sessionID, query string) (Answer, error) {
	if strings.TrimSpace(query) == "" {
		return Answer{}, errors.New(errors.QueryEmpty, "question is empty", nil)
	}
	if e.client == nil {
		return Answer{}, errors.New(errors.LLMUnavailable, "no completion backend configured", nil)
	}

	sel, cls, err := e.Select(ctx, query)
	if err != nil {
		return Answer{}, err
	}

	built := e.BuildContext(ctx, sel.Files)
	doc, idx := built.Document, built.Index

	history, sessionID, err := e.loadHistory(ctx, sessionID)
	if err != nil {
		return Answer{}, err
	}

	system := llm.SystemPrompt(e.snap.Metadata().Name)

	// Second truncation stage: the assembled prompt as a whole must fit
	// the model window. When it does not, the document is cut line by
	// line and the index rebuilt to match.
	overhead := e.counter.Count(system) + e.counter.Count(query)
	for _, turn := range history {
		overhead += e.counter.Count(turn.Content)
	}
	if limit := e.cfg.Context.ContextWindow - overhead; e.counter.Count(doc) > limit {
		doc = contextdoc.PackPrompt(doc, e.counter.Count, limit)
		idx = contextdoc.BuildIndex(doc)
	}

	resp, err := e.client.Complete(ctx, llm.Request{
		System:  system,
		History: history,
		Prompt:  llm.UserPrompt(doc, query),
	})
	if err != nil {
		return Answer{}, err
	}

	checked := citations.Validate(resp.Content, idx)
	if !checked.Valid {
		// Advisory only; the answer is returned as the model wrote it.
		e.log.Warn("answer cites outside the supplied context", logging.Fields{
			"findings": len(checked.Findings),
		})
	}

	if err := e.record(ctx, sessionID, query, resp.Content); err != nil {
		return Answer{}, err
	}

	return Answer{
		SessionID: sessionID,
		Intent:    cls.Intent,
		Selection: sel,
		Tokens:    built.Tokens,
		Truncated: built.Truncated,
		Model:     resp.Model,
		Content:   resp.Content,
		Citations: checked,
	}, nil
}

// loadHistory resolves the session and returns its recent turns. With no
// store configured the conversation is stateless.
func (e *Engine) loadHistory(ctx context.Context, sessionID string) ([]llm.Turn, string, error) {
	if e.store == nil {
		return nil, "", nil
	}

	if sessionID == "" {
		sess, err := e.store.Create(ctx, e.snap.Root())
		if err != nil {
			return nil, "", err
		}
		return nil, sess.ID, nil
	}

	msgs, err := e.store.History(ctx, sessionID, e.cfg.Session.HistoryLimit)
	if err != nil {
		return nil, "", err
	}
	turns := make([]llm.Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, llm.Turn{Role: m.Role, Content: m.Content})
	}
	return turns, sessionID, nil
}

func (e *Engine) record(ctx context.Context, sessionID, query, answer string) error {
	if e.store == nil || sessionID == "" {
		return nil
	}
	if _, err := e.store.Append(ctx, sessionID, "user", query); err != nil {
		return err
	}
	if _, err := e.store.Append(ctx, sessionID, "assistant", answer); err != nil {
		return err
	}
	return nil
}
