// Package extract distills a session's turns into a candidate long-term
// memory record via a chat-completion provider. The response contract is
// strict: the model must return a single JSON object carrying exactly the
// four content fields of the record schema. Anything else fails the
// extraction as a whole — there is deliberately no heuristic text-mining
// fallback, so low-confidence inference can never reach durable memory.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/clarity/pkg/llm"
	"github.com/entrhq/clarity/pkg/llm/tokenizer"
	"github.com/entrhq/clarity/pkg/logging"
	"github.com/entrhq/clarity/pkg/memory"
	"github.com/entrhq/clarity/pkg/session"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("extract")
	if err != nil {
		debugLog.Warnf("Failed to initialize extract logger, using stderr fallback: %v", err)
	}
}

// ErrNoResponse indicates the provider returned an empty completion.
var ErrNoResponse = errors.New("extract: empty completion")

// defaultPromptBudget bounds the rendered conversation passed to the model.
// Oldest turns are dropped first when the budget is exceeded.
const defaultPromptBudget = 6000

const promptInstructions = `Analyze the following conversation and extract stable facts, preferences, and ongoing work items.
Focus on information that is likely to remain true over time (e.g., "I prefer dark mode" is stable,
"I'm feeling tired today" is not).

Conversation:
%s

Return a JSON object with the following structure:
{
    "user_profile": "A brief, stable description of the user",
    "preferences": ["list", "of", "stable", "preferences"],
    "work_in_progress": ["list", "of", "ongoing", "work", "items"],
    "open_loops": ["list", "of", "unresolved", "topics"]
}

Only include the JSON object in your response, with no additional text or explanation.`

// TokenCounter measures prompt size for budget enforcement.
// *tokenizer.Tokenizer satisfies it.
type TokenCounter interface {
	Count(text string) int
}

// Summarizer extracts a candidate record from session turns. It satisfies
// memory.Extractor.
type Summarizer struct {
	provider llm.Provider
	counter  TokenCounter
	budget   int
}

// SummarizerOption configures a Summarizer.
type SummarizerOption func(*Summarizer)

// WithTokenCounter replaces the default tiktoken-backed counter.
func WithTokenCounter(c TokenCounter) SummarizerOption {
	return func(s *Summarizer) {
		s.counter = c
	}
}

// WithPromptBudget sets the token budget for the rendered conversation.
func WithPromptBudget(tokens int) SummarizerOption {
	return func(s *Summarizer) {
		s.budget = tokens
	}
}

// NewSummarizer creates a Summarizer backed by the given provider.
func NewSummarizer(provider llm.Provider, opts ...SummarizerOption) (*Summarizer, error) {
	s := &Summarizer{provider: provider, budget: defaultPromptBudget}
	for _, opt := range opts {
		opt(s)
	}
	if s.counter == nil {
		tok, err := tokenizer.New()
		if err != nil {
			return nil, fmt.Errorf("extract: create tokenizer: %w", err)
		}
		s.counter = tok
	}
	return s, nil
}

// Extract sends the session's non-system turns to the provider and parses
// the response under the strict contract. Any parse or schema failure is
// total: the caller must skip the session's merge/save cycle.
func (s *Summarizer) Extract(ctx context.Context, turns []session.Turn) (*memory.Record, error) {
	conversation := s.renderConversation(turns)
	if conversation == "" {
		return nil, fmt.Errorf("extract: no turns to summarize")
	}

	prompt := fmt.Sprintf(promptInstructions, conversation)
	reply, err := s.provider.Complete(ctx, []*llm.Message{llm.NewUserMessage(prompt)})
	if err != nil {
		return nil, fmt.Errorf("extract: completion: %w", err)
	}
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return nil, ErrNoResponse
	}

	record, err := parseStrict(reply.Content)
	if err != nil {
		debugLog.Debugf("Rejected extraction response: %v", err)
		return nil, err
	}
	return record, nil
}

// renderConversation renders non-system turns as "ROLE: content" blocks,
// dropping the oldest turns until the result fits the token budget.
func (s *Summarizer) renderConversation(turns []session.Turn) string {
	kept := make([]session.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role == session.RoleSystem {
			continue
		}
		kept = append(kept, t)
	}

	render := func(ts []session.Turn) string {
		lines := make([]string, len(ts))
		for i, t := range ts {
			lines[i] = fmt.Sprintf("%s: %s", strings.ToUpper(string(t.Role)), t.Content)
		}
		return strings.Join(lines, "\n")
	}

	text := render(kept)
	for len(kept) > 1 && s.counter.Count(text) > s.budget {
		kept = kept[1:]
		text = render(kept)
	}
	return text
}

// parseStrict parses a completion under the strict-JSON contract. The only
// leniency applied is slicing from the first '{' to the last '}' to shed
// surrounding prose; the slice itself must then parse and validate in full.
func parseStrict(content string) (*memory.Record, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("extract: response contains no JSON object")
	}

	var shape map[string]any
	if err := json.Unmarshal([]byte(content[start:end+1]), &shape); err != nil {
		return nil, fmt.Errorf("extract: response is not valid JSON: %w", err)
	}
	record, violation := memory.CandidateFromShape(shape)
	if violation != nil {
		return nil, fmt.Errorf("extract: response failed schema validation: %w", violation)
	}
	return record, nil
}
