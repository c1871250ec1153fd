package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/clarity/pkg/llm"
	"github.com/entrhq/clarity/pkg/session"
)

// fakeProvider replays a canned completion and records the prompt it saw.
type fakeProvider struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeProvider) Complete(_ context.Context, messages []*llm.Message) (*llm.Message, error) {
	if len(messages) > 0 {
		f.prompt = messages[len(messages)-1].Content
	}
	if f.err != nil {
		return nil, f.err
	}
	return llm.NewAssistantMessage(f.reply), nil
}

func (f *fakeProvider) GetModel() string { return "fake" }

// wordCounter approximates token counts without the tiktoken data files.
type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

func newTestSummarizer(t *testing.T, p llm.Provider, opts ...SummarizerOption) *Summarizer {
	t.Helper()
	opts = append([]SummarizerOption{WithTokenCounter(wordCounter{})}, opts...)
	s, err := NewSummarizer(p, opts...)
	require.NoError(t, err)
	return s
}

var chatTurns = []session.Turn{
	{Role: session.RoleSystem, Content: "internal instructions"},
	{Role: session.RoleUser, Content: "I prefer dark mode and I'm working on a parser"},
	{Role: session.RoleAssistant, Content: "Noted!"},
}

func TestExtractParsesStrictJSON(t *testing.T) {
	provider := &fakeProvider{reply: `{
		"user_profile": "an engineer",
		"preferences": ["dark mode"],
		"work_in_progress": ["parser"],
		"open_loops": []
	}`}
	s := newTestSummarizer(t, provider)

	record, err := s.Extract(context.Background(), chatTurns)
	require.NoError(t, err)
	assert.Equal(t, "an engineer", record.UserProfile)
	assert.Equal(t, []string{"dark mode"}, record.Preferences)
	assert.Empty(t, record.LastUpdated, "timestamp is stamped by the store, not the extractor")
}

func TestExtractSlicesSurroundingProse(t *testing.T) {
	provider := &fakeProvider{reply: "Here is the summary you asked for:\n" +
		`{"user_profile": "", "preferences": [], "work_in_progress": [], "open_loops": ["reply to alex"]}` +
		"\nLet me know if you need anything else."}
	s := newTestSummarizer(t, provider)

	record, err := s.Extract(context.Background(), chatTurns)
	require.NoError(t, err)
	assert.Equal(t, []string{"reply to alex"}, record.OpenLoops)
}

func TestExtractRejectsNonJSON(t *testing.T) {
	// A prose reply mentioning preferences must fail outright; there is no
	// keyword-matching fallback.
	provider := &fakeProvider{reply: "The user said they prefer dark mode and like vim keys."}
	s := newTestSummarizer(t, provider)

	_, err := s.Extract(context.Background(), chatTurns)
	assert.Error(t, err)
}

func TestExtractRejectsIncompleteSchema(t *testing.T) {
	provider := &fakeProvider{reply: `{"user_profile": "x", "preferences": []}`}
	s := newTestSummarizer(t, provider)

	_, err := s.Extract(context.Background(), chatTurns)
	assert.Error(t, err)
}

func TestExtractRejectsMistypedField(t *testing.T) {
	provider := &fakeProvider{reply: `{"user_profile": "x", "preferences": "dark mode", "work_in_progress": [], "open_loops": []}`}
	s := newTestSummarizer(t, provider)

	_, err := s.Extract(context.Background(), chatTurns)
	assert.Error(t, err)
}

func TestExtractPropagatesProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	s := newTestSummarizer(t, provider)

	_, err := s.Extract(context.Background(), chatTurns)
	assert.Error(t, err)
}

func TestExtractExcludesSystemTurns(t *testing.T) {
	provider := &fakeProvider{reply: `{"user_profile": "", "preferences": [], "work_in_progress": [], "open_loops": []}`}
	s := newTestSummarizer(t, provider)

	_, err := s.Extract(context.Background(), chatTurns)
	require.NoError(t, err)
	assert.NotContains(t, provider.prompt, "internal instructions")
	assert.Contains(t, provider.prompt, "USER: I prefer dark mode")
}

func TestExtractDropsOldestTurnsOverBudget(t *testing.T) {
	provider := &fakeProvider{reply: `{"user_profile": "", "preferences": [], "work_in_progress": [], "open_loops": []}`}
	s := newTestSummarizer(t, provider, WithPromptBudget(8))

	turns := []session.Turn{
		{Role: session.RoleUser, Content: "oldest turn with many many extra words here"},
		{Role: session.RoleAssistant, Content: "newest"},
	}
	_, err := s.Extract(context.Background(), turns)
	require.NoError(t, err)
	assert.NotContains(t, provider.prompt, "oldest turn")
	assert.Contains(t, provider.prompt, "ASSISTANT: newest")
}

func TestExtractEmptySession(t *testing.T) {
	s := newTestSummarizer(t, &fakeProvider{})
	_, err := s.Extract(context.Background(), nil)
	assert.Error(t, err)
}
