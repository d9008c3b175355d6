package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// stubCompletion records prompts and replies with a fixed answer.
type stubCompletion struct {
	mu     sync.Mutex
	reply  string
	err    error
	gate   chan struct{}
	calls  []string
	system []string
	closed bool
}

func (c *stubCompletion) Complete(ctx context.Context, system, user string) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, user)
	c.system = append(c.system, system)
	gate := c.gate
	c.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.reply, c.err
}

func (c *stubCompletion) ModelName() string { return "stub-model" }

func (c *stubCompletion) Close() error {
	c.closed = true
	return nil
}

func (c *stubCompletion) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type stubPrompts map[string]string

func (p stubPrompts) Load(name string) (string, error) {
	if v, ok := p[name]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

func (stubPrompts) Reload() {}

func newTestAssistant(t *testing.T, c *stubCompletion) (*AssistantService, *BoardService) {
	t.Helper()
	board, _ := newTestBoard(t)
	prompts := stubPrompts{
		driven.PromptNodeSummary:  "summarise",
		driven.PromptDocTranslate: "translate",
	}
	var svc driven.CompletionService
	if c != nil {
		svc = c
	}
	a := NewAssistantService(svc, prompts, board, WithRateLimit(1000, 10), WithAssistTimeout(time.Second))
	return a, board
}

func TestAssistant_Unavailable(t *testing.T) {
	a, _ := newTestAssistant(t, nil)

	assert.False(t, a.Available())
	assert.Empty(t, a.ModelName())
	_, err := a.Complete(context.Background(), "", "hi")
	assert.ErrorIs(t, err, domain.ErrCompletionUnavailable)
	_, err = a.DocAssist(context.Background(), domain.AssistGenerate, "x")
	assert.ErrorIs(t, err, domain.ErrCompletionUnavailable)
}

func TestAssistant_SetCompletionClosesPrevious(t *testing.T) {
	first := &stubCompletion{reply: "a"}
	a, _ := newTestAssistant(t, first)
	second := &stubCompletion{reply: "b"}

	a.SetCompletion(second)
	assert.True(t, first.closed)
	out, err := a.Complete(context.Background(), "", "q")
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}

func TestAssistant_SummarizeSelf(t *testing.T) {
	c := &stubCompletion{reply: "  short  "}
	a, board := newTestAssistant(t, c)
	node, _ := board.AddNode(domain.NodeText, nil, "a very long idea")

	out, err := a.SummarizeNode(context.Background(), node.ID, domain.SummarySelf)
	require.NoError(t, err)
	assert.Equal(t, "short", out)
	assert.Equal(t, []string{"Summarize the following content:\na very long idea"}, c.Calls())
	assert.Equal(t, "summarise", c.system[0])

	nodes, _ := board.Nodes()
	assert.Equal(t, "short", nodes[0].Content)
}

func TestAssistant_SummarizeInputs(t *testing.T) {
	c := &stubCompletion{reply: "merged"}
	a, board := newTestAssistant(t, c)
	x, _ := board.AddNode(domain.NodeText, nil, "one")
	y, _ := board.AddNode(domain.NodeCode, nil, "two")
	ai, _ := board.AddNode(domain.NodeAI, nil, "")

	_, err := a.SummarizeNode(context.Background(), ai.ID, domain.SummaryInputs)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nothing wired in yet")

	_, _, _ = board.Connect(x.ID, ai.ID)
	_, _, _ = board.Connect(y.ID, ai.ID)

	_, err = a.SummarizeNode(context.Background(), ai.ID, domain.SummaryInputs)
	require.NoError(t, err)

	nodes, _ := board.Nodes()
	assert.Equal(t, "🤖 **AI Summary (stub-model)**:\nmerged", nodes[2].Content)

	_, err = a.SummarizeNode(context.Background(), ai.ID, domain.SummaryInputs)
	require.NoError(t, err)
	nodes, _ = board.Nodes()
	assert.Contains(t, nodes[2].Content, "\n\n---\n\n🤖")
}

func TestAssistant_SummarizeValidation(t *testing.T) {
	a, board := newTestAssistant(t, &stubCompletion{})
	empty, _ := board.AddNode(domain.NodeText, nil, " ")

	_, err := a.SummarizeNode(context.Background(), empty.ID, domain.SummarySelf)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = a.SummarizeNode(context.Background(), empty.ID, "poem")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = a.SummarizeNode(context.Background(), "missing", domain.SummarySelf)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssistant_FailureLeavesContent(t *testing.T) {
	c := &stubCompletion{err: &domain.RequestFailed{StatusCode: 500}}
	a, board := newTestAssistant(t, c)
	node, _ := board.AddNode(domain.NodeText, nil, "keep me")

	_, err := a.SummarizeNode(context.Background(), node.ID, domain.SummarySelf)
	assert.True(t, domain.IsRequestFailed(err))
	assert.Len(t, c.Calls(), 1, "no retries")

	nodes, _ := board.Nodes()
	assert.Equal(t, "keep me", nodes[0].Content)

	c.err = errors.New("plain")
	_, err = a.Complete(context.Background(), "", "x")
	assert.True(t, domain.IsRequestFailed(err), "plain errors are wrapped")
}

func TestAssistant_OneRequestPerTarget(t *testing.T) {
	c := &stubCompletion{reply: "ok", gate: make(chan struct{})}
	a, board := newTestAssistant(t, c)
	node, _ := board.AddNode(domain.NodeText, nil, "text")

	done := make(chan error, 1)
	go func() {
		_, err := a.SummarizeNode(context.Background(), node.ID, domain.SummarySelf)
		done <- err
	}()
	require.Eventually(t, func() bool { return len(c.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	_, err := a.SummarizeNode(context.Background(), node.ID, domain.SummarySelf)
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	close(c.gate)
	require.NoError(t, <-done)

	_, err = a.SummarizeNode(context.Background(), node.ID, domain.SummarySelf)
	assert.NoError(t, err, "guard is released")
}

func TestAssistant_Timeout(t *testing.T) {
	c := &stubCompletion{gate: make(chan struct{})}
	board, _ := newTestBoard(t)
	a := NewAssistantService(c, nil, board, WithAssistTimeout(20*time.Millisecond))

	_, err := a.Complete(context.Background(), "", "slow")
	assert.True(t, domain.IsRequestFailed(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAssistant_DocAssist(t *testing.T) {
	c := &stubCompletion{reply: "bonjour"}
	a, _ := newTestAssistant(t, c)

	out, err := a.DocAssist(context.Background(), domain.AssistTranslate, "hello")
	require.NoError(t, err)
	assert.Equal(t, "bonjour", out)
	assert.Equal(t, "translate", c.system[0])
	assert.Equal(t, domain.AssistTranslate.UserPrompt("hello"), c.Calls()[0])

	_, err = a.DocAssist(context.Background(), domain.AssistGenerate, "draft")
	require.NoError(t, err)
	assert.Empty(t, c.system[1], "missing prompts degrade to none")

	_, err = a.DocAssist(context.Background(), "poem", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = a.DocAssist(context.Background(), domain.AssistRewrite, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
