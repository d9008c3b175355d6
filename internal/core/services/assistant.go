package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/core/ports/driving"
	"github.com/gplanner/gplan/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// Assistant defaults.
const (
	DefaultAssistTimeout = 30 * time.Second

	// Requests per second and burst.
	defaultAssistRate  = 1.0
	defaultAssistBurst = 3

	docAssistTarget = "doc-assist"
)

// AssistantOption configures an AssistantService.
type AssistantOption func(*AssistantService)

// WithAssistTimeout bounds each completion request.
func WithAssistTimeout(d time.Duration) AssistantOption {
	return func(s *AssistantService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRateLimit sets the request rate and burst.
func WithRateLimit(perSecond float64, burst int) AssistantOption {
	return func(s *AssistantService) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// AssistantService runs completions for board cards and documents.
// A target (a card id, or the document assistant) has at most one request
// in flight; completions are never retried.
type AssistantService struct {
	board   driving.BoardService
	prompts driven.PromptStore
	timeout time.Duration
	limiter *rate.Limiter

	mu         sync.Mutex
	completion driven.CompletionService
	inFlight   map[string]bool
}

// NewAssistantService creates an assistant. completion may be nil, in
// which case every request reports domain.ErrCompletionUnavailable.
func NewAssistantService(
	completion driven.CompletionService,
	prompts driven.PromptStore,
	board driving.BoardService,
	opts ...AssistantOption,
) *AssistantService {
	s := &AssistantService{
		board:      board,
		prompts:    prompts,
		timeout:    DefaultAssistTimeout,
		limiter:    rate.NewLimiter(rate.Limit(defaultAssistRate), defaultAssistBurst),
		completion: completion,
		inFlight:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCompletion swaps the completion client, e.g. after the active
// profile changed. The previous client is closed.
func (s *AssistantService) SetCompletion(c driven.CompletionService) {
	s.mu.Lock()
	prev := s.completion
	s.completion = c
	s.mu.Unlock()
	if prev != nil && prev != c {
		_ = prev.Close()
	}
}

// Available reports whether a completion client is configured.
func (s *AssistantService) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completion != nil
}

// ModelName returns the configured model, or empty.
func (s *AssistantService) ModelName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completion == nil {
		return ""
	}
	return s.completion.ModelName()
}

// Complete sends raw prompts.
func (s *AssistantService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	svc, err := s.client()
	if err != nil {
		return "", err
	}
	return s.run(ctx, svc, systemPrompt, userPrompt)
}

// SummarizeNode summarises a card or its inputs and writes the result
// back. The card's content at completion time is used, so edits made
// while the request ran are kept when appending.
func (s *AssistantService) SummarizeNode(ctx context.Context, nodeID string, mode domain.SummaryMode) (string, error) {
	if !mode.IsValid() {
		return "", domain.NewValidationError("mode", "unknown summary mode %q", mode)
	}
	svc, err := s.client()
	if err != nil {
		return "", err
	}

	content, err := s.nodeContent(nodeID)
	if err != nil {
		return "", err
	}
	var inputs []string
	switch mode {
	case domain.SummarySelf:
		if strings.TrimSpace(content) == "" {
			return "", domain.NewValidationError("content", "card is empty")
		}
	case domain.SummaryInputs:
		inputs, err = s.board.InputsOf(nodeID)
		if err != nil {
			return "", err
		}
		if len(inputs) == 0 {
			return "", domain.NewValidationError("inputs", "no cards are connected to this card")
		}
	}

	release, err := s.acquire(nodeID)
	if err != nil {
		return "", err
	}
	defer release()

	system := s.prompt(driven.PromptNodeSummary)
	result, err := s.run(ctx, svc, system, domain.SummaryPrompt(mode, content, inputs))
	if err != nil {
		return "", err
	}

	current, err := s.nodeContent(nodeID)
	if err != nil {
		return "", fmt.Errorf("card removed during request: %w", err)
	}
	if err := s.board.UpdateContent(nodeID, domain.ApplySummary(mode, current, result, svc.ModelName())); err != nil {
		return "", err
	}
	return result, nil
}

// DocAssist runs a document assistant action and returns the raw text.
func (s *AssistantService) DocAssist(ctx context.Context, mode domain.AssistMode, text string) (string, error) {
	if !mode.IsValid() {
		return "", domain.NewValidationError("mode", "unknown assistant mode %q", mode)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.NewValidationError("text", "must not be empty")
	}
	svc, err := s.client()
	if err != nil {
		return "", err
	}

	release, err := s.acquire(docAssistTarget)
	if err != nil {
		return "", err
	}
	defer release()

	return s.run(ctx, svc, s.prompt(assistPromptName(mode)), mode.UserPrompt(text))
}

func (s *AssistantService) client() (driven.CompletionService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completion == nil {
		return nil, domain.ErrCompletionUnavailable
	}
	return s.completion, nil
}

func (s *AssistantService) acquire(target string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[target] {
		return nil, fmt.Errorf("%s: %w", target, domain.ErrRequestInFlight)
	}
	s.inFlight[target] = true
	return func() {
		s.mu.Lock()
		delete(s.inFlight, target)
		s.mu.Unlock()
	}, nil
}

func (s *AssistantService) run(ctx context.Context, svc driven.CompletionService, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return "", &domain.RequestFailed{Message: "rate limited", Err: err}
	}

	start := time.Now()
	out, err := svc.Complete(ctx, system, user)
	if err != nil {
		logger.Warn("completion with %s failed after %s: %v", svc.ModelName(), time.Since(start).Round(time.Millisecond), err)
		if domain.IsRequestFailed(err) {
			return "", err
		}
		return "", &domain.RequestFailed{Err: err}
	}
	logger.Debug("completion with %s took %s", svc.ModelName(), time.Since(start).Round(time.Millisecond))
	return strings.TrimSpace(out), nil
}

func (s *AssistantService) nodeContent(nodeID string) (string, error) {
	nodes, err := s.board.Nodes()
	if err != nil {
		return "", err
	}
	for _, n := range nodes {
		if n.ID == nodeID {
			return n.Content, nil
		}
	}
	return "", fmt.Errorf("card %s: %w", nodeID, domain.ErrNotFound)
}

// prompt loads a system prompt. A failing store degrades to no system prompt.
func (s *AssistantService) prompt(name string) string {
	if s.prompts == nil {
		return ""
	}
	p, err := s.prompts.Load(name)
	if err != nil {
		logger.Warn("prompt %s unavailable: %v", name, err)
		return ""
	}
	return p
}

func assistPromptName(mode domain.AssistMode) string {
	switch mode {
	case domain.AssistRewrite:
		return driven.PromptDocRewrite
	case domain.AssistExpand:
		return driven.PromptDocExpand
	case domain.AssistSummarize:
		return driven.PromptDocSummarize
	case domain.AssistTranslate:
		return driven.PromptDocTranslate
	default:
		return driven.PromptDocGenerate
	}
}
