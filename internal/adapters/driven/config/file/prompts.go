package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads assistant system prompts from user-editable files.
// Missing or unreadable files fall back to the embedded defaults.
//
// Files are only created on first Load, never in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptNodeSummary: `You are an efficient assistant who is good at summarising and distilling information. Output only the summary, without preamble.`,

	driven.PromptDocGenerate: `You are a professional game design assistant. Write a detailed section of design documentation from the user's instruction. Keep it logically structured and well formatted using Markdown.`,

	driven.PromptDocRewrite: `You are a senior editor. Polish the following text so it reads fluently and professionally, keeping the original meaning while improving the style. Output only the polished result.`,

	driven.PromptDocExpand: `You are a creative writer. Expand the following content with more detail, background description or concrete numbers. Output only the result.`,

	driven.PromptDocSummarize: `Summarise the core points of the following content as a list of key items.`,

	driven.PromptDocTranslate: `Translate the following content into English (or into Chinese if it is already English), keeping game terminology accurate.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.gplan/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".gplan", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the system prompt for name.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, known := defaultPrompts[name]
	if !known {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return fallback, nil
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		prompt = fallback
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, default files and README.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	var b strings.Builder
	b.WriteString("# gplan Prompts\n\n")
	b.WriteString("System prompts sent with AI assistant requests. The text you select or\n")
	b.WriteString("type is sent separately as the user message.\n\n## Files\n\n")
	for _, name := range driven.PromptNames() {
		fmt.Fprintf(&b, "- `%s.txt`\n", name)
	}
	b.WriteString("\nEdit a file to change the assistant's behaviour. Delete it to restore the\n")
	b.WriteString("default on next start. An empty file also falls back to the default.\n")

	return os.WriteFile(path, []byte(b.String()), 0600)
}
