package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gplanner/gplan/internal/core/ports/driven"
)

func newPromptStore(t *testing.T) (*PromptStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	return store, dir
}

func writePrompt(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".txt"), []byte(content), 0600))
}

func TestNewPromptStore_Dirs(t *testing.T) {
	store, dir := newPromptStore(t)
	assert.Equal(t, dir, store.Dir())

	home := t.TempDir()
	t.Setenv("HOME", home)
	def, err := NewPromptStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".gplan", "prompts"), def.Dir())

	_, statErr := os.Stat(def.Dir())
	assert.True(t, os.IsNotExist(statErr), "constructor performs no I/O")
}

func TestPromptStore_Load_CreatesEveryDefault(t *testing.T) {
	store, dir := newPromptStore(t)

	_, err := store.Load(driven.PromptDocRewrite)
	require.NoError(t, err)

	for _, name := range driven.PromptNames() {
		_, err := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, err, "expected %s.txt", name)
	}
	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "doc_translate.txt")
}

func TestPromptStore_Load_Defaults(t *testing.T) {
	store, _ := newPromptStore(t)

	for _, name := range driven.PromptNames() {
		prompt, err := store.Load(name)
		require.NoError(t, err)
		assert.Equal(t, defaultPrompts[name], prompt, name)
	}
}

func TestPromptStore_Load_CustomContent(t *testing.T) {
	store, dir := newPromptStore(t)
	writePrompt(t, dir, driven.PromptDocExpand, "\n  Expand like a bard.  \n")

	prompt, err := store.Load(driven.PromptDocExpand)
	require.NoError(t, err)
	assert.Equal(t, "Expand like a bard.", prompt)
}

func TestPromptStore_Load_EmptyFileFallsBack(t *testing.T) {
	store, dir := newPromptStore(t)
	writePrompt(t, dir, driven.PromptNodeSummary, "   \n")

	prompt, err := store.Load(driven.PromptNodeSummary)
	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptNodeSummary], prompt)
}

func TestPromptStore_Load_DeletedFileFallsBack(t *testing.T) {
	store, dir := newPromptStore(t)
	_, _ = store.Load(driven.PromptDocSummarize)

	require.NoError(t, os.Remove(filepath.Join(dir, driven.PromptDocSummarize+".txt")))
	store.Reload()

	prompt, err := store.Load(driven.PromptDocSummarize)
	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptDocSummarize], prompt)
}

func TestPromptStore_Load_Unknown(t *testing.T) {
	store, _ := newPromptStore(t)

	_, err := store.Load("poem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poem")
}

func TestPromptStore_Load_InitFailureUsesDefaults(t *testing.T) {
	store, err := NewPromptStore("/dev/null/prompts")
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptDocGenerate)
	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptDocGenerate], prompt)
}

func TestPromptStore_CacheAndReload(t *testing.T) {
	store, dir := newPromptStore(t)

	first, err := store.Load(driven.PromptDocTranslate)
	require.NoError(t, err)

	writePrompt(t, dir, driven.PromptDocTranslate, "Translate to French.")

	cached, err := store.Load(driven.PromptDocTranslate)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptDocTranslate)
	require.NoError(t, err)
	assert.Equal(t, "Translate to French.", fresh)
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	store, dir := newPromptStore(t)
	writePrompt(t, dir, driven.PromptDocGenerate, "mine")

	_, _ = store.Load(driven.PromptNodeSummary)

	data, err := os.ReadFile(filepath.Join(dir, driven.PromptDocGenerate+".txt"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestPromptStore_ConcurrentLoads(t *testing.T) {
	store, _ := newPromptStore(t)

	var wg sync.WaitGroup
	results := make([]string, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = store.Load(driven.PromptDocRewrite)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
	assert.NotEmpty(t, results[0])
}
